package gateway

import (
	"fmt"
	"strconv"
	"strings"
)

// 数据服务的线上契约：所有数值字段一律以文本传输。
// 数值化只发生在这里（parseDecimal / parseCount），
// 定价与预订逻辑拿到的已经是数值，不再各自散落转换。

// Vehicle 车辆的线上表示。
type Vehicle struct {
	ID            string `json:"id"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          string `json:"year"`
	Fuel          string `json:"fuel"`
	Seats         string `json:"seats"`
	PricePerDay   string `json:"price_per_day"`
	Available     string `json:"available"`
	VehicleTypeID string `json:"vehicle_type_id"`
}

// PriceValue 返回数值化后的日租价。
func (v *Vehicle) PriceValue() (float64, error) {
	return parseDecimal("price_per_day", v.PricePerDay)
}

// AvailableCount 返回数值化后的可用数量。
func (v *Vehicle) AvailableCount() (int, error) {
	return parseCount("available", v.Available)
}

// Label 选择控件用的展示文案，固定为 "<brand> <model> (<year>)"。
func (v *Vehicle) Label() string {
	return fmt.Sprintf("%s %s (%s)", v.Brand, v.Model, v.Year)
}

// VehicleType 车辆类别的线上表示。
type VehicleType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Customer 客户的线上表示。
type Customer struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// RentalEvent 租赁记录的线上表示。
type RentalEvent struct {
	ID         string `json:"id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	CustomerID string `json:"customer_id"`
	VehicleID  string `json:"vehicle_id"`
}

// CreateRentalEventInput 创建租赁记录的请求体。
// 按契约不携带价格：历史价格没有持久化来源，总价始终按当前日租价现算。
type CreateRentalEventInput struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	CustomerID string `json:"customer_id"`
	VehicleID  string `json:"vehicle_id"`
}

// VehicleInput 车辆管理表单的请求体（POST/PUT 共用）。
type VehicleInput struct {
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          string `json:"year"`
	Fuel          string `json:"fuel"`
	Seats         string `json:"seats"`
	PricePerDay   string `json:"price_per_day"`
	Available     string `json:"available"`
	VehicleTypeID string `json:"vehicle_type_id"`
}

// CustomerInput 客户管理表单的请求体（POST/PUT 共用）。
type CustomerInput struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

func parseDecimal(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s=%q: %w", field, s, err)
	}
	return v, nil
}

func parseCount(field, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("malformed %s=%q: %w", field, s, err)
	}
	return v, nil
}
