package rental

import (
	"time"
)

// RentalEvent 是 rental_events 表的 GORM 模型。
// 日期沿用边界约定的 DD/MM/YYYY 文本格式；价格不落库，
// 总价由客户端按当前 price_per_day 现算。
type RentalEvent struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	StartDate  string    `gorm:"size:16;not null" json:"start_date"`
	EndDate    string    `gorm:"size:16;not null" json:"end_date"`
	CustomerID string    `gorm:"index;size:36;not null" json:"customer_id"`
	VehicleID  string    `gorm:"index;size:36;not null" json:"vehicle_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"-"`
}
