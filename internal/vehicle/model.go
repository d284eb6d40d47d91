package vehicle

import (
	"time"
)

// Vehicle 是 vehicles 表的 GORM 模型。
// 数值字段（year/seats/price_per_day/available）按边界约定以文本存储和传输，
// 数值化统一由客户端的 gateway 层完成。
type Vehicle struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Brand         string    `gorm:"size:64;not null" json:"brand"`
	Model         string    `gorm:"size:64" json:"model"`
	Year          string    `gorm:"size:8" json:"year"`
	Fuel          string    `gorm:"size:32" json:"fuel"`
	Seats         string    `gorm:"size:8" json:"seats"`
	PricePerDay   string    `gorm:"size:32" json:"price_per_day"`
	Available     string    `gorm:"size:8" json:"available"`
	VehicleTypeID string    `gorm:"index;size:36" json:"vehicle_type_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"-"`
}

// VehicleType 车辆类别（只读字典表）。
type VehicleType struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name"`
}
