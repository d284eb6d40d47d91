package rental

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, ev *RentalEvent) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(ev).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*RentalEvent, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var ev RentalEvent
	if err := db.Where("id = ?", id).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// List 支持按 vehicle_id / customer_id 过滤。
func (r *Repo) List(ctx context.Context, vehicleID, customerID string) ([]RentalEvent, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}

	q := db.Model(&RentalEvent{})
	if vehicleID != "" {
		q = q.Where("vehicle_id = ?", vehicleID)
	}
	if customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}

	var events []RentalEvent
	if err := q.Order("created_at asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
