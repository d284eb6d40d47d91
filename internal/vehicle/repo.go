package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNoAvailability 表示车辆可用数已为 0，条件递减被拒绝。
var ErrNoAvailability = errors.New("vehicle has no availability left")

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

func (r *Repo) List(ctx context.Context) ([]Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var vehicles []Vehicle
	if err := db.Order("created_at asc").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) Create(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(v).Error
}

func (r *Repo) Update(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(v).Error
}

// PatchAvailable 只更新 available 一列（对应 PATCH /vehicles/{id}）。
func (r *Repo) PatchAvailable(ctx context.Context, id, available string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	res := db.Model(&Vehicle{}).Where("id = ?", id).Update("available", available)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	res := db.Where("id = ?", id).Delete(&Vehicle{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementAvailableIfPositive 在行锁保护下把 available 减 1。
// available 以文本存储，因此在事务内读出、解析、校验后回写；
// 两个并发预订打到同一辆车时，第二个会在锁释放后看到 0 并被拒绝。
func (r *Repo) DecrementAvailableIfPositive(ctx context.Context, id string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}

	var out Vehicle
	err := db.Transaction(func(tx *gorm.DB) error {
		var v Vehicle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&v).Error; err != nil {
			return err
		}

		n, err := strconv.Atoi(strings.TrimSpace(v.Available))
		if err != nil {
			return fmt.Errorf("vehicle %s has malformed available=%q: %w", id, v.Available, err)
		}
		if n <= 0 {
			return ErrNoAvailability
		}

		if err := tx.Model(&Vehicle{}).Where("id = ?", id).
			Update("available", strconv.Itoa(n-1)).Error; err != nil {
			return err
		}

		v.Available = strconv.Itoa(n - 1)
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type TypeRepo struct {
	db *gorm.DB
}

func NewTypeRepo(db *gorm.DB) *TypeRepo {
	return &TypeRepo{db: db}
}

func (r *TypeRepo) List(ctx context.Context) ([]VehicleType, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var types []VehicleType
	if err := r.db.WithContext(ctx).Order("id asc").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// SeedDefaultTypes 在字典表为空时写入默认类别。
func (r *TypeRepo) SeedDefaultTypes(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&VehicleType{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []VehicleType{
		{ID: "1", Name: "Economy"},
		{ID: "2", Name: "Estate"},
		{ID: "3", Name: "Luxury"},
		{ID: "4", Name: "SUV"},
		{ID: "5", Name: "Cargo"},
	}
	return r.db.WithContext(ctx).Create(&defaults).Error
}
