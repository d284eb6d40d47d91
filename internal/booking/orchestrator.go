package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RentCarLink/RentCarLink/internal/common/logger"
	"github.com/RentCarLink/RentCarLink/internal/gateway"
	"github.com/RentCarLink/RentCarLink/internal/lookup"
	"github.com/RentCarLink/RentCarLink/internal/pricing"
)

// SubmitInput 预订提交的入参。
type SubmitInput struct {
	CustomerID string
	VehicleID  string
	StartDate  string // DD/MM/YYYY
	EndDate    string // DD/MM/YYYY
}

// Submission 一次提交的可观测结果。Status 区分
// “记录没建成”（failed）和“记录建成但可用数没调到”（failed_partial），
// 调用方据此决定提示文案。
type Submission struct {
	Status     Status
	Event      *gateway.RentalEvent
	Vehicle    *gateway.Vehicle // 递减成功后的车辆快照
	CreatedAt  *time.Time
	AdjustedAt *time.Time
	FailedAt   *time.Time
}

// Orchestrator 协调预订的两步写：创建租赁记录 + 条件递减可用数。
// 两步之间没有事务，也不做重试和补偿；第二步失败时第一步的记录保留。
// 车辆数据一律现从网关读取，不走查找缓存，避免拿到过期可用数。
type Orchestrator struct {
	gw    gateway.Gateway
	cache *lookup.Cache
	log   logger.Logger
	now   func() time.Time
}

func NewOrchestrator(gw gateway.Gateway, cache *lookup.Cache, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		gw:    gw,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// Quote 按车辆当前日租价对日期区间报价。
// 价格不随提交持久化，展示与提交前校验都用这里的现算结果。
func (o *Orchestrator) Quote(ctx context.Context, vehicleID, startDate, endDate string) (pricing.Quote, error) {
	v, err := o.gw.GetVehicle(ctx, vehicleID)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("quote: %w", err)
	}
	pricePerDay, err := v.PriceValue()
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("quote: %w", err)
	}
	return pricing.ComputePrice(pricePerDay, startDate, endDate), nil
}

// Submit 提交一次预订：
//  1. POST 租赁记录；失败 → failed，远端无任何变更
//  2. 条件递减车辆可用数；失败 → failed_partial，记录保留、可用数不变
//  3. 刷新车辆选择列表；刷新失败只记日志，不影响提交结果
func (o *Orchestrator) Submit(ctx context.Context, in SubmitInput) (*Submission, error) {
	sub := &Submission{Status: StatusPending}

	customerID := strings.TrimSpace(in.CustomerID)
	vehicleID := strings.TrimSpace(in.VehicleID)
	if customerID == "" || vehicleID == "" {
		o.mustTransition(sub, StatusFailed)
		return sub, fmt.Errorf("customer_id and vehicle_id required")
	}

	ev, err := o.gw.CreateRentalEvent(ctx, gateway.CreateRentalEventInput{
		StartDate:  strings.TrimSpace(in.StartDate),
		EndDate:    strings.TrimSpace(in.EndDate),
		CustomerID: customerID,
		VehicleID:  vehicleID,
	})
	if err != nil {
		o.mustTransition(sub, StatusFailed)
		return sub, fmt.Errorf("create rental event: %w", err)
	}
	sub.Event = ev
	o.mustTransition(sub, StatusCreated)

	v, err := o.gw.DecrementAvailableIfPositive(ctx, vehicleID)
	if err != nil {
		// 已知的不一致窗口：记录已持久化，可用数保持原值
		o.mustTransition(sub, StatusFailedPartial)
		return sub, fmt.Errorf("adjust availability for vehicle %s: %w", vehicleID, err)
	}
	sub.Vehicle = v
	o.mustTransition(sub, StatusAvailabilityAdjusted)

	if o.cache != nil {
		if err := o.cache.RefreshVehicles(ctx); err != nil && o.log != nil {
			o.log.Warnf("booking %s: failed to refresh vehicle list: %v", ev.ID, err)
		}
	}

	if o.log != nil {
		o.log.WithFields(map[string]interface{}{
			"event_id":   ev.ID,
			"vehicle_id": vehicleID,
			"available":  v.Available,
		}).Info("booking submitted")
	}
	return sub, nil
}

// mustTransition 内部流转。状态机和编排步骤一一对应，
// 走到非法流转说明编排代码自身有 bug。
func (o *Orchestrator) mustTransition(sub *Submission, to Status) {
	if err := ApplyTransition(sub, to, o.now()); err != nil {
		panic(err)
	}
}
