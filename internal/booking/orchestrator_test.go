package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/RentCarLink/RentCarLink/internal/gateway"
	"github.com/RentCarLink/RentCarLink/internal/lookup"
)

// fakeGateway 内存版数据服务，按需注入各步骤的失败。
type fakeGateway struct {
	vehicles map[string]*gateway.Vehicle
	events   []gateway.RentalEvent

	createErr    error
	decrementErr error
}

func newFakeGateway(available string) *fakeGateway {
	return &fakeGateway{
		vehicles: map[string]*gateway.Vehicle{
			"v1": {
				ID: "v1", Brand: "Dacia", Model: "Duster", Year: "2021",
				PricePerDay: "100", Available: available, VehicleTypeID: "4",
			},
		},
	}
}

func (f *fakeGateway) ListVehicles(ctx context.Context) ([]gateway.Vehicle, error) {
	out := make([]gateway.Vehicle, 0, len(f.vehicles))
	for _, v := range f.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeGateway) GetVehicle(ctx context.Context, id string) (*gateway.Vehicle, error) {
	v, ok := f.vehicles[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (f *fakeGateway) ListVehicleTypes(ctx context.Context) ([]gateway.VehicleType, error) {
	return nil, nil
}

func (f *fakeGateway) ListCustomers(ctx context.Context) ([]gateway.Customer, error) {
	return nil, nil
}

func (f *fakeGateway) CreateRentalEvent(ctx context.Context, in gateway.CreateRentalEventInput) (*gateway.RentalEvent, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	ev := gateway.RentalEvent{
		ID:         fmt.Sprintf("ev%d", len(f.events)+1),
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		CustomerID: in.CustomerID,
		VehicleID:  in.VehicleID,
	}
	f.events = append(f.events, ev)
	return &ev, nil
}

func (f *fakeGateway) DecrementAvailableIfPositive(ctx context.Context, vehicleID string) (*gateway.Vehicle, error) {
	if f.decrementErr != nil {
		return nil, f.decrementErr
	}
	v, ok := f.vehicles[vehicleID]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	n, err := strconv.Atoi(v.Available)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, gateway.ErrNoAvailability
	}
	v.Available = strconv.Itoa(n - 1)
	copied := *v
	return &copied, nil
}

func submitInput() SubmitInput {
	return SubmitInput{
		CustomerID: "c1",
		VehicleID:  "v1",
		StartDate:  "01/01/2024",
		EndDate:    "07/01/2024",
	}
}

func TestSubmitHappyPath(t *testing.T) {
	gw := newFakeGateway("2")
	cache := lookup.NewCache(gw)
	orch := NewOrchestrator(gw, cache, nil)

	sub, err := orch.Submit(context.Background(), submitInput())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Status != StatusAvailabilityAdjusted {
		t.Fatalf("expected availability_adjusted, got %s", sub.Status)
	}
	if sub.Event == nil || sub.Event.CustomerID != "c1" {
		t.Fatalf("unexpected event: %+v", sub.Event)
	}
	if sub.Vehicle.Available != "1" {
		t.Fatalf("expected available=1 after decrement, got %q", sub.Vehicle.Available)
	}
	if len(gw.events) != 1 {
		t.Fatalf("expected 1 persisted event, got %d", len(gw.events))
	}
	// 提交成功后车辆选择列表已刷新
	if opts := cache.VehicleOptions(); len(opts) != 1 || opts[0].Label != "Dacia Duster (2021)" {
		t.Fatalf("unexpected vehicle options after refresh: %+v", opts)
	}
}

func TestSubmitCreateFails(t *testing.T) {
	gw := newFakeGateway("2")
	gw.createErr = errors.New("connection refused")
	orch := NewOrchestrator(gw, nil, nil)

	sub, err := orch.Submit(context.Background(), submitInput())
	if err == nil {
		t.Fatalf("expected error")
	}
	if sub.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", sub.Status)
	}
	// 第一步失败后什么都没有持久化，可用数也没动
	if len(gw.events) != 0 {
		t.Fatalf("expected no persisted events, got %d", len(gw.events))
	}
	if gw.vehicles["v1"].Available != "2" {
		t.Fatalf("expected availability untouched, got %q", gw.vehicles["v1"].Available)
	}
}

func TestSubmitDecrementFails(t *testing.T) {
	gw := newFakeGateway("2")
	gw.decrementErr = errors.New("connection reset")
	orch := NewOrchestrator(gw, nil, nil)

	sub, err := orch.Submit(context.Background(), submitInput())
	if err == nil {
		t.Fatalf("expected error")
	}
	// 已知的不一致窗口：记录存在、可用数未调整，状态必须区分于整单失败
	if sub.Status != StatusFailedPartial {
		t.Fatalf("expected failed_partial, got %s", sub.Status)
	}
	if sub.Event == nil || len(gw.events) != 1 {
		t.Fatalf("expected booking to remain persisted")
	}
	if gw.vehicles["v1"].Available != "2" {
		t.Fatalf("expected availability untouched, got %q", gw.vehicles["v1"].Available)
	}
}

func TestSubmitRejectsWhenSoldOut(t *testing.T) {
	gw := newFakeGateway("1")
	orch := NewOrchestrator(gw, nil, nil)

	// 第一单吃掉最后一个可用名额
	if _, err := orch.Submit(context.Background(), submitInput()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if gw.vehicles["v1"].Available != "0" {
		t.Fatalf("expected available=0, got %q", gw.vehicles["v1"].Available)
	}

	// 第二单被条件递减拒绝，可用数不会变成负数
	sub, err := orch.Submit(context.Background(), submitInput())
	if err == nil {
		t.Fatalf("expected second submit to be rejected")
	}
	if !errors.Is(err, gateway.ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}
	if sub.Status != StatusFailedPartial {
		t.Fatalf("expected failed_partial, got %s", sub.Status)
	}
	if gw.vehicles["v1"].Available != "0" {
		t.Fatalf("expected available to stay 0, got %q", gw.vehicles["v1"].Available)
	}
}

func TestSubmitValidatesIDs(t *testing.T) {
	gw := newFakeGateway("2")
	orch := NewOrchestrator(gw, nil, nil)

	sub, err := orch.Submit(context.Background(), SubmitInput{VehicleID: "v1"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if sub.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", sub.Status)
	}
	if len(gw.events) != 0 {
		t.Fatalf("expected no persisted events")
	}
}

func TestQuote(t *testing.T) {
	gw := newFakeGateway("2")
	orch := NewOrchestrator(gw, nil, nil)

	q, err := orch.Quote(context.Background(), "v1", "01/01/2024", "15/01/2024")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Days != 14 || q.DiscountPercent != 10 || q.Total != 1260 {
		t.Fatalf("unexpected quote: %+v", q)
	}

	if _, err := orch.Quote(context.Background(), "missing", "01/01/2024", "02/01/2024"); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuoteMalformedPrice(t *testing.T) {
	gw := newFakeGateway("2")
	gw.vehicles["v1"].PricePerDay = "cheap"
	orch := NewOrchestrator(gw, nil, nil)

	if _, err := orch.Quote(context.Background(), "v1", "01/01/2024", "02/01/2024"); err == nil {
		t.Fatalf("expected coercion error for malformed price")
	}
}
