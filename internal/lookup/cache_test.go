package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/RentCarLink/RentCarLink/internal/gateway"
)

type fakeGateway struct {
	types     []gateway.VehicleType
	customers []gateway.Customer
	vehicles  []gateway.Vehicle

	typesErr     error
	customersErr error
	vehiclesErr  error
}

func (f *fakeGateway) ListVehicles(ctx context.Context) ([]gateway.Vehicle, error) {
	return f.vehicles, f.vehiclesErr
}

func (f *fakeGateway) GetVehicle(ctx context.Context, id string) (*gateway.Vehicle, error) {
	return nil, gateway.ErrNotFound
}

func (f *fakeGateway) ListVehicleTypes(ctx context.Context) ([]gateway.VehicleType, error) {
	return f.types, f.typesErr
}

func (f *fakeGateway) ListCustomers(ctx context.Context) ([]gateway.Customer, error) {
	return f.customers, f.customersErr
}

func (f *fakeGateway) CreateRentalEvent(ctx context.Context, in gateway.CreateRentalEventInput) (*gateway.RentalEvent, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) DecrementAvailableIfPositive(ctx context.Context, vehicleID string) (*gateway.Vehicle, error) {
	return nil, errors.New("not implemented")
}

func testGateway() *fakeGateway {
	return &fakeGateway{
		types: []gateway.VehicleType{
			{ID: "1", Name: "Economy"},
			{ID: "3", Name: "Luxury"},
		},
		customers: []gateway.Customer{
			{ID: "c1", FullName: "Maria Petrova"},
			{ID: "c2", FullName: "Ivan Georgiev"},
		},
		vehicles: []gateway.Vehicle{
			{ID: "v1", Brand: "Dacia", Model: "Duster", Year: "2021"},
			{ID: "v2", Brand: "Skoda", Model: "Octavia", Year: "2019"},
		},
	}
}

func TestRefreshAndLookup(t *testing.T) {
	cache := NewCache(testGateway())
	if err := cache.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}

	if got := cache.CategoryName("3"); got != "Luxury" {
		t.Fatalf("CategoryName(3) = %q", got)
	}
	if got := cache.CategoryName("999"); got != UnknownCategory {
		t.Fatalf("expected sentinel for unknown id, got %q", got)
	}

	customers := cache.CustomerOptions()
	if len(customers) != 2 || customers[0].Label != "Maria Petrova" || customers[0].Value != "c1" {
		t.Fatalf("unexpected customer options: %+v", customers)
	}

	// 车辆文案固定为 "<brand> <model> (<year>)"，顺序 = 拉取顺序
	vehicles := cache.VehicleOptions()
	if len(vehicles) != 2 || vehicles[0].Label != "Dacia Duster (2021)" || vehicles[1].Label != "Skoda Octavia (2019)" {
		t.Fatalf("unexpected vehicle options: %+v", vehicles)
	}
}

func TestRefreshFailureKeepsOldSnapshot(t *testing.T) {
	gw := testGateway()
	cache := NewCache(gw)
	if err := cache.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll: %v", err)
	}

	gw.typesErr = errors.New("connection refused")
	gw.vehiclesErr = errors.New("connection refused")
	gw.customers = append(gw.customers, gateway.Customer{ID: "c3", FullName: "Elena Dimitrova"})

	err := cache.RefreshAll(context.Background())
	if err == nil {
		t.Fatalf("expected error from failing refreshes")
	}

	// 失败的映射保留旧快照，成功的正常替换
	if got := cache.CategoryName("1"); got != "Economy" {
		t.Fatalf("expected old category snapshot, got %q", got)
	}
	if got := cache.VehicleOptions(); len(got) != 2 {
		t.Fatalf("expected old vehicle snapshot, got %+v", got)
	}
	if got := cache.CustomerOptions(); len(got) != 3 {
		t.Fatalf("expected refreshed customers, got %+v", got)
	}
}

func TestEmptyCacheIsUsable(t *testing.T) {
	cache := NewCache(testGateway())
	if got := cache.CategoryName("1"); got != UnknownCategory {
		t.Fatalf("expected sentinel before refresh, got %q", got)
	}
	if got := cache.CustomerOptions(); len(got) != 0 {
		t.Fatalf("expected empty options before refresh, got %+v", got)
	}
}

func TestOptionsAreCopies(t *testing.T) {
	cache := NewCache(testGateway())
	if err := cache.RefreshVehicles(context.Background()); err != nil {
		t.Fatalf("RefreshVehicles: %v", err)
	}

	opts := cache.VehicleOptions()
	opts[0].Label = "mutated"
	if got := cache.VehicleOptions(); got[0].Label == "mutated" {
		t.Fatalf("expected snapshot to be immutable through returned slice")
	}
}
