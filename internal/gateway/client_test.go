package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListVehiclesAndCoercion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/vehicles" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		// 数值字段按边界约定全部是文本
		_, _ = w.Write([]byte(`[{"id":"v1","brand":"Dacia","model":"Duster","year":"2021","price_per_day":"99.5","available":"4","vehicle_type_id":"4"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	vehicles, err := c.ListVehicles(context.Background())
	if err != nil {
		t.Fatalf("ListVehicles: %v", err)
	}
	if len(vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(vehicles))
	}

	v := &vehicles[0]
	if v.Label() != "Dacia Duster (2021)" {
		t.Fatalf("unexpected label: %q", v.Label())
	}
	price, err := v.PriceValue()
	if err != nil || price != 99.5 {
		t.Fatalf("PriceValue = %v, %v", price, err)
	}
	count, err := v.AvailableCount()
	if err != nil || count != 4 {
		t.Fatalf("AvailableCount = %v, %v", count, err)
	}
}

func TestCoercionRejectsMalformedNumbers(t *testing.T) {
	v := &Vehicle{PricePerDay: "cheap", Available: "many"}
	if _, err := v.PriceValue(); err == nil {
		t.Fatalf("expected error for malformed price")
	}
	if _, err := v.AvailableCount(); err == nil {
		t.Fatalf("expected error for malformed available")
	}
}

func TestGetVehicleNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.GetVehicle(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateRentalEventPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rental-events" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		// 请求体不携带价格字段
		if _, ok := body["price"]; ok {
			t.Fatalf("payload must not carry a price")
		}
		if body["start_date"] != "01/01/2024" || body["customer_id"] != "c1" || body["vehicle_id"] != "v1" {
			t.Fatalf("unexpected payload: %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(RentalEvent{ID: "ev1", StartDate: body["start_date"]})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	ev, err := c.CreateRentalEvent(context.Background(), CreateRentalEventInput{
		StartDate:  "01/01/2024",
		EndDate:    "07/01/2024",
		CustomerID: "c1",
		VehicleID:  "v1",
	})
	if err != nil {
		t.Fatalf("CreateRentalEvent: %v", err)
	}
	if ev.ID != "ev1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecrementAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/vehicles/v1/available/decrement" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(Vehicle{ID: "v1", Available: "0"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	v, err := c.DecrementAvailableIfPositive(context.Background(), "v1")
	if err != nil {
		t.Fatalf("DecrementAvailableIfPositive: %v", err)
	}
	if v.Available != "0" {
		t.Fatalf("unexpected vehicle: %+v", v)
	}
}

func TestDecrementSoldOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no availability left", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	if _, err := c.DecrementAvailableIfPositive(context.Background(), "v1"); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.ListCustomers(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected StatusError 500, got %v", err)
	}
}

func TestPatchVehicleAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/vehicles/v1" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["available"] != "7" {
			t.Fatalf("unexpected payload: %+v", body)
		}
		_ = json.NewEncoder(w).Encode(Vehicle{ID: "v1", Available: "7"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	v, err := c.PatchVehicleAvailable(context.Background(), "v1", "7")
	if err != nil {
		t.Fatalf("PatchVehicleAvailable: %v", err)
	}
	if v.Available != "7" {
		t.Fatalf("unexpected vehicle: %+v", v)
	}
}
