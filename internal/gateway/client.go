package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RentCarLink/RentCarLink/internal/common/tracing"
	"github.com/opentracing/opentracing-go/ext"
)

var (
	// ErrNotFound 按 id 查询不到记录。
	ErrNotFound = errors.New("gateway: record not found")
	// ErrNoAvailability 条件递减被数据服务拒绝（available 已为 0）。
	ErrNoAvailability = errors.New("gateway: no availability left")
)

// StatusError 数据服务返回了非 2xx 状态码。
type StatusError struct {
	Method string
	Path   string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway: %s %s returned status %d", e.Method, e.Path, e.Code)
}

// Gateway 是核心消费的远端数据服务契约。预订与查价走这里，
// 不走查找缓存，避免拿到过期的可用数量。
type Gateway interface {
	ListVehicles(ctx context.Context) ([]Vehicle, error)
	GetVehicle(ctx context.Context, id string) (*Vehicle, error)
	ListVehicleTypes(ctx context.Context) ([]VehicleType, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	CreateRentalEvent(ctx context.Context, in CreateRentalEventInput) (*RentalEvent, error)
	DecrementAvailableIfPositive(ctx context.Context, vehicleID string) (*Vehicle, error)
}

// Client Gateway 的 HTTP 实现。
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient 创建客户端。timeout<=0 时取 10s。
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// do 发送一次请求：创建 client span、编码请求体、校验状态码、解码响应。
// out 为 nil 时丢弃响应体。
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: failed to encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span := tracing.StartClientSpan(req, fmt.Sprintf("%s %s", method, path))
	defer span.Finish()

	resp, err := c.httpc.Do(req)
	if err != nil {
		ext.Error.Set(span, true)
		return fmt.Errorf("gateway: %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()
	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, path, ErrNoAvailability)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		ext.Error.Set(span, true)
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	var out []Vehicle
	if err := c.do(ctx, http.MethodGet, "/vehicles", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetVehicle(ctx context.Context, id string) (*Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("gateway: vehicle id required")
	}
	var out Vehicle
	if err := c.do(ctx, http.MethodGet, "/vehicles/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListVehicleTypes(ctx context.Context) ([]VehicleType, error) {
	var out []VehicleType
	if err := c.do(ctx, http.MethodGet, "/vehicleTypes", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var out []Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRentalEvent(ctx context.Context, in CreateRentalEventInput) (*RentalEvent, error) {
	var out RentalEvent
	if err := c.do(ctx, http.MethodPost, "/rental-events", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DecrementAvailableIfPositive 调用数据服务的原子递减接口。
// 递减与校验在服务端一个事务里完成，客户端不再做读-改-写。
func (c *Client) DecrementAvailableIfPositive(ctx context.Context, vehicleID string) (*Vehicle, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, fmt.Errorf("gateway: vehicle id required")
	}
	var out Vehicle
	if err := c.do(ctx, http.MethodPost, "/vehicles/"+vehicleID+"/available/decrement", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveVehicle 管理表单用的通用保存：id 为空走 POST 创建，否则 PUT 覆盖。
func (c *Client) SaveVehicle(ctx context.Context, id string, in VehicleInput) (*Vehicle, error) {
	var out Vehicle
	method, path := http.MethodPost, "/vehicles"
	if id = strings.TrimSpace(id); id != "" {
		method, path = http.MethodPut, "/vehicles/"+id
	}
	if err := c.do(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteVehicle(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("gateway: vehicle id required")
	}
	return c.do(ctx, http.MethodDelete, "/vehicles/"+id, nil, nil)
}

// PatchVehicleAvailable 通用的部分更新（管理场景）。预订流程不用它，
// 预订走 DecrementAvailableIfPositive。
func (c *Client) PatchVehicleAvailable(ctx context.Context, id, available string) (*Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("gateway: vehicle id required")
	}
	body := struct {
		Available string `json:"available"`
	}{Available: available}
	var out Vehicle
	if err := c.do(ctx, http.MethodPatch, "/vehicles/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveCustomer 管理表单用的通用保存：id 为空走 POST 创建，否则 PUT 覆盖。
func (c *Client) SaveCustomer(ctx context.Context, id string, in CustomerInput) (*Customer, error) {
	var out Customer
	method, path := http.MethodPost, "/customers"
	if id = strings.TrimSpace(id); id != "" {
		method, path = http.MethodPut, "/customers/"+id
	}
	if err := c.do(ctx, method, path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("gateway: customer id required")
	}
	return c.do(ctx, http.MethodDelete, "/customers/"+id, nil, nil)
}
