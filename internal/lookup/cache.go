package lookup

import (
	"context"
	"fmt"
	"sync"

	"github.com/RentCarLink/RentCarLink/internal/gateway"
)

// UnknownCategory 类别 id 不在缓存里时返回的占位名。
// 展示代码不允许因为过期/未知 id 而报错。
const UnknownCategory = "Unknown"

// Option 选择控件的一项：展示文案 + 实体 id。
type Option struct {
	Label string
	Value string
}

// Cache 是类别/客户/车辆的内存投影，用于 id→名称解析和选择列表。
//
// 快照语义：每次 Refresh 整体替换对应映射，读方要么看到旧快照要么看到
// 新快照，不会看到半成品；拉取失败时旧快照原样保留。
// 缓存不跟随远端变更，增删改之后由调用方自行再触发 Refresh。
type Cache struct {
	gw gateway.Gateway

	mu         sync.RWMutex
	categories map[string]string
	customers  []Option
	vehicles   []Option
}

// NewCache 创建空缓存，未 Refresh 前所有查询返回空列表/占位名。
func NewCache(gw gateway.Gateway) *Cache {
	return &Cache{
		gw:         gw,
		categories: map[string]string{},
	}
}

// RefreshCategories 拉取全部车辆类别并整体替换映射。
func (c *Cache) RefreshCategories(ctx context.Context) error {
	types, err := c.gw.ListVehicleTypes(ctx)
	if err != nil {
		return fmt.Errorf("refresh categories: %w", err)
	}

	next := make(map[string]string, len(types))
	for _, t := range types {
		next[t.ID] = t.Name
	}

	c.mu.Lock()
	c.categories = next
	c.mu.Unlock()
	return nil
}

// RefreshCustomers 拉取全部客户并整体替换选择列表（顺序 = 拉取顺序）。
func (c *Cache) RefreshCustomers(ctx context.Context) error {
	customers, err := c.gw.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("refresh customers: %w", err)
	}

	next := make([]Option, 0, len(customers))
	for _, cust := range customers {
		next = append(next, Option{Label: cust.FullName, Value: cust.ID})
	}

	c.mu.Lock()
	c.customers = next
	c.mu.Unlock()
	return nil
}

// RefreshVehicles 拉取全部车辆并整体替换选择列表（顺序 = 拉取顺序）。
func (c *Cache) RefreshVehicles(ctx context.Context) error {
	vehicles, err := c.gw.ListVehicles(ctx)
	if err != nil {
		return fmt.Errorf("refresh vehicles: %w", err)
	}

	next := make([]Option, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		next = append(next, Option{Label: v.Label(), Value: v.ID})
	}

	c.mu.Lock()
	c.vehicles = next
	c.mu.Unlock()
	return nil
}

// RefreshAll 应用启动时的一次性填充。三个列表各自刷新，
// 一个失败不妨碍其余两个，最后返回第一个遇到的错误。
func (c *Cache) RefreshAll(ctx context.Context) error {
	var first error
	for _, refresh := range []func(context.Context) error{
		c.RefreshCategories,
		c.RefreshCustomers,
		c.RefreshVehicles,
	} {
		if err := refresh(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// CategoryName 解析类别 id，未知 id 返回 UnknownCategory，永不报错。
func (c *Cache) CategoryName(id string) string {
	c.mu.RLock()
	name, ok := c.categories[id]
	c.mu.RUnlock()
	if !ok {
		return UnknownCategory
	}
	return name
}

// CustomerOptions 返回客户选择列表的副本。
func (c *Cache) CustomerOptions() []Option {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Option, len(c.customers))
	copy(out, c.customers)
	return out
}

// VehicleOptions 返回车辆选择列表的副本。
func (c *Cache) VehicleOptions() []Option {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Option, len(c.vehicles))
	copy(out, c.vehicles)
	return out
}
