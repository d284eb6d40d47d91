package pricing

import (
	"time"
)

// DateLayout 边界约定的日期格式（DD/MM/YYYY）。
const DateLayout = "02/01/2006"

// Quote 一次租赁的报价明细。
type Quote struct {
	Days            int     // 整天数（日期倒置时为负）
	Base            float64 // 未打折的基础价
	DiscountPercent int     // 命中的折扣档（0/5/7/10）
	Total           float64 // 折后总价
}

// DurationDays 计算两个 DD/MM/YYYY 日期之间的整天数。
// 任一日期解析失败按 0 天处理：操作员尚在输入时界面也要能持续报价，
// 日期合法性由预订提交方把关。
func DurationDays(startDate, endDate string) int {
	start, err := time.Parse(DateLayout, startDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, endDate)
	if err != nil {
		return 0
	}
	return int(end.Sub(start) / (24 * time.Hour))
}

// DiscountPercent 按整天数选折扣档。各档互斥且覆盖全部整数：
// ≤3 天无折扣（含 0 与负数），(3,5] 5%，(5,10] 7%，>10 10%。
func DiscountPercent(days int) int {
	switch {
	case days <= 3:
		return 0
	case days <= 5:
		return 5
	case days <= 10:
		return 7
	default:
		return 10
	}
}

// ComputePrice 纯函数报价：无 I/O、无副作用，
// 相同输入永远得到相同输出，可在每次输入变化时调用。
func ComputePrice(pricePerDay float64, startDate, endDate string) Quote {
	days := DurationDays(startDate, endDate)
	base := float64(days) * pricePerDay
	discount := DiscountPercent(days)
	return Quote{
		Days:            days,
		Base:            base,
		DiscountPercent: discount,
		Total:           base * float64(100-discount) / 100,
	}
}
