package pricing

import (
	"testing"
)

func TestDiscountTiers(t *testing.T) {
	cases := []struct {
		days int
		want int
	}{
		{-5, 0},
		{0, 0},
		{1, 0},
		{3, 0},
		{4, 5},
		{5, 5},
		{6, 7},
		{10, 7},
		{11, 10},
		{30, 10},
	}
	for _, c := range cases {
		if got := DiscountPercent(c.days); got != c.want {
			t.Fatalf("DiscountPercent(%d) = %d, want %d", c.days, got, c.want)
		}
	}
}

func TestDurationDays(t *testing.T) {
	if got := DurationDays("01/01/2024", "04/01/2024"); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	if got := DurationDays("04/01/2024", "01/01/2024"); got != -3 {
		t.Fatalf("expected -3 days for inverted dates, got %d", got)
	}
	if got := DurationDays("15/01/2024", "15/01/2024"); got != 0 {
		t.Fatalf("expected 0 days for equal dates, got %d", got)
	}
	// 解析失败按 0 天处理，不报错
	if got := DurationDays("2024-01-01", "04/01/2024"); got != 0 {
		t.Fatalf("expected 0 days for malformed start, got %d", got)
	}
	if got := DurationDays("01/01/2024", "not a date"); got != 0 {
		t.Fatalf("expected 0 days for malformed end, got %d", got)
	}
}

func TestComputePrice(t *testing.T) {
	// 3 天无折扣
	q := ComputePrice(100, "01/01/2024", "04/01/2024")
	if q.Days != 3 || q.DiscountPercent != 0 || q.Total != 300 {
		t.Fatalf("unexpected quote: %+v", q)
	}

	// 6 天 7% 折扣
	q = ComputePrice(100, "01/01/2024", "07/01/2024")
	if q.Days != 6 || q.DiscountPercent != 7 || q.Total != 558 {
		t.Fatalf("unexpected quote: %+v", q)
	}

	// 14 天 10% 折扣
	q = ComputePrice(100, "01/01/2024", "15/01/2024")
	if q.Days != 14 || q.DiscountPercent != 10 || q.Total != 1260 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestComputePriceMalformedDate(t *testing.T) {
	q := ComputePrice(100, "garbage", "04/01/2024")
	if q.Days != 0 || q.Total != 0 {
		t.Fatalf("expected zero quote for malformed date, got %+v", q)
	}
}

func TestComputePriceIsPure(t *testing.T) {
	a := ComputePrice(77.5, "01/01/2024", "09/01/2024")
	b := ComputePrice(77.5, "01/01/2024", "09/01/2024")
	if a != b {
		t.Fatalf("expected identical quotes, got %+v vs %+v", a, b)
	}
}
