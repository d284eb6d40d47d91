package booking

import (
	"fmt"
	"time"
)

// Status 一次预订提交的状态（两步写之间没有事务边界，
// 所以部分失败是一个可观测的显式状态，而不是隐式的中间态）。
type Status string

const (
	StatusPending              Status = "pending"               // 尚未发起任何写操作
	StatusCreated              Status = "created"               // 租赁记录已创建，可用数未调整
	StatusAvailabilityAdjusted Status = "availability_adjusted" // 可用数已递减，提交完成
	StatusFailed               Status = "failed"                // 第一步失败，远端无任何变更
	StatusFailedPartial        Status = "failed_partial"        // 记录已存在但可用数未调整
)

// AllowTransition 定义提交状态机的允许流转关系。
var AllowTransition = map[Status][]Status{
	StatusPending: {StatusCreated, StatusFailed},
	StatusCreated: {StatusAvailabilityAdjusted, StatusFailedPartial},
	// 终态：不允许再流转
	StatusAvailabilityAdjusted: {},
	StatusFailed:               {},
	StatusFailedPartial:        {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal 判断状态是否为终态。
func IsTerminal(s Status) bool {
	allowed, ok := AllowTransition[s]
	return ok && len(allowed) == 0
}

// ApplyTransition 对提交应用状态变更，并维护关键时间字段。
func ApplyTransition(s *Submission, to Status, now time.Time) error {
	if s == nil {
		return fmt.Errorf("submission is nil")
	}
	from := s.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid submission status transition: %s -> %s", from, to)
	}

	s.Status = to

	switch to {
	case StatusCreated:
		if s.CreatedAt == nil {
			t := now
			s.CreatedAt = &t
		}
	case StatusAvailabilityAdjusted:
		if s.AdjustedAt == nil {
			t := now
			s.AdjustedAt = &t
		}
	case StatusFailed, StatusFailedPartial:
		if s.FailedAt == nil {
			t := now
			s.FailedAt = &t
		}
	}
	return nil
}
