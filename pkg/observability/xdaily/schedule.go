package xdaily

import (
	"fmt"
	"time"
)

// rotationSchedule 轮转触发状态机
//
// 唯一的状态变量是 next（下一次轮转时刻），始终严格晚于计算它的时刻，
// 且总是"今天或明天的本地 hour:minute:00"。
type rotationSchedule struct {
	hour   int
	minute int
	loc    *time.Location
	next   time.Time
}

// newRotationSchedule 校验轮转时刻并以 now 为基准武装触发器。
func newRotationSchedule(hour, minute int, loc *time.Location, now time.Time) (*rotationSchedule, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("%w: got %02d:%02d, want 00:00~23:59", ErrInvalidRotationTime, hour, minute)
	}
	s := &rotationSchedule{hour: hour, minute: minute, loc: loc}
	s.next = s.computeNext(now)
	return s, nil
}

// computeNext 计算严格晚于 t 的下一次轮转时刻。
//
// 取 t 的本地日期，替换为配置的 hour:minute:00；若该时刻严格晚于 t
// 则采用，否则加 24 小时。加法是墙钟朴素的绝对 24 小时，不校正
// 夏令时跳变（见包文档）。
func (s *rotationSchedule) computeNext(t time.Time) time.Time {
	local := t.In(s.loc)
	candidate := time.Date(local.Year(), local.Month(), local.Day(), s.hour, s.minute, 0, 0, s.loc)
	if candidate.After(t) {
		return candidate
	}
	return candidate.Add(24 * time.Hour)
}

// shouldRotate 判定带时间戳 t 的记录是否触发轮转。
//
// 使用记录自身的时间戳而非"现在"，重放同一记录流时轮转判定是
// 确定性的，不受墙钟漂移影响。
func (s *rotationSchedule) shouldRotate(t time.Time) bool {
	return !t.Before(s.next)
}

// advance 轮转完成后推进触发器。
//
// 从前一次计划时刻（而非触发记录的时间戳）重新计算，轮转节奏稳定在
// 恰好 24 小时，即使记录成批到达或存在间隙。
func (s *rotationSchedule) advance() {
	s.next = s.computeNext(s.next)
}
