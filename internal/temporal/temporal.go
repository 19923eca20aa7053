package temporal

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// 日期解析格式，日在前优先（登记表导出约定），ISO 作为兜底
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate 按日在前约定解析日期文本
// 解析失败返回 nil 而不是错误：下游聚合将其视为缺失值。
func ParseDate(text string) *time.Time {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseClock 解析墙上时钟时间（HH:MM:SS 或 HH:MM），返回自零点起的小时数
func ParseClock(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		sec = 0
		if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
			return 0, false
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, false
	}
	return float64(h) + float64(m)/60 + float64(sec)/3600, true
}

// Amplitude 每日营业时长（小时）
// 收盘早于开盘视为跨夜营业，加 24 小时回正。
// 任一时间缺失或无法解析时返回 0，不向上传播错误。
func Amplitude(opening, closing string) float64 {
	open, ok := ParseClock(opening)
	if !ok {
		return 0
	}
	close, ok := ParseClock(closing)
	if !ok {
		return 0
	}
	diff := close - open
	if diff < 0 {
		diff += 24
	}
	return diff
}

// DateOnly 截断到日粒度
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// TenureDays 在网天数 = 参考日期 − 创建日期（日粒度）
// 任一端点缺失返回 0；创建晚于参考日期时夹紧为 0，绝不为负。
func TenureDays(created, reference *time.Time) int {
	if created == nil || reference == nil {
		return 0
	}
	days := int(DateOnly(*reference).Sub(DateOnly(*created)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Latest 取一组日期中的最大值（忽略 nil）
// 用于计算参考日期：以账本中最晚的订单日期为锚点，保证同样输入得到同样结果。
func Latest(dates []*time.Time) *time.Time {
	var max *time.Time
	for _, d := range dates {
		if d == nil {
			continue
		}
		if max == nil || d.After(*max) {
			max = d
		}
	}
	return max
}

// Round1 四舍五入到一位小数
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Window 闭区间日期窗口（日粒度比较，忽略时分秒）
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow 构造日期窗口
func NewWindow(start, end time.Time) Window {
	return Window{Start: DateOnly(start), End: DateOnly(end)}
}

// ParseWindow 从 YYYY-MM-DD 文本解析窗口
func ParseWindow(start, end string) (Window, error) {
	s, err := time.Parse("2006-01-02", strings.TrimSpace(start))
	if err != nil {
		return Window{}, fmt.Errorf("开始日期无效: %q", start)
	}
	e, err := time.Parse("2006-01-02", strings.TrimSpace(end))
	if err != nil {
		return Window{}, fmt.Errorf("结束日期无效: %q", end)
	}
	if e.Before(s) {
		return Window{}, fmt.Errorf("结束日期早于开始日期: %s > %s", start, end)
	}
	return NewWindow(s, e), nil
}

// Contains 判断日期是否落在窗口内（含端点）
func (w Window) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(w.Start) && !d.After(w.End)
}
