package officehours

import (
	"fmt"
	"time"

	"k8s.io/klog/v2"
)

// 营业时间：周一到周五 9:00-17:00（当地时间，17:00 整点算已打烊）
const (
	openHour  = 9
	closeHour = 17

	DefaultTimeZone = "America/Los_Angeles"
)

// Result 营业状态查询结果
type Result struct {
	IsOpen          bool   `json:"is_open"`
	CurrentTime     string `json:"current_time"`
	CurrentDay      string `json:"current_day"`
	NextBusinessDay string `json:"next_business_day"`
	Message         string `json:"message"`
}

// Calculator 按固定时区计算营业状态
// 夏令时由时区规则自动处理；节假日有意不处理（已知限制）
type Calculator struct {
	loc *time.Location
}

// New 创建计算器，zone 为空时使用默认时区
func New(zone string) (*Calculator, error) {
	if zone == "" {
		zone = DefaultTimeZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %s: %w", zone, err)
	}
	return &Calculator{loc: loc}, nil
}

// MustNew 加载失败时回退到 UTC，只用于启动兜底
func MustNew(zone string) *Calculator {
	c, err := New(zone)
	if err != nil {
		klog.Errorf("[OfficeHours] 时区加载失败，回退 UTC: %v", err)
		return &Calculator{loc: time.UTC}
	}
	return c
}

// CheckNow 以当前时间计算营业状态
func (c *Calculator) CheckNow() Result {
	return c.Check(time.Now())
}

// Check 计算指定时刻的营业状态
// 纯函数：同一时刻和时区规则下结果确定
func (c *Calculator) Check(instant time.Time) Result {
	local := instant.In(c.loc)
	weekday := local.Weekday()
	hour := local.Hour()

	isWeekday := weekday >= time.Monday && weekday <= time.Friday
	isOpen := isWeekday && hour >= openHour && hour < closeHour

	nextBusinessDay := "tomorrow"
	if weekday == time.Saturday || weekday == time.Sunday ||
		(weekday == time.Friday && hour >= closeHour) {
		nextBusinessDay = "Monday"
	}

	var message string
	if isOpen {
		message = "We're currently open! Our office hours are 9 AM to 5 PM, Monday through Friday."
	} else {
		message = fmt.Sprintf(
			"We're currently closed. Our office hours are 9 AM to 5 PM, Monday through Friday. We'll be back %s at 9 AM.",
			nextBusinessDay)
	}

	return Result{
		IsOpen:          isOpen,
		CurrentTime:     local.Format("3:04 PM"),
		CurrentDay:      weekday.String(),
		NextBusinessDay: nextBusinessDay,
		Message:         message,
	}
}
