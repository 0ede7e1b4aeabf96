package phone

import (
	"fmt"
	"strings"
)

// Result 电话号码校验结果
type Result struct {
	IsValid    bool   `json:"is_valid"`
	Normalized string `json:"normalized,omitempty"` // E.164 形式，校验失败时为空
	Digits     string `json:"digits"`
	Error      string `json:"error,omitempty"`
}

// 合法字符集：数字、空白、横线、括号、点、加号
func isAllowedChar(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == ' ' || r == '\t':
		return true
	case r == '-' || r == '(' || r == ')' || r == '.' || r == '+':
		return true
	}
	return false
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate 校验并规范化电话号码
// 规则：
//   - 10 位数字视为北美号码，加 "+1" 前缀
//   - 11 位且以 1 开头，加 "+" 前缀
//   - 其余合法长度（10-15 位）视为已含国家码，直接加 "+"
func Validate(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Result{Error: "phone number is required"}
	}

	for _, r := range trimmed {
		if !isAllowedChar(r) {
			return Result{Error: "phone number contains invalid characters"}
		}
	}

	digits := extractDigits(trimmed)
	if len(digits) < 10 {
		return Result{Digits: digits, Error: fmt.Sprintf("phone number too short: %d digits", len(digits))}
	}
	if len(digits) > 15 {
		return Result{Digits: digits, Error: fmt.Sprintf("phone number too long: %d digits", len(digits))}
	}

	var normalized string
	switch {
	case len(digits) == 10:
		normalized = "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		normalized = "+" + digits
	default:
		normalized = "+" + digits
	}

	return Result{
		IsValid:    true,
		Normalized: normalized,
		Digits:     digits,
	}
}

// LooksLikePhone 宽松判断一段自由文本是否像电话号码
// 用于预筛选，不作为校验依据：至少 7 位数字，且非电话字符占比不超过 20%
func LooksLikePhone(value string) bool {
	if value == "" {
		return false
	}

	digits := extractDigits(value)
	if len(digits) < 7 {
		return false
	}

	total := 0
	nonPhone := 0
	for _, r := range value {
		total++
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.' || r == '+':
		default:
			nonPhone++
		}
	}

	return float64(nonPhone)/float64(total) <= 0.2
}

// NationalDigits 提取国内号码数字串
// 11 位且以 1 开头时去掉国家码，用于目录查询的归一化比对
func NationalDigits(raw string) string {
	digits := extractDigits(raw)
	if len(digits) == 11 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}
