package pii

import (
	"regexp"
	"strings"
)

// 字段名匹配前先归一化：小写并去掉下划线、横线
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	return key
}

// 姓名类字段：逐词保留首字母
var nameFields = map[string]bool{
	"callername": true,
	"fullname":   true,
	"firstname":  true,
	"lastname":   true,
	"name":       true,
}

var phoneFields = map[string]bool{
	"phone":       true,
	"phonenumber": true,
}

// 按名字识别为 PII 但没有专门规则的字段，统一替换为 [REDACTED]
var genericPIIFields = map[string]bool{
	"driverlicense":  true,
	"driverslicense": true,
	"licensenumber":  true,
	"creditcard":     true,
	"cardnumber":     true,
	"bankaccount":    true,
	"accountnumber":  true,
}

var (
	dobYearRe = regexp.MustCompile(`(19|20)\d\d`)
	addressRe = regexp.MustCompile(`,\s*([A-Za-z]{2})\s+(\d{5}(?:-\d{4})?)\s*$`)
)

// Mask 递归脱敏任意记录树，返回新结构，不修改输入
// 只处理字符串值，数字、布尔、nil 原样保留；未识别的字符串字段原样透传
func Mask(value any) any {
	return maskValue("", value)
}

func maskValue(key string, value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = maskValue(k, item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = maskValue(k, item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			// 序列成员沿用所属字段名的规则
			out[i] = maskValue(key, item)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = maskValue(key, item)
		}
		return out
	case string:
		return maskField(key, v)
	default:
		// 数字、布尔、nil 等原语不动
		return value
	}
}

func maskField(key, value string) string {
	norm := normalizeKey(key)

	switch {
	case nameFields[norm]:
		return maskName(value)
	case norm == "email":
		return maskEmail(value)
	case phoneFields[norm]:
		return MaskPhone(value, 4)
	case norm == "ssn":
		return maskSSN(value)
	case norm == "dob" || norm == "dateofbirth":
		return maskDOB(value)
	case norm == "address" || norm == "street":
		return maskAddress(value)
	case genericPIIFields[norm]:
		return "[REDACTED]"
	}

	return value
}

// maskName 每个词只保留首字符，"John Smith" -> "J. S."
func maskName(value string) string {
	words := strings.Fields(value)
	if len(words) == 0 {
		return value
	}
	parts := make([]string, 0, len(words))
	for _, w := range words {
		r := []rune(w)
		parts = append(parts, string(r[0])+".")
	}
	return strings.Join(parts, " ")
}

// maskEmail 保留本地部分首字符和完整域名
func maskEmail(value string) string {
	at := strings.Index(value, "@")
	if at < 0 {
		return value
	}
	local := value[:at]
	domain := value[at:]
	if len(local) <= 1 {
		return "*" + domain
	}
	return local[:1] + strings.Repeat("*", len(local)-1) + domain
}

// MaskPhone 保留末尾 showLast 位数字
// 10 位和 1 开头的 11 位号码格式化为北美样式，数字不足 showLast 位时原样返回
func MaskPhone(value string, showLast int) string {
	var digits []byte
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			digits = append(digits, value[i])
		}
	}

	if len(digits) < showLast {
		return value
	}

	d := string(digits)
	switch {
	case len(d) == 10:
		return "(***) ***-" + d[6:]
	case len(d) == 11 && d[0] == '1':
		return "+1 (***) ***-" + d[7:]
	default:
		return strings.Repeat("*", len(d)-showLast) + d[len(d)-showLast:]
	}
}

func maskSSN(value string) string {
	var digits []byte
	for i := 0; i < len(value); i++ {
		if value[i] >= '0' && value[i] <= '9' {
			digits = append(digits, value[i])
		}
	}
	if len(digits) < 4 {
		return "***-**-****"
	}
	return "***-**-" + string(digits[len(digits)-4:])
}

// maskDOB 只保留年份
func maskDOB(value string) string {
	if year := dobYearRe.FindString(value); year != "" {
		return "**/**/" + year
	}
	return "[REDACTED DOB]"
}

// maskAddress 保留州和邮编，街道部分整体遮蔽
func maskAddress(value string) string {
	m := addressRe.FindStringSubmatch(value)
	if m == nil {
		return "[REDACTED ADDRESS]"
	}
	return "[REDACTED], " + strings.ToUpper(m[1]) + " " + m[2]
}
