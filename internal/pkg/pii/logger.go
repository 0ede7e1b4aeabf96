package pii

import (
	"encoding/json"

	"k8s.io/klog/v2"
)

// Log 先脱敏再输出结构化日志
// 所有包含来电人信息的记录必须经由此函数落日志，这是边界约定
func Log(label string, value any) {
	klog.V(6).Infof("%s: %s", label, MaskedJSON(value))
}

// MaskedJSON 将任意值转为脱敏后的 JSON 字符串
// 结构体先经 JSON 往返转成通用树，让字段名规则能命中 json tag
func MaskedJSON(value any) string {
	masked := Mask(toTree(value))
	data, err := json.Marshal(masked)
	if err != nil {
		klog.Errorf("JSON序列化失败: %v", err)
		return ""
	}
	return string(data)
}

func toTree(value any) any {
	data, err := json.Marshal(value)
	if err != nil {
		return value
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return value
	}
	return tree
}
