package tools

import (
	"k8s.io/klog/v2"
)

// ApologyMessage 工具内部出错时返回给来电人的兜底话术
// 语音通道绝不能把原始错误念给客户听
const ApologyMessage = "I'm so sorry, I'm having a little trouble with my system right now. " +
	"Let me just take down your name and number the old-fashioned way, and we'll have someone call you right back."

// safeRun 工具执行的安全边界
// 任何 panic 或内部错误都收口为道歉话术，通话不因内部故障中断
func safeRun(toolName string, fn func() (string, error)) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("[%s] 工具执行 panic: %v", toolName, r)
			result = ApologyMessage
			err = nil
		}
	}()

	res, runErr := fn()
	if runErr != nil {
		// 错误作为字符串返回给大模型，而不是返回 error 中断节点执行
		klog.Errorf("[%s] 工具执行失败: %v", toolName, runErr)
		return ApologyMessage, nil
	}
	return res, nil
}
