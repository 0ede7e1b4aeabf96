package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/internal/pkg/directory"
	"github.com/weibaohui/openreceptionist/internal/pkg/phone"
	"github.com/weibaohui/openreceptionist/internal/pkg/pii"
)

// LookupCustomerTool 按电话号码查客户目录
// 唯一会修改 CustomerContext 的工具
type LookupCustomerTool struct {
	sessionID string
	deps      Deps
}

func NewLookupCustomerTool(sessionID string, deps Deps) *LookupCustomerTool {
	return &LookupCustomerTool{sessionID: sessionID, deps: deps}
}

// Info 实现 tool.BaseTool 接口
func (t *LookupCustomerTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return &schema.ToolInfo{
		Name: "lookup_customer",
		Desc: "Look up an existing customer in the agency directory by phone number",
		ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"phone_number": {
				Type:     schema.String,
				Desc:     "Caller's phone number",
				Required: true,
			},
			"caller_name": {
				Type: schema.String,
				Desc: "Caller's name if already collected",
			},
			"address": {
				Type: schema.String,
				Desc: "Caller's street address if already collected",
			},
			"zip_code": {
				Type: schema.String,
				Desc: "Caller's zip code if already collected",
			},
		}),
	}, nil
}

// InvokableRun 执行目录查询并更新会话的客户上下文
// 查询失败降级为未命中，不会打断通话
func (t *LookupCustomerTool) InvokableRun(ctx context.Context, arguments string, opts ...tool.Option) (string, error) {
	return safeRun("LookupCustomerTool", func() (string, error) {
		var args struct {
			PhoneNumber string `json:"phone_number"`
			CallerName  string `json:"caller_name"`
			Address     string `json:"address"`
			ZipCode     string `json:"zip_code"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			klog.Errorf("[LookupCustomerTool] 参数解析失败: %v", err)
			return "I'm sorry, could you give me that phone number one more time?", nil
		}

		checked := phone.Validate(args.PhoneNumber)
		if !checked.IsValid {
			klog.V(6).Infof("[LookupCustomerTool] 号码校验失败: sessionID=%s, reason=%s", t.sessionID, checked.Error)
			return "I'm sorry, I didn't quite catch that phone number. Could you repeat it for me, area code first?", nil
		}

		sess := t.deps.Sessions.GetOrCreate(t.sessionID)
		now := time.Now()

		// 先记录零散信息，无论查询结果如何
		sess.Customer.LookupAttempted = true
		sess.Customer.CollectedInfo.Phone = checked.Normalized
		if args.CallerName != "" {
			sess.Customer.CollectedInfo.Name = args.CallerName
		}
		if args.Address != "" {
			sess.Customer.CollectedInfo.Address = args.Address
		}
		if args.ZipCode != "" {
			sess.Customer.CollectedInfo.ZipCode = args.ZipCode
		}

		req := &directory.LookupRequest{
			PhoneNumber: checked.Normalized,
			CallerName:  args.CallerName,
			Address:     args.Address,
			ZipCode:     args.ZipCode,
			Timestamp:   now,
			SessionID:   t.sessionID,
		}
		pii.Log("[LookupCustomerTool] 目录查询请求", req)

		resp, err := t.deps.Directory.Lookup(ctx, req)
		if err != nil || resp == nil || !resp.Success || resp.Data == nil || !resp.Data.Found {
			if err != nil {
				klog.Errorf("[LookupCustomerTool] 目录查询出错，按未命中处理: %v", err)
			}
			sess.Customer.LookupSuccessful = false
			sess.Customer.LookupTime = &now
			return "I don't see an account under that number, but no worries at all — I can still help you out. Could I get your name?", nil
		}

		sess.Customer.LookupSuccessful = true
		sess.Customer.Record = resp.Data
		sess.Customer.LookupTime = &now
		pii.Log("[LookupCustomerTool] 目录查询命中", resp.Data)

		return formatCustomerSummary(resp.Data), nil
	})
}

// formatCustomerSummary 把客户记录整理成适合语音播报的摘要
func formatCustomerSummary(record *directory.CustomerRecord) string {
	var b strings.Builder

	if record.FirstName != "" {
		fmt.Fprintf(&b, "I found your account, %s. ", record.FirstName)
	} else {
		b.WriteString("I found your account. ")
	}

	switch len(record.Policies) {
	case 0:
		b.WriteString("I don't see any active policies on file right now.")
	case 1:
		p := record.Policies[0]
		fmt.Fprintf(&b, "You have one policy with us: %s insurance through %s, %s.", p.Type, p.Carrier, p.Status)
	default:
		fmt.Fprintf(&b, "You have %d policies with us: ", len(record.Policies))
		parts := make([]string, 0, len(record.Policies))
		for _, p := range record.Policies {
			parts = append(parts, fmt.Sprintf("%s insurance through %s (%s)", p.Type, p.Carrier, p.Status))
		}
		b.WriteString(strings.Join(parts, ", "))
		b.WriteString(".")
	}

	if record.PreferredAgent != "" {
		fmt.Fprintf(&b, " Your agent is %s.", record.PreferredAgent)
	}

	return b.String()
}
