package team

import "strings"

// Role 团队成员角色
type Role string

const (
	RoleServiceQuotes Role = "service_quotes"
	RoleAgent         Role = "agent"
	RolePresident     Role = "president"
)

// Member 团队成员，静态配置，运行期不变
type Member struct {
	Name            string `json:"name"`
	Role            Role   `json:"role"`
	CanHandleQuotes bool   `json:"can_handle_quotes"`
	CanHandleClaims bool   `json:"can_handle_claims"`
	IsAgent         bool   `json:"is_agent"`
	IsLastResort    bool   `json:"is_last_resort,omitempty"`
}

// Members 固定成员表
// 约束：有且仅有一名成员 IsLastResort
var Members = []Member{
	{Name: "Melissa", Role: RoleServiceQuotes, CanHandleQuotes: true, CanHandleClaims: true},
	{Name: "Riley", Role: RoleServiceQuotes, CanHandleQuotes: true, CanHandleClaims: true},
	{Name: "Cherry", Role: RoleServiceQuotes, CanHandleQuotes: true, CanHandleClaims: true},
	{Name: "Bryce", Role: RoleAgent, CanHandleQuotes: true, IsAgent: true},
	{Name: "Glen", Role: RoleAgent, CanHandleQuotes: true, IsAgent: true},
	{Name: "Gordon", Role: RolePresident, IsLastResort: true},
}

// Find 按名字查找成员（忽略大小写）
func Find(name string) (Member, bool) {
	name = strings.TrimSpace(name)
	for _, m := range Members {
		if strings.EqualFold(m.Name, name) {
			return m, true
		}
	}
	return Member{}, false
}

// Names 返回全部成员名，用于报错提示和参数枚举
func Names() []string {
	names := make([]string, 0, len(Members))
	for _, m := range Members {
		names = append(names, m.Name)
	}
	return names
}

// GeneralRouting 一般咨询的转接顺序
func GeneralRouting() []string {
	return []string{"Melissa", "Riley", "Cherry"}
}

// AgentRouting 需要持牌经纪人处理的事项顺序
func AgentRouting() []string {
	return []string{"Bryce", "Glen"}
}

// LastResort 兜底成员：仅在点名或其余成员全部不可用时选用
func LastResort() Member {
	for _, m := range Members {
		if m.IsLastResort {
			return m
		}
	}
	// Members 表保证存在，不会走到这里
	return Member{}
}

// RoutingOrder 完整转接顺序：先常规名单，最后才是兜底成员
func RoutingOrder(agentMatter bool) []string {
	var order []string
	if agentMatter {
		order = append(order, AgentRouting()...)
		order = append(order, GeneralRouting()...)
	} else {
		order = append(order, GeneralRouting()...)
		order = append(order, AgentRouting()...)
	}
	return append(order, LastResort().Name)
}
