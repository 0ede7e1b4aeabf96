package directory

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/weibaohui/openreceptionist/config"
	"github.com/weibaohui/openreceptionist/internal/pkg/phone"
)

// mockCustomers 开发用固定数据表，键为去掉国家码的数字串
var mockCustomers = map[string]*CustomerRecord{
	"7145551234": {
		Found:      true,
		CustomerID: "CUST-10021",
		FirstName:  "Sarah",
		LastName:   "Mitchell",
		Phone:      "+17145551234",
		Email:      "sarah.mitchell@example.com",
		Address:    "1420 Harbor Blvd, Anaheim, CA 92805",
		Policies: []Policy{
			{
				Number:           "AUTO-884213",
				Type:             "auto",
				Carrier:          "Pacific Mutual",
				EffectiveDate:    "2025-01-15",
				ExpirationDate:   "2026-01-15",
				Status:           "active",
				Premium:          1480,
				PaymentFrequency: "semi-annual",
			},
			{
				Number:           "HOME-512907",
				Type:             "home",
				Carrier:          "Golden State Insurance",
				EffectiveDate:    "2024-11-01",
				ExpirationDate:   "2025-11-01",
				Status:           "active",
				Premium:          2150,
				PaymentFrequency: "annual",
			},
		},
		PreferredAgent: "Bryce",
		IsPriority:     true,
	},
	"7145559876": {
		Found:      true,
		CustomerID: "CUST-10458",
		FirstName:  "Daniel",
		LastName:   "Ortiz",
		Phone:      "+17145559876",
		Address:    "88 Civic Center Dr, Santa Ana, CA 92701",
		Policies: []Policy{
			{
				Number:         "AUTO-902166",
				Type:           "auto",
				Carrier:        "Pacific Mutual",
				EffectiveDate:  "2025-03-01",
				ExpirationDate: "2026-03-01",
				Status:         "active",
			},
		},
		PreferredAgent: "Glen",
	},
	"9495552468": {
		Found:      true,
		CustomerID: "CUST-10733",
		FirstName:  "Priya",
		LastName:   "Raman",
		Phone:      "+19495552468",
		Email:      "p.raman@example.com",
		Policies: []Policy{
			{
				Number:         "RENT-330415",
				Type:           "renters",
				Carrier:        "Westline Coverage",
				EffectiveDate:  "2025-05-20",
				ExpirationDate: "2026-05-20",
				Status:         "active",
			},
		},
	},
}

// MockClient 用内存数据表模拟目录查询，供开发和测试使用
type MockClient struct {
	cfg      *config.DirectoryConfig
	fixtures map[string]*CustomerRecord
}

var _ Client = (*MockClient)(nil)

func NewMockClient(cfg *config.DirectoryConfig) *MockClient {
	return &MockClient{cfg: cfg, fixtures: mockCustomers}
}

func (c *MockClient) IsEnabled() bool {
	return isEnabled(c.cfg)
}

// Lookup 实现 Client 接口
// 号码归一化为国内数字串后查表，未命中返回 found=false
func (c *MockClient) Lookup(ctx context.Context, req *LookupRequest) (*LookupResponse, error) {
	correlationID := newCorrelationID()

	if !c.IsEnabled() {
		klog.V(6).Infof("[Directory] mock 集成未启用，返回未命中: correlationID=%s", correlationID)
		return disabledResponse(correlationID), nil
	}

	key := phone.NationalDigits(req.PhoneNumber)
	record, ok := c.fixtures[key]
	if !ok {
		klog.V(6).Infof("[Directory] mock 查询未命中: correlationID=%s", correlationID)
		return notFoundResponse(correlationID), nil
	}

	klog.V(6).Infof("[Directory] mock 查询命中: correlationID=%s, customerID=%s, policies=%d",
		correlationID, record.CustomerID, len(record.Policies))

	copied := *record
	return &LookupResponse{
		Success:           true,
		Data:              &copied,
		ResponseTimestamp: time.Now(),
		CorrelationID:     correlationID,
	}, nil
}
