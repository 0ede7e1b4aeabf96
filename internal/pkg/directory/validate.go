package directory

import (
	"fmt"
	"net/url"

	"github.com/weibaohui/openreceptionist/config"
)

// ValidateConfig 校验目录集成配置，返回全部问题
// 校验失败不阻止运行：集成会自行报告为关闭状态
func ValidateConfig(cfg *config.DirectoryConfig) []error {
	var errs []error

	if cfg.Enabled && cfg.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("directory integration enabled but webhook_url is empty"))
	}

	if cfg.WebhookURL != "" {
		u, err := url.Parse(cfg.WebhookURL)
		if err != nil {
			errs = append(errs, fmt.Errorf("webhook_url is not a valid URL: %w", err))
		} else if u.Scheme != "https" {
			errs = append(errs, fmt.Errorf("webhook_url scheme must be https, got %q", u.Scheme))
		}
	}

	if cfg.TimeoutMs < 1000 || cfg.TimeoutMs > 30000 {
		errs = append(errs, fmt.Errorf("timeout_ms must be within [1000, 30000], got %d", cfg.TimeoutMs))
	}

	return errs
}
