package config

import (
	"os"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	LLM       LLMConfig       `yaml:"llm"`
	Directory DirectoryConfig `yaml:"directory"`
	Office    OfficeConfig    `yaml:"office"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

type DatabaseConfig struct {
	Type string `yaml:"type"` // sqlite, mysql
	DSN  string `yaml:"dsn"`
}

type LLMConfig struct {
	APIURL    string `yaml:"api_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// DirectoryConfig 客户目录（CRM webhook）集成配置
// 所有项都有默认值：未配置时集成视为关闭，通话流程不受影响
type DirectoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	WebhookURL  string `yaml:"webhook_url"`
	APIKey      string `yaml:"api_key"`
	TimeoutMs   int    `yaml:"timeout_ms"` // 合法区间 [1000, 30000]
	UseMockData bool   `yaml:"use_mock_data"`
}

type OfficeConfig struct {
	TimeZone string `yaml:"time_zone"`
}

var (
	cfg  *Config
	once sync.Once
)

func GetConfig() *Config {
	once.Do(func() {
		cfg = loadConfig()
	})
	return cfg
}

func loadConfig() *Config {
	config := &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			DSN:  "./data/app.db",
		},
		LLM: LLMConfig{
			APIURL:    "https://api.openai.com/v1",
			Model:     "gpt-4o",
			MaxTokens: 4096,
		},
		Directory: DirectoryConfig{
			Enabled:     false,
			WebhookURL:  "",
			TimeoutMs:   5000,
			UseMockData: false,
		},
		Office: OfficeConfig{
			TimeZone: "America/Los_Angeles",
		},
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		yaml.Unmarshal(data, config)
	}

	// 环境变量优先级高于配置文件
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.LLM.APIURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL_NAME"); model != "" {
		config.LLM.Model = model
	}

	// 数据库环境变量
	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}
	if dbDSN := os.Getenv("DB_DSN"); dbDSN != "" {
		config.Database.DSN = dbDSN
	}

	// 客户目录 webhook 环境变量
	if enabled := os.Getenv("CRM_WEBHOOK_ENABLED"); enabled != "" {
		config.Directory.Enabled = enabled == "true" || enabled == "1"
	}
	if url := os.Getenv("CRM_WEBHOOK_URL"); url != "" {
		config.Directory.WebhookURL = url
	}
	if apiKey := os.Getenv("CRM_WEBHOOK_API_KEY"); apiKey != "" {
		config.Directory.APIKey = apiKey
	}
	if timeoutMs := os.Getenv("CRM_WEBHOOK_TIMEOUT_MS"); timeoutMs != "" {
		if v, err := strconv.Atoi(timeoutMs); err == nil {
			config.Directory.TimeoutMs = v
		}
	}
	if useMock := os.Getenv("CRM_USE_MOCK_DATA"); useMock != "" {
		config.Directory.UseMockData = useMock == "true" || useMock == "1"
	}

	if tz := os.Getenv("OFFICE_TIME_ZONE"); tz != "" {
		config.Office.TimeZone = tz
	}

	return config
}
