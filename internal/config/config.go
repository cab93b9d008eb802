package config

import (
	"github.com/spf13/viper"
)

// Config 全局配置
// 进程启动时读取一次，之后不再变化
type Config struct {
	// HTTP 服务
	Port string

	// 数据库连接串
	// postgres DSN，或 "sqlite://path" 用于本地开发
	DatabaseURL string

	// Canal 平台
	CanalBaseURL     string // Canal API 基础地址
	CanalAppID       string // 租户标识：App ID
	CanalAccessToken string // 租户标识：Access Token

	// 重新同步任务的 cron 表达式（带秒字段）
	ResyncSpec string
}

// Load 加载配置
// 优先读环境变量，缺省值用于本地开发
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", "sqlite://canal_sync.db")
	v.SetDefault("CANAL_API_BASE_URL", "http://localhost:8080")
	v.SetDefault("CANAL_APP_ID", "")
	v.SetDefault("CANAL_ACCESS_TOKEN", "")
	v.SetDefault("RESYNC_CRON", "0 0/10 * * * *")

	return &Config{
		Port:             v.GetString("PORT"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		CanalBaseURL:     v.GetString("CANAL_API_BASE_URL"),
		CanalAppID:       v.GetString("CANAL_APP_ID"),
		CanalAccessToken: v.GetString("CANAL_ACCESS_TOKEN"),
		ResyncSpec:       v.GetString("RESYNC_CRON"),
	}, nil
}
