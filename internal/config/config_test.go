package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults 没有配置文件时使用默认值
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.NotEmpty(t, cfg.MySQL.DSN)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, 300, cfg.Redis.ProductTTLSeconds)
	assert.NotEmpty(t, cfg.RabbitMQ.URL)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.Equal(t, 600, cfg.Auth.TokenCacheTTLSeconds)
	assert.Len(t, cfg.Auth.Nodes, 3)
}

// TestLoad_EnvOverride 环境变量覆盖配置项
func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ECOMM_SERVER_PORT", "9090")
	t.Setenv("ECOMM_JWT_SECRET", "from-env")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

// TestServerConfig_AddrDefaultHost Host 为空时回落到 0.0.0.0
func TestServerConfig_AddrDefaultHost(t *testing.T) {
	s := ServerConfig{Port: 8081}
	assert.Equal(t, "0.0.0.0:8081", s.Addr())
}
