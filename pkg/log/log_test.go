package log

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestInit 开发模式初始化成功，zap.L() 可用
func TestInit(t *testing.T) {
	require.NoError(t, Init(Options{Level: "debug", Mode: "development"}))
	require.NotNil(t, zap.L())
	zap.L().Debug("logger smoke test")
	Sync()
}
