package log

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var once sync.Once

// Options 日志初始化选项
type Options struct {
	// Level 日志级别：debug / info / warn / error
	Level string
	// Mode 运行模式：development 控制台彩色输出，production JSON 输出
	Mode string
	// File 日志文件路径，为空时只输出到 stdout（仅 production 生效）
	File string
	// MaxSizeMB 单个日志文件大小上限，超过后由 lumberjack 轮转
	MaxSizeMB int
	// MaxBackups 保留的历史日志文件数
	MaxBackups int
}

// Init 初始化全局 zap 日志，之后统一通过 zap.L() 使用
func Init(opts Options) error {
	var initErr error
	once.Do(func() {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}

		var logger *zap.Logger
		if opts.Mode == "production" {
			logger = newProductionLogger(level, opts)
		} else {
			logger, initErr = newDevelopmentLogger(level)
			if initErr != nil {
				return
			}
		}
		zap.ReplaceGlobals(logger)
	})
	return initErr
}

// newDevelopmentLogger 开发环境：控制台彩色输出，方便本地调试
func newDevelopmentLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	return cfg.Build()
}

// newProductionLogger 生产环境：JSON 输出，配置了文件时走 lumberjack 轮转
func newProductionLogger(level zapcore.Level, opts Options) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	sink := zapcore.AddSync(os.Stdout)
	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 100
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		}
		sink = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout), zapcore.AddSync(rotator))
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Sync 退出前刷新日志缓冲
func Sync() {
	_ = zap.L().Sync()
}
