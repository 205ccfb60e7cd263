package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config содержит настройки для логгера.
type Config struct {
	Level      string // Уровень логирования (debug, info, warn, error); пустое значение — info
	Encoding   string // Формат вывода (json или console); пустое значение — json
	OutputPath string // Путь к файлу лога (если пусто, используется stdout)
}

func (c Config) level() (zap.AtomicLevel, error) {
	if c.Level == "" {
		return zap.NewAtomicLevelAt(zap.InfoLevel), nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(c.Level))); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("неизвестный уровень логирования %q: %w", c.Level, err)
	}
	return zap.NewAtomicLevelAt(lvl), nil
}

func (c Config) encoding() string {
	if strings.ToLower(c.Encoding) == "console" {
		return "console"
	}
	return "json"
}

func (c Config) outputPath() string {
	if c.OutputPath == "" {
		return "stdout"
	}
	return c.OutputPath
}

// New создает zap.Logger: ISO8601-время, уровень капсом, без caller и
// stacktrace. Некорректный уровень — ошибка конфигурации, а не тихий откат
// на info.
func New(cfg Config) (*zap.Logger, error) {
	level, err := cfg.level()
	if err != nil {
		return nil, err
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := zap.Config{
		Level:             level,
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          cfg.encoding(),
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{cfg.outputPath()},
		ErrorOutputPaths:  []string{"stderr"},
	}.Build()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки логгера: %w", err)
	}

	return logger, nil
}
