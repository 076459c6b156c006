package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CreateNewLogger Cloud Logging形式のJSONロガーを生成します
func CreateNewLogger(serviceName, serviceVersion string) (*zap.Logger, error) {
	return CreateNewLoggerWithLevel(serviceName, serviceVersion, zapcore.InfoLevel)
}

// CreateNewLoggerWithLevel 出力レベルを指定してロガーを生成します
func CreateNewLoggerWithLevel(serviceName, serviceVersion string, level zapcore.Level) (*zap.Logger, error) {
	return productionConfig(level).Build(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return &core{
			Core:   c,
			config: driverConfig{ServiceName: serviceName, ServiceVersion: serviceVersion},
		}
	}))
}

// CreateDevelopmentLogger 開発用のコンソールロガーを生成します
func CreateDevelopmentLogger() (*zap.Logger, error) {
	return developmentConfig().Build()
}
