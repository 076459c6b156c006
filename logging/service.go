package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceContextKey = "serviceContext"

type serviceContext struct {
	Name    string `json:"service"`
	Version string `json:"version"`
}

// ServiceContext Error Reporting用のserviceContext Field
func ServiceContext(name, version string) zap.Field {
	return zap.Object(serviceContextKey, &serviceContext{
		Name:    name,
		Version: version,
	})
}

// MarshalLogObject implements zapcore.ObjectMarshaller interface.
func (sc serviceContext) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("service", sc.Name)
	if len(sc.Version) > 0 {
		enc.AddString("version", sc.Version)
	}
	return nil
}
