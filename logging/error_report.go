package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const contextKey = "context"

// ErrorReport Error Reporting用のcontext Field
func ErrorReport(pc uintptr, file string, line int, ok bool) zap.Field {
	rc := newReportContext(pc, file, line, ok)
	if rc == nil {
		return zap.Skip()
	}
	return zap.Object(contextKey, rc)
}

type reportContext struct {
	ReportLocation sourceLocation `json:"reportLocation"`
}

// MarshalLogObject implements zapcore.ObjectMarshaller interface.
func (c reportContext) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return enc.AddObject("reportLocation", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("filePath", c.ReportLocation.File)
		enc.AddString("lineNumber", c.ReportLocation.Line)
		enc.AddString("functionName", c.ReportLocation.Function)
		return nil
	}))
}

func newReportContext(pc uintptr, file string, line int, ok bool) *reportContext {
	sl := newSourceLocation(pc, file, line, ok)
	if sl == nil {
		return nil
	}
	return &reportContext{ReportLocation: *sl}
}
