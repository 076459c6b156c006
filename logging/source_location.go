package logging

import (
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const sourceLocationKey = "logging.googleapis.com/sourceLocation"

// SourceLocation Cloud Logging sourceLocation Field
func SourceLocation(pc uintptr, file string, line int, ok bool) zap.Field {
	sl := newSourceLocation(pc, file, line, ok)
	if sl == nil {
		return zap.Skip()
	}
	return zap.Object(sourceLocationKey, sl)
}

type sourceLocation struct {
	File     string `json:"file"`
	Line     string `json:"line"`
	Function string `json:"function"`
}

// MarshalLogObject implements zapcore.ObjectMarshaller interface.
func (sl sourceLocation) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("file", sl.File)
	enc.AddString("line", sl.Line)
	enc.AddString("function", sl.Function)
	return nil
}

func newSourceLocation(pc uintptr, file string, line int, ok bool) *sourceLocation {
	if !ok {
		return nil
	}

	sl := &sourceLocation{
		File: file,
		Line: strconv.Itoa(line),
	}
	if fn := runtime.FuncForPC(pc); fn != nil {
		sl.Function = fn.Name()
	}
	return sl
}
