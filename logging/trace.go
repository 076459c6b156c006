package logging

import "go.uber.org/zap"

const traceKey = "logging.googleapis.com/trace"

// Trace Cloud Traceのトレースid Field
func Trace(id string) zap.Field {
	return zap.String(traceKey, id)
}
