package logging

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestErrorReport(t *testing.T) {
	t.Parallel()

	assert.Nil(t, newReportContext(0, "", 0, false))

	c := ErrorReport(runtime.Caller(0)).Interface.(*reportContext)

	assert.Contains(t, c.ReportLocation.File, "logging/error_report_test.go")
	assert.Equal(t, "16", c.ReportLocation.Line)
	assert.Equal(t, "github.com/traPtitech/identfavicon/logging.TestErrorReport", c.ReportLocation.Function)

	assert.Equal(t, zapcore.SkipType, ErrorReport(0, "", 0, false).Type)
}

func TestReportContext_MarshalLogObject(t *testing.T) {
	t.Parallel()

	c := &reportContext{
		ReportLocation: sourceLocation{
			File:     "test1",
			Line:     "test2",
			Function: "test3",
		},
	}

	enc := zapcore.NewMapObjectEncoder()

	if assert.NoError(t, c.MarshalLogObject(enc)) {
		loc := enc.Fields["reportLocation"].(map[string]interface{})
		assert.EqualValues(t, c.ReportLocation.File, loc["filePath"])
		assert.EqualValues(t, c.ReportLocation.Line, loc["lineNumber"])
		assert.EqualValues(t, c.ReportLocation.Function, loc["functionName"])
	}
}
