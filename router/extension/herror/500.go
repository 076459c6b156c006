package herror

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/traPtitech/identfavicon/logging"
)

// InternalError 内部エラー
type InternalError struct {
	// Err エラー
	Err error
	// Stack スタックトレース
	Stack []byte
	// Fields zapログ用フィールド
	Fields []zap.Field
	// Panic panicかどうか
	Panic bool
}

func (i *InternalError) Error() string {
	if i.Panic {
		return fmt.Sprintf("[Panic] %s\n%s", i.Err.Error(), i.Stack)
	}
	return fmt.Sprintf("%s\n%s", i.Err.Error(), i.Stack)
}

func (i *InternalError) Unwrap() error {
	return i.Err
}

func InternalServerError(err error) error {
	return &InternalError{
		Err:    err,
		Stack:  debug.Stack(),
		Fields: []zap.Field{logging.ErrorReport(runtime.Caller(1)), zap.Error(err)},
	}
}

func Panic(err error) error {
	return &InternalError{
		Err:    err,
		Stack:  debug.Stack(),
		Fields: []zap.Field{logging.ErrorReport(runtime.Caller(3)), zap.Error(err)},
		Panic:  true,
	}
}
