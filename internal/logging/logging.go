// Package logging builds the zap logger shared by the CLI, the preview
// server and the capture tool.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Levels accepted in configuration and on the command line.
const (
	LevelNone   = "none"
	LevelNormal = "normal"
	LevelDebug  = "debug"
)

// ErrInvalidLevel is returned for an unknown level name.
var ErrInvalidLevel = errors.New("invalid log level")

// ValidateLevel checks that level is one of none, normal, debug.
func ValidateLevel(level string) error {
	switch strings.ToLower(level) {
	case "", LevelNone, LevelNormal, LevelDebug:
		return nil
	}
	return fmt.Errorf("%w: %q (must be none, normal, or debug)", ErrInvalidLevel, level)
}

// New returns a console logger. Entries below error go to out, errors go to
// errOut. Level "none" returns a no-op logger.
func New(level string, out, errOut io.Writer) (*zap.Logger, error) {
	if err := ValidateLevel(level); err != nil {
		return nil, err
	}

	var minLevel zapcore.Level
	switch strings.ToLower(level) {
	case LevelNone:
		return zap.NewNop(), nil
	case LevelDebug:
		minLevel = zapcore.DebugLevel
	default:
		minLevel = zapcore.InfoLevel
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return minLevel <= lvl && lvl < zapcore.ErrorLevel
	})
	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.AddSync(out), lowPriority),
		zapcore.NewCore(newEncoder(ec), zapcore.AddSync(errOut), highPriority),
	)
	return zap.New(core).Named("report2pdf"), nil
}

// consoleEnc drops the verbose form of error fields on the console.
type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
