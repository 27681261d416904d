package logger

import (
	"strings"
	"sync"

	"github.com/nulzo/inference-gateway/internal/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// ColorConsoleEncoding is the zap encoding name of the highlighting console encoder.
const ColorConsoleEncoding = "color-console"

var (
	registerOnce sync.Once
	registerErr  error
	bufPool      = buffer.NewPool()
)

// registerEncoder makes ColorConsoleEncoding available to zap.Config.
func registerEncoder() error {
	registerOnce.Do(func() {
		registerErr = zap.RegisterEncoder(ColorConsoleEncoding, func(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
			return newHighlightEncoder(cfg), nil
		})
	})
	return registerErr
}

// highlightEncoder is the console encoder with the trailing field blob colorized.
type highlightEncoder struct {
	zapcore.Encoder
}

func newHighlightEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return &highlightEncoder{Encoder: zapcore.NewConsoleEncoder(cfg)}
}

func (e *highlightEncoder) Clone() zapcore.Encoder {
	return &highlightEncoder{Encoder: e.Encoder.Clone()}
}

func (e *highlightEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := e.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}

	// console lines end with "\t{...}" when there are fields
	line := buf.String()
	idx := strings.Index(line, "\t{")
	if idx == -1 {
		return buf, nil
	}

	out := bufPool.Get()
	out.AppendString(line[:idx+1])
	out.AppendString(cli.HighlightJSON(line[idx+1:]))
	buf.Free()
	return out, nil
}
