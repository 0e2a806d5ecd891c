// Package logging wires go.uber.org/zap into a leveled logger that checks,
// at construction, whether a sink has been established for a log stream
// (key "logsink:<logkey>:operate" in the external store) and pushes
// formatted entries onto "logger:<logkey>" when it has; otherwise it falls
// back to stderr. This mirrors the original system's Logger class, which
// chose between a Redis-backed log function and a stderr one at
// construction time rather than per call.
package logging

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Emeline-1/pathinfer/internal/store"
)

// New builds a *zap.SugaredLogger for id (e.g. a worker's procqueue name),
// checking s for an established sink under logkey. If none is found, the
// logger writes to stderr only and a one-line notice says so, matching the
// original Logger's fallback message.
func New(ctx context.Context, s store.Store, logkey, id string) (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.EpochSeconds

	stderrCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.DebugLevel,
	)

	hasSink, err := s.Exists(ctx, fmt.Sprintf("logsink:%s:operate", logkey))
	if err != nil {
		return nil, fmt.Errorf("logging: checking sink: %w", err)
	}

	core := stderrCore
	if hasSink {
		core = zapcore.NewTee(stderrCore, newRedisCore(s, logkey, encoderCfg))
	}

	logger := zap.New(core).Named(id).Sugar()
	if !hasSink {
		logger.Warnf("no logsink established for %q, falling back to stderr", logkey)
	}
	return logger, nil
}

// redisCore pushes every logged entry onto the logger:<logkey> list via
// LPUSH, the way the original Logger::redis_log did.
type redisCore struct {
	zapcore.LevelEnabler
	enc zapcore.Encoder
	s   store.Store
	key string
}

func newRedisCore(s store.Store, logkey string, cfg zapcore.EncoderConfig) zapcore.Core {
	return &redisCore{
		LevelEnabler: zap.DebugLevel,
		enc:          zapcore.NewJSONEncoder(cfg),
		s:            s,
		key:          fmt.Sprintf("logger:%s", logkey),
	}
}

func (c *redisCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.enc = c.enc.Clone()
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return &clone
}

func (c *redisCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *redisCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	defer buf.Free()
	return c.s.Push(context.Background(), c.key, buf.String())
}

func (c *redisCore) Sync() error { return nil }
