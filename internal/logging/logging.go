// Package logging builds the process logger.
package logging

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	xlogrus "github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/sirupsen/logrus"
)

// New returns a logrus-backed logger filtered at level.
func New(level logger.Level) logger.Logger {
	ll := xlogrus.DefaultLogrusLogger()
	if f, ok := ll.Formatter.(*logrus.TextFormatter); ok {
		f.FullTimestamp = true
	}
	return xlogrus.New(ll).WithLevel(level)
}

// ParseLevel parses names such as "debug" or "warning".
func ParseLevel(s string) (logger.Level, error) {
	var level logger.Level
	if err := level.Set(s); err != nil {
		return logger.LevelUndefined, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return level, nil
}

// CtxWithLevel puts a new logger at level into ctx and makes it the
// package default.
func CtxWithLevel(ctx context.Context, level logger.Level) context.Context {
	l := New(level)
	logger.Default = func() logger.Logger {
		return l
	}
	return logger.CtxWithLogger(ctx, l)
}
