package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a JSON production logger when env is "production" and a
// console development logger otherwise.
func New(env string) (*zap.Logger, error) {
	if strings.EqualFold(env, "production") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ForCLI keeps interactive commands quiet unless debug is set.
func ForCLI(env string, debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	l, err := New(env)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
