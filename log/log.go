// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package level loggers over the go-ethereum root logger.
package log

import (
	"context"
	"log/slog"
	"slices"

	ethlog "github.com/ethereum/go-ethereum/log"
)

type Logger = ethlog.Logger

// WithContext returns a logger carrying ctx that writes through the root logger
// current at each call. Package level loggers created at init time follow a
// root installed later by the command.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) merge(ctx []any) []any {
	return slices.Concat(l.ctx, ctx)
}

func (l *lazyLogger) With(ctx ...any) Logger { return &lazyLogger{ctx: l.merge(ctx)} }
func (l *lazyLogger) New(ctx ...any) Logger  { return l.With(ctx...) }

func (l *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	ethlog.Root().Log(level, msg, l.merge(ctx)...)
}

func (l *lazyLogger) Write(level slog.Level, msg string, attrs ...any) {
	ethlog.Root().Write(level, msg, l.merge(attrs)...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, l.merge(ctx)...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, l.merge(ctx)...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, l.merge(ctx)...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, l.merge(ctx)...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { ethlog.Root().Error(msg, l.merge(ctx)...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { ethlog.Root().Crit(msg, l.merge(ctx)...) }

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}

func (l *lazyLogger) Handler() slog.Handler {
	return ethlog.Root().With(l.ctx...).Handler()
}
