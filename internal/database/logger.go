package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/alex65536/league/internal/util/httputil"
	"github.com/alex65536/league/internal/util/slogx"
	"github.com/mattn/go-colorable"
	"gorm.io/gorm/logger"
)

type slogLogger struct {
	log           *slog.Logger
	slowThreshold time.Duration
}

func Logger(srcLog *slog.Logger, o Options) logger.Interface {
	if o.Debug {
		// Debug mode prints every query with gorm's own logger.
		return logger.New(
			log.New(colorable.NewColorableStdout(), "", log.LstdFlags),
			logger.Config{
				LogLevel: logger.Info,
				Colorful: true,
			},
		)
	}
	return &slogLogger{
		log:           srcLog.With(slog.String("component", "gorm")),
		slowThreshold: o.SlowThreshold,
	}
}

func (l *slogLogger) withCtx(ctx context.Context) *slog.Logger {
	if rid := httputil.ExtractReqID(ctx); rid != "" {
		return l.log.With(slog.String("rid", rid))
	}
	return l.log
}

func (l *slogLogger) LogMode(logger.LogLevel) logger.Interface {
	return l
}

func (l *slogLogger) Info(ctx context.Context, msg string, data ...any) {
	l.withCtx(ctx).Info("gorm info", slog.String("msg", fmt.Sprintf(msg, data...)))
}

func (l *slogLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.withCtx(ctx).Warn("gorm warn", slog.String("msg", fmt.Sprintf(msg, data...)))
}

func (l *slogLogger) Error(ctx context.Context, msg string, data ...any) {
	l.withCtx(ctx).Error("gorm error", slog.String("msg", fmt.Sprintf(msg, data...)))
}

func (l *slogLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound):
		sql, rows := fc()
		l.withCtx(ctx).Error("sql error",
			slog.Duration("elapsed", elapsed),
			slog.Int64("rows", rows),
			slog.String("sql", sql),
			slogx.Err(err),
		)
	case elapsed > l.slowThreshold:
		sql, rows := fc()
		l.withCtx(ctx).Warn("slow sql",
			slog.Duration("elapsed", elapsed),
			slog.Int64("rows", rows),
			slog.String("sql", sql),
		)
	}
}
