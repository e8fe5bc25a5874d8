// Package database keeps the league and the users in SQLite through gorm.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/slogx"
	"github.com/alex65536/league/internal/webui"
	"github.com/gorilla/sessions"
	"github.com/wader/gormstore/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Options struct {
	Path          string        `toml:"path"`
	Debug         bool          `toml:"debug"`
	SlowThreshold time.Duration `toml:"slow-threshold"`
	BusyTimeout   time.Duration `toml:"busy-timeout"`
	UseWAL        bool          `toml:"use-wal"`
	MaxOpenConns  int           `toml:"max-open-conns"`
}

func (o *Options) FillDefaults() {
	if o.SlowThreshold == 0 {
		o.SlowThreshold = 200 * time.Millisecond
	}
	if o.BusyTimeout == 0 {
		o.BusyTimeout = 30 * time.Second
	}
	if o.MaxOpenConns == 0 {
		o.MaxOpenConns = 4
	}
}

// dsn builds the sqlite connection string. Foreign keys are always on, as the league relies on
// ON DELETE SET NULL for players of removed teams.
func (o Options) dsn() string {
	q := url.Values{}
	q.Set("_foreign_keys", "1")
	q.Set("_busy_timeout", strconv.FormatInt(o.BusyTimeout.Milliseconds(), 10))
	if o.UseWAL {
		q.Set("_journal_mode", "WAL")
		q.Set("_synchronous", "NORMAL")
	}
	return o.Path + "?" + q.Encode()
}

type DB struct {
	db  *gorm.DB
	log *slog.Logger
}

var (
	_ league.DB                 = (*DB)(nil)
	_ userauth.DB               = (*DB)(nil)
	_ webui.SessionStoreFactory = (*DB)(nil)
)

func New(log *slog.Logger, o Options) (*DB, error) {
	o.FillDefaults()
	log = log.With(slog.String("path", o.Path))

	log.Info("opening db")
	gdb, err := gorm.Open(sqlite.Open(o.dsn()), &gorm.Config{
		Logger:         Logger(log, o),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	d := &DB{db: gdb, log: log}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// Rollback journal mode allows no reader next to a writer.
	if o.UseWAL {
		sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := gdb.AutoMigrate(models...); err != nil {
		d.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	log.Info("db ready", slog.Int("models", len(models)))
	return d, nil
}

func (d *DB) Close() {
	sqlDB, err := d.db.DB()
	if err != nil {
		d.log.Error("could not get sql db", slogx.Err(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		d.log.Error("could not close db", slogx.Err(err))
	}
}

// Transaction runs f inside a single transaction. Any error returned by f rolls back all of
// its writes.
func (d *DB) Transaction(ctx context.Context, f func(tx league.DB) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&DB{db: tx, log: d.log})
	})
}

// NewSessionStore keeps the web sessions next to the league data. Expired sessions are
// removed until ctx is done.
func (d *DB) NewSessionStore(ctx context.Context, opts webui.SessionOptions) sessions.Store {
	s := gormstore.NewOptions(d.db, gormstore.Options{TableName: "web_sessions"}, opts.Key)
	go s.PeriodicCleanup(opts.CleanupInterval, ctx.Done())
	return s
}
