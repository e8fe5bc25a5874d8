package league

import (
	"log/slog"
	"time"

	"github.com/itbasis/go-clock"
)

type Options struct {
	// ForbidCancelPlayed disallows cancelling the matches which already have a result.
	ForbidCancelPlayed bool `toml:"forbid-cancel-played"`
	// ForbidEditPlayedTeams disallows changing the teams of the matches which already have a
	// result. Otherwise, the result is kept as is.
	ForbidEditPlayedTeams bool `toml:"forbid-edit-played-teams"`
	// CascadeReasonPrefix is prepended to the tournament cancellation reason when its matches
	// are cancelled.
	CascadeReasonPrefix string `toml:"cascade-reason-prefix"`
}

func (o *Options) FillDefaults() {
	if o.CascadeReasonPrefix == "" {
		o.CascadeReasonPrefix = "Tournament cancelled: "
	}
}

type Change struct {
	Kind EntityKind
	ID   string
}

type ChangeListener interface {
	OnChange(c Change)
}

type Config struct {
	DB       DB
	Clock    clock.Clock
	Listener ChangeListener
}

// Manager is the only component which changes the state of the league entities.
type Manager struct {
	db       DB
	clock    clock.Clock
	listener ChangeListener
	log      *slog.Logger
	o        *Options
}

func NewManager(log *slog.Logger, cfg Config, o Options) *Manager {
	o.FillDefaults()
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Manager{
		db:       cfg.DB,
		clock:    cfg.Clock,
		listener: cfg.Listener,
		log:      log,
		o:        &o,
	}
}

func (m *Manager) Now() time.Time {
	return m.clock.Now().UTC()
}

// TournamentStatus returns the effective status of the tournament at the current moment.
func (m *Manager) TournamentStatus(t *Tournament) TournamentStatus {
	return EffectiveStatus(t, m.Now())
}

func (m *Manager) notify(kind EntityKind, id string) {
	if m.listener == nil {
		return
	}
	m.listener.OnChange(Change{Kind: kind, ID: id})
}

func idPtr(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
