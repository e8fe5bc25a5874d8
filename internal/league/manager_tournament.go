package league

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alex65536/league/internal/util/idgen"
)

type TournamentSettings struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
}

func (s *TournamentSettings) apply(t *Tournament) error {
	name, err := validateName("name", s.Name, maxTournamentName)
	if err != nil {
		return err
	}
	desc, err := validateDescription(s.Description)
	if err != nil {
		return err
	}
	if s.StartDate.IsZero() {
		return validationErr("start date", "must be set")
	}
	var end *time.Time
	if s.EndDate != nil && !s.EndDate.IsZero() {
		if s.EndDate.Before(s.StartDate) {
			return validationErr("end date", "must not be before the start date")
		}
		e := s.EndDate.UTC()
		end = &e
	}
	t.Name = name
	t.Description = desc
	t.StartDate = s.StartDate.UTC()
	t.EndDate = end
	return nil
}

// TournamentView is a tournament together with its effective status.
type TournamentView struct {
	Tournament
	Effective TournamentStatus
}

type TournamentDetails struct {
	TournamentView
	Upcoming  []Match
	Played    []Match
	Cancelled []Match
}

func (m *Manager) CreateTournament(ctx context.Context, s TournamentSettings) (Tournament, error) {
	t := Tournament{
		ID:     idgen.ID(),
		Status: TournamentUpcoming,
	}
	if err := s.apply(&t); err != nil {
		return Tournament{}, err
	}
	if err := m.db.CreateTournament(ctx, t); err != nil {
		return Tournament{}, storeErr("create tournament", err)
	}
	m.log.Info("created tournament", slog.String("tournament_id", t.ID))
	m.notify(KindTournament, t.ID)
	return t, nil
}

func (m *Manager) EditTournament(ctx context.Context, tournamentID string, s TournamentSettings) (Tournament, error) {
	var t Tournament
	err := m.db.Transaction(ctx, func(tx DB) error {
		var err error
		t, err = tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		if err := s.apply(&t); err != nil {
			return err
		}
		return tx.UpdateTournament(ctx, t)
	})
	if err != nil {
		return Tournament{}, storeErr("edit tournament", err)
	}
	m.log.Info("edited tournament", slog.String("tournament_id", t.ID))
	m.notify(KindTournament, t.ID)
	return t, nil
}

// UpdateTournamentStatus persists the status chosen by the administrator. Cancellation must go
// through CancelTournament, as it affects the matches.
func (m *Manager) UpdateTournamentStatus(ctx context.Context, tournamentID string, status TournamentStatus) (Tournament, error) {
	if !status.IsValid() {
		return Tournament{}, validationErr("status", "unknown tournament status %q", status)
	}
	if status == TournamentCancelled {
		return Tournament{}, validationErr("status", "tournament must be cancelled with a reason")
	}
	var t Tournament
	err := m.db.Transaction(ctx, func(tx DB) error {
		var err error
		t, err = tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		if t.Status == TournamentCancelled {
			return stateErr("tournament %q is cancelled", t.Name)
		}
		t.Status = status
		return tx.UpdateTournament(ctx, t)
	})
	if err != nil {
		return Tournament{}, storeErr("update tournament status", err)
	}
	m.log.Info("updated tournament status",
		slog.String("tournament_id", t.ID),
		slog.String("status", string(status)),
	)
	m.notify(KindTournament, t.ID)
	return t, nil
}

// CancelTournament cancels the tournament together with all its matches in one transaction.
// Matches which were already cancelled keep their original reason. Returns the number of matches
// cancelled by this call.
func (m *Manager) CancelTournament(ctx context.Context, tournamentID string, reason string) (int64, error) {
	reason, err := validateReason(reason)
	if err != nil {
		return 0, err
	}
	var cancelled int64
	err = m.db.Transaction(ctx, func(tx DB) error {
		t, err := tx.GetTournament(ctx, tournamentID)
		if err != nil {
			return err
		}
		t.Status = TournamentCancelled
		t.CancellationReason = &reason
		if err := tx.UpdateTournament(ctx, t); err != nil {
			return fmt.Errorf("update tournament: %w", err)
		}
		cancelled, err = tx.CancelTournamentMatches(ctx, tournamentID, m.o.CascadeReasonPrefix+reason)
		if err != nil {
			return fmt.Errorf("cancel matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, storeErr("cancel tournament", err)
	}
	m.log.Info("cancelled tournament",
		slog.String("tournament_id", tournamentID),
		slog.Int64("matches", cancelled),
	)
	m.notify(KindTournament, tournamentID)
	return cancelled, nil
}

// SyncTournamentStatuses persists the effective status of every tournament whose persisted
// status is outdated. Returns the number of updated tournaments.
func (m *Manager) SyncTournamentStatuses(ctx context.Context) (int, error) {
	now := m.Now()
	var updated []string
	err := m.db.Transaction(ctx, func(tx DB) error {
		ts, err := tx.ListTournaments(ctx)
		if err != nil {
			return err
		}
		for _, t := range ts {
			eff := EffectiveStatus(&t, now)
			if eff == t.Status {
				continue
			}
			t.Status = eff
			if err := tx.UpdateTournament(ctx, t); err != nil {
				return fmt.Errorf("update tournament %q: %w", t.ID, err)
			}
			updated = append(updated, t.ID)
		}
		return nil
	})
	if err != nil {
		return 0, storeErr("sync tournament statuses", err)
	}
	for _, id := range updated {
		m.notify(KindTournament, id)
	}
	m.log.Info("synced tournament statuses", slog.Int("updated", len(updated)))
	return len(updated), nil
}

func (m *Manager) GetTournament(ctx context.Context, tournamentID string) (TournamentDetails, error) {
	t, err := m.db.GetTournament(ctx, tournamentID)
	if err != nil {
		return TournamentDetails{}, storeErr("get tournament", err)
	}
	matches, err := m.db.ListMatches(ctx, MatchFilter{TournamentID: &t.ID})
	if err != nil {
		return TournamentDetails{}, storeErr("list tournament matches", err)
	}
	d := TournamentDetails{
		TournamentView: TournamentView{
			Tournament: t,
			Effective:  m.TournamentStatus(&t),
		},
	}
	d.Upcoming, d.Played, d.Cancelled = SplitMatches(matches)
	return d, nil
}

type TournamentFilter struct {
	// Effective selects only the tournaments with the given effective status.
	Effective *TournamentStatus
}

// ListTournaments returns the tournaments ordered by start date, most recent first.
func (m *Manager) ListTournaments(ctx context.Context, f TournamentFilter) ([]TournamentView, error) {
	ts, err := m.db.ListTournaments(ctx)
	if err != nil {
		return nil, storeErr("list tournaments", err)
	}
	now := m.Now()
	res := make([]TournamentView, 0, len(ts))
	for _, t := range ts {
		v := TournamentView{Tournament: t, Effective: EffectiveStatus(&t, now)}
		if f.Effective != nil && v.Effective != *f.Effective {
			continue
		}
		res = append(res, v)
	}
	return res, nil
}
