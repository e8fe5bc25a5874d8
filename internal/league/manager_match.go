package league

import (
	"context"
	"log/slog"
	"time"

	"github.com/alex65536/league/internal/util/idgen"
)

type MatchSettings struct {
	Date         time.Time
	HomeTeamID   string
	AwayTeamID   string
	TournamentID *string
}

func (s *MatchSettings) validate() error {
	if err := validateID("home team", s.HomeTeamID); err != nil {
		return err
	}
	if err := validateID("away team", s.AwayTeamID); err != nil {
		return err
	}
	if s.HomeTeamID == s.AwayTeamID {
		return validationErr("teams", "home and away team must be different")
	}
	if s.Date.IsZero() {
		return validationErr("date", "must be set")
	}
	return nil
}

func checkMatchTeam(ctx context.Context, tx DB, teamID string) error {
	team, err := tx.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.Archived {
		return stateErr("team %q is archived", team.Name)
	}
	return nil
}

func (m *Manager) CreateMatch(ctx context.Context, s MatchSettings) (Match, error) {
	if err := s.validate(); err != nil {
		return Match{}, err
	}
	match := Match{
		ID:           idgen.ID(),
		Date:         s.Date.UTC(),
		HomeTeamID:   s.HomeTeamID,
		AwayTeamID:   s.AwayTeamID,
		Status:       MatchUpcoming,
		TournamentID: idPtr(s.TournamentID),
	}
	err := m.db.Transaction(ctx, func(tx DB) error {
		if err := checkMatchTeam(ctx, tx, match.HomeTeamID); err != nil {
			return err
		}
		if err := checkMatchTeam(ctx, tx, match.AwayTeamID); err != nil {
			return err
		}
		if match.TournamentID != nil {
			t, err := tx.GetTournament(ctx, *match.TournamentID)
			if err != nil {
				return err
			}
			if t.Status == TournamentCancelled {
				return stateErr("tournament %q is cancelled", t.Name)
			}
		}
		return tx.CreateMatch(ctx, match)
	})
	if err != nil {
		return Match{}, storeErr("create match", err)
	}
	m.log.Info("created match", slog.String("match_id", match.ID))
	m.notify(KindMatch, match.ID)
	return match, nil
}

// EditMatch reschedules the match or changes its teams. The tournament of the match and its
// result are kept.
func (m *Manager) EditMatch(ctx context.Context, matchID string, s MatchSettings) (Match, error) {
	if err := s.validate(); err != nil {
		return Match{}, err
	}
	var match Match
	err := m.db.Transaction(ctx, func(tx DB) error {
		var err error
		match, err = tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		teamsChanged := match.HomeTeamID != s.HomeTeamID || match.AwayTeamID != s.AwayTeamID
		if match.Status == MatchPlayed {
			if teamsChanged && m.o.ForbidEditPlayedTeams {
				return stateErr("cannot change teams of a played match")
			}
			if s.Date.After(m.Now()) {
				return stateErr("cannot move a played match to the future")
			}
		}
		if match.HomeTeamID != s.HomeTeamID && match.AwayTeamID != s.HomeTeamID {
			if err := checkMatchTeam(ctx, tx, s.HomeTeamID); err != nil {
				return err
			}
		}
		if match.HomeTeamID != s.AwayTeamID && match.AwayTeamID != s.AwayTeamID {
			if err := checkMatchTeam(ctx, tx, s.AwayTeamID); err != nil {
				return err
			}
		}
		match.Date = s.Date.UTC()
		match.HomeTeamID = s.HomeTeamID
		match.AwayTeamID = s.AwayTeamID
		match.HomeTeam = nil
		match.AwayTeam = nil
		return tx.UpdateMatch(ctx, match)
	})
	if err != nil {
		return Match{}, storeErr("edit match", err)
	}
	m.log.Info("edited match", slog.String("match_id", match.ID))
	m.notify(KindMatch, match.ID)
	return match, nil
}

// RecordResult sets the final score of the match and marks it as played. The previous result,
// if any, is overwritten.
func (m *Manager) RecordResult(ctx context.Context, matchID string, homeScore, awayScore int) (Match, error) {
	if err := validateScore("home score", homeScore); err != nil {
		return Match{}, err
	}
	if err := validateScore("away score", awayScore); err != nil {
		return Match{}, err
	}
	var match Match
	err := m.db.Transaction(ctx, func(tx DB) error {
		var err error
		match, err = tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if match.Status == MatchCancelled {
			return stateErr("cannot record result of a cancelled match")
		}
		if match.Date.After(m.Now()) {
			return stateErr("cannot record result of a match in the future")
		}
		match.HomeScore = &homeScore
		match.AwayScore = &awayScore
		match.Status = MatchPlayed
		match.CancellationReason = nil
		return tx.UpdateMatch(ctx, match)
	})
	if err != nil {
		return Match{}, storeErr("record result", err)
	}
	m.log.Info("recorded match result",
		slog.String("match_id", match.ID),
		slog.Int("home", homeScore),
		slog.Int("away", awayScore),
	)
	m.notify(KindMatch, match.ID)
	return match, nil
}

// CancelMatch marks the match as cancelled. The scores are dropped, so the match never counts
// in the team records.
func (m *Manager) CancelMatch(ctx context.Context, matchID string, reason string) (Match, error) {
	reason, err := validateReason(reason)
	if err != nil {
		return Match{}, err
	}
	var match Match
	err = m.db.Transaction(ctx, func(tx DB) error {
		var err error
		match, err = tx.GetMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if match.Status == MatchPlayed && m.o.ForbidCancelPlayed {
			return stateErr("cannot cancel a played match")
		}
		match.Status = MatchCancelled
		match.CancellationReason = &reason
		match.HomeScore = nil
		match.AwayScore = nil
		return tx.UpdateMatch(ctx, match)
	})
	if err != nil {
		return Match{}, storeErr("cancel match", err)
	}
	m.log.Info("cancelled match", slog.String("match_id", match.ID))
	m.notify(KindMatch, match.ID)
	return match, nil
}

// GetMatch returns the match together with its teams, their rosters and the tournament.
func (m *Manager) GetMatch(ctx context.Context, matchID string) (Match, error) {
	match, err := m.db.GetMatch(ctx, matchID, GetMatchOptions{WithRosters: true})
	if err != nil {
		return Match{}, storeErr("get match", err)
	}
	return match, nil
}

func (m *Manager) ListMatches(ctx context.Context, f MatchFilter) ([]Match, error) {
	if f.Status != nil && !f.Status.IsValid() {
		return nil, validationErr("status", "unknown match status %q", *f.Status)
	}
	matches, err := m.db.ListMatches(ctx, f)
	if err != nil {
		return nil, storeErr("list matches", err)
	}
	return matches, nil
}

// SplitMatches groups the matches by their status, keeping the order.
func SplitMatches(matches []Match) (upcoming, played, cancelled []Match) {
	for _, match := range matches {
		switch match.Status {
		case MatchUpcoming:
			upcoming = append(upcoming, match)
		case MatchPlayed:
			played = append(played, match)
		case MatchCancelled:
			cancelled = append(cancelled, match)
		}
	}
	return
}
