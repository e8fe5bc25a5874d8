package league

import (
	"context"
	"log/slog"

	"github.com/alex65536/league/internal/util/idgen"
)

type TeamSettings struct {
	Name string
	Logo string
}

func (s *TeamSettings) apply(t *Team) error {
	name, err := validateName("name", s.Name, maxNameLen)
	if err != nil {
		return err
	}
	logo, err := validateLogo(s.Logo)
	if err != nil {
		return err
	}
	t.Name = name
	t.Logo = logo
	return nil
}

type TeamStats struct {
	Team    Team
	Record  Record
	Matches []Match
}

func (m *Manager) CreateTeam(ctx context.Context, s TeamSettings) (Team, error) {
	team := Team{ID: idgen.ID()}
	if err := s.apply(&team); err != nil {
		return Team{}, err
	}
	if err := m.db.CreateTeam(ctx, team); err != nil {
		return Team{}, storeErr("create team", err)
	}
	m.log.Info("created team", slog.String("team_id", team.ID))
	m.notify(KindTeam, team.ID)
	return team, nil
}

func (m *Manager) EditTeam(ctx context.Context, teamID string, s TeamSettings) (Team, error) {
	var team Team
	err := m.db.Transaction(ctx, func(tx DB) error {
		var err error
		team, err = tx.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if err := s.apply(&team); err != nil {
			return err
		}
		return tx.UpdateTeam(ctx, team)
	})
	if err != nil {
		return Team{}, storeErr("edit team", err)
	}
	m.log.Info("edited team", slog.String("team_id", team.ID))
	m.notify(KindTeam, team.ID)
	return team, nil
}

// SetTeamArchived archives or restores the team. Archived teams cannot be put into new matches,
// but their history is kept.
func (m *Manager) SetTeamArchived(ctx context.Context, teamID string, archived bool) error {
	err := m.db.Transaction(ctx, func(tx DB) error {
		team, err := tx.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		team.Archived = archived
		return tx.UpdateTeam(ctx, team)
	})
	if err != nil {
		return storeErr("archive team", err)
	}
	m.log.Info("changed team archived flag",
		slog.String("team_id", teamID),
		slog.Bool("archived", archived),
	)
	m.notify(KindTeam, teamID)
	return nil
}

// DeleteTeam deletes the team which has no matches. Its players become free agents.
func (m *Manager) DeleteTeam(ctx context.Context, teamID string) error {
	err := m.db.Transaction(ctx, func(tx DB) error {
		team, err := tx.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}
		cnt, err := tx.CountTeamMatches(ctx, teamID)
		if err != nil {
			return err
		}
		if cnt != 0 {
			return stateErr("team %q has %v matches, archive it instead", team.Name, cnt)
		}
		return tx.DeleteTeam(ctx, teamID)
	})
	if err != nil {
		return storeErr("delete team", err)
	}
	m.log.Info("deleted team", slog.String("team_id", teamID))
	m.notify(KindTeam, teamID)
	return nil
}

// GetTeam returns the team with its players.
func (m *Manager) GetTeam(ctx context.Context, teamID string) (Team, error) {
	team, err := m.db.GetTeam(ctx, teamID, GetTeamOptions{WithPlayers: true})
	if err != nil {
		return Team{}, storeErr("get team", err)
	}
	return team, nil
}

func (m *Manager) ListTeams(ctx context.Context, withArchived bool) ([]Team, error) {
	teams, err := m.db.ListTeams(ctx, ListTeamsOptions{
		WithArchived: withArchived,
		WithPlayers:  true,
	})
	if err != nil {
		return nil, storeErr("list teams", err)
	}
	return teams, nil
}

// TeamRecord returns the team with its match history and the record over it.
func (m *Manager) TeamRecord(ctx context.Context, teamID string) (TeamStats, error) {
	team, err := m.GetTeam(ctx, teamID)
	if err != nil {
		return TeamStats{}, err
	}
	matches, err := m.db.ListMatches(ctx, MatchFilter{TeamID: &teamID})
	if err != nil {
		return TeamStats{}, storeErr("list team matches", err)
	}
	return TeamStats{
		Team:    team,
		Record:  Summarize(teamID, matches),
		Matches: matches,
	}, nil
}
