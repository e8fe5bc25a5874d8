package database

import (
	"context"
	"fmt"

	"github.com/alex65536/league/internal/league"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func applyOpts[T any](os []T) T {
	if len(os) > 1 {
		panic("too many options")
	}
	if len(os) == 1 {
		return os[0]
	}
	var o T
	return o
}

func (d *DB) CreateTeam(ctx context.Context, team league.Team) error {
	err := d.db.WithContext(ctx).Omit(clause.Associations).Create(&team).Error
	if err != nil {
		return fmt.Errorf("create team: %w", err)
	}
	return nil
}

func (d *DB) GetTeam(ctx context.Context, teamID string, os ...league.GetTeamOptions) (league.Team, error) {
	o := applyOpts(os)
	tx := d.db.WithContext(ctx)
	if o.WithPlayers {
		tx = tx.Preload("Players", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("name, id")
		})
	}
	var teams []league.Team
	err := tx.Where("id = ?", teamID).Limit(1).Find(&teams).Error
	if err != nil {
		return league.Team{}, fmt.Errorf("get team: %w", err)
	}
	if len(teams) == 0 {
		return league.Team{}, &league.NotFoundError{Kind: league.KindTeam, ID: teamID}
	}
	return teams[0], nil
}

func (d *DB) ListTeams(ctx context.Context, o league.ListTeamsOptions) ([]league.Team, error) {
	tx := d.db.WithContext(ctx)
	if !o.WithArchived {
		tx = tx.Where("archived = ?", false)
	}
	if o.WithPlayers {
		tx = tx.Preload("Players", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("name, id")
		})
	}
	var teams []league.Team
	if err := tx.Order("name, id").Find(&teams).Error; err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (d *DB) UpdateTeam(ctx context.Context, team league.Team) error {
	err := d.db.WithContext(ctx).Model(&league.Team{ID: team.ID}).
		Select("name", "logo", "archived").
		Updates(map[string]any{
			"name":     team.Name,
			"logo":     team.Logo,
			"archived": team.Archived,
		}).Error
	if err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}

func (d *DB) DeleteTeam(ctx context.Context, teamID string) error {
	res := d.db.WithContext(ctx).Delete(&league.Team{ID: teamID})
	if res.Error != nil {
		return fmt.Errorf("delete team: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &league.NotFoundError{Kind: league.KindTeam, ID: teamID}
	}
	return nil
}

func (d *DB) CountTeams(ctx context.Context) (int64, error) {
	var cnt int64
	if err := d.db.WithContext(ctx).Model(&league.Team{}).Count(&cnt).Error; err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return cnt, nil
}

func (d *DB) CountTeamMatches(ctx context.Context, teamID string) (int64, error) {
	var cnt int64
	err := d.db.WithContext(ctx).Model(&league.Match{}).
		Where("home_team_id = ? OR away_team_id = ?", teamID, teamID).
		Count(&cnt).Error
	if err != nil {
		return 0, fmt.Errorf("count team matches: %w", err)
	}
	return cnt, nil
}

func (d *DB) CreatePlayer(ctx context.Context, player league.Player) error {
	err := d.db.WithContext(ctx).Omit(clause.Associations).Create(&player).Error
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

func (d *DB) GetPlayer(ctx context.Context, playerID string) (league.Player, error) {
	var players []league.Player
	err := d.db.WithContext(ctx).Preload("Team").Where("id = ?", playerID).Limit(1).Find(&players).Error
	if err != nil {
		return league.Player{}, fmt.Errorf("get player: %w", err)
	}
	if len(players) == 0 {
		return league.Player{}, &league.NotFoundError{Kind: league.KindPlayer, ID: playerID}
	}
	return players[0], nil
}

func (d *DB) ListPlayers(ctx context.Context, f league.PlayerFilter) ([]league.Player, error) {
	tx := d.db.WithContext(ctx).Preload("Team")
	switch {
	case f.FreeAgentsOnly:
		tx = tx.Where("team_id IS NULL")
	case f.TeamID != nil:
		tx = tx.Where("team_id = ?", *f.TeamID)
	}
	var players []league.Player
	if err := tx.Order("name, id").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (d *DB) UpdatePlayer(ctx context.Context, player league.Player) error {
	err := d.db.WithContext(ctx).Model(&league.Player{ID: player.ID}).
		Select("name", "team_id").
		Updates(map[string]any{
			"name":    player.Name,
			"team_id": player.TeamID,
		}).Error
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	return nil
}

func (d *DB) DeletePlayers(ctx context.Context, playerIDs []string) ([]string, error) {
	var deleted []string
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&league.Player{}).Where("id IN ?", playerIDs).Pluck("id", &deleted).Error; err != nil {
			return err
		}
		if len(deleted) == 0 {
			return nil
		}
		return tx.Where("id IN ?", deleted).Delete(&league.Player{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("delete players: %w", err)
	}
	return deleted, nil
}

func (d *DB) CountPlayers(ctx context.Context) (int64, error) {
	var cnt int64
	if err := d.db.WithContext(ctx).Model(&league.Player{}).Count(&cnt).Error; err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return cnt, nil
}

func (d *DB) CreateMatch(ctx context.Context, match league.Match) error {
	err := d.db.WithContext(ctx).Omit(clause.Associations).Create(&match).Error
	if err != nil {
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

func preloadMatch(tx *gorm.DB) *gorm.DB {
	return tx.Preload("HomeTeam").Preload("AwayTeam").Preload("Tournament")
}

func (d *DB) GetMatch(ctx context.Context, matchID string, os ...league.GetMatchOptions) (league.Match, error) {
	o := applyOpts(os)
	tx := preloadMatch(d.db.WithContext(ctx))
	if o.WithRosters {
		byName := func(tx *gorm.DB) *gorm.DB { return tx.Order("name, id") }
		tx = tx.Preload("HomeTeam.Players", byName).Preload("AwayTeam.Players", byName)
	}
	var matches []league.Match
	if err := tx.Where("id = ?", matchID).Limit(1).Find(&matches).Error; err != nil {
		return league.Match{}, fmt.Errorf("get match: %w", err)
	}
	if len(matches) == 0 {
		return league.Match{}, &league.NotFoundError{Kind: league.KindMatch, ID: matchID}
	}
	return matches[0], nil
}

func (d *DB) ListMatches(ctx context.Context, f league.MatchFilter) ([]league.Match, error) {
	tx := preloadMatch(d.db.WithContext(ctx))
	if f.Status != nil {
		tx = tx.Where("status = ?", *f.Status)
	}
	if f.TeamID != nil {
		tx = tx.Where("home_team_id = ? OR away_team_id = ?", *f.TeamID, *f.TeamID)
	}
	if f.TournamentID != nil {
		tx = tx.Where("tournament_id = ?", *f.TournamentID)
	}
	if f.ExcludeTournaments {
		tx = tx.Where("tournament_id IS NULL")
	}
	var matches []league.Match
	if err := tx.Order("date DESC, id").Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}

func (d *DB) UpdateMatch(ctx context.Context, match league.Match) error {
	err := d.db.WithContext(ctx).Model(&league.Match{ID: match.ID}).
		Select("date", "home_team_id", "away_team_id", "home_score", "away_score",
			"status", "cancellation_reason", "tournament_id").
		Updates(map[string]any{
			"date":                match.Date,
			"home_team_id":        match.HomeTeamID,
			"away_team_id":        match.AwayTeamID,
			"home_score":          match.HomeScore,
			"away_score":          match.AwayScore,
			"status":              match.Status,
			"cancellation_reason": match.CancellationReason,
			"tournament_id":       match.TournamentID,
		}).Error
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	return nil
}

func (d *DB) CountMatchesByStatus(ctx context.Context) (map[league.MatchStatus]int64, error) {
	var rows []struct {
		Status league.MatchStatus
		Count  int64
	}
	err := d.db.WithContext(ctx).Model(&league.Match{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count matches: %w", err)
	}
	res := make(map[league.MatchStatus]int64, len(rows))
	for _, r := range rows {
		res[r.Status] = r.Count
	}
	return res, nil
}

func (d *DB) CancelTournamentMatches(ctx context.Context, tournamentID string, reason string) (int64, error) {
	res := d.db.WithContext(ctx).Model(&league.Match{}).
		Where("tournament_id = ? AND status <> ?", tournamentID, league.MatchCancelled).
		Updates(map[string]any{
			"status":              league.MatchCancelled,
			"cancellation_reason": reason,
			"home_score":          nil,
			"away_score":          nil,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("cancel tournament matches: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (d *DB) CreateTournament(ctx context.Context, tournament league.Tournament) error {
	err := d.db.WithContext(ctx).Omit(clause.Associations).Create(&tournament).Error
	if err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}
	return nil
}

func (d *DB) GetTournament(ctx context.Context, tournamentID string, os ...league.GetTournamentOptions) (league.Tournament, error) {
	o := applyOpts(os)
	tx := d.db.WithContext(ctx)
	if o.WithMatches {
		tx = tx.Preload("Matches", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("date DESC, id")
		})
	}
	var ts []league.Tournament
	if err := tx.Where("id = ?", tournamentID).Limit(1).Find(&ts).Error; err != nil {
		return league.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if len(ts) == 0 {
		return league.Tournament{}, &league.NotFoundError{Kind: league.KindTournament, ID: tournamentID}
	}
	return ts[0], nil
}

func (d *DB) ListTournaments(ctx context.Context) ([]league.Tournament, error) {
	var ts []league.Tournament
	if err := d.db.WithContext(ctx).Order("start_date DESC, id").Find(&ts).Error; err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return ts, nil
}

func (d *DB) UpdateTournament(ctx context.Context, t league.Tournament) error {
	err := d.db.WithContext(ctx).Model(&league.Tournament{ID: t.ID}).
		Select("name", "description", "start_date", "end_date", "status", "cancellation_reason").
		Updates(map[string]any{
			"name":                t.Name,
			"description":         t.Description,
			"start_date":          t.StartDate,
			"end_date":            t.EndDate,
			"status":              t.Status,
			"cancellation_reason": t.CancellationReason,
		}).Error
	if err != nil {
		return fmt.Errorf("update tournament: %w", err)
	}
	return nil
}
