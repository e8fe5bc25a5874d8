package league

import (
	"context"
	"log/slog"

	"github.com/alex65536/league/internal/util/idgen"
)

type PlayerSettings struct {
	Name   string
	TeamID *string
}

type PlayerStats struct {
	Player  Player
	Record  Record
	Matches []Match
}

func checkPlayerTeam(ctx context.Context, tx DB, teamID *string) error {
	if teamID == nil {
		return nil
	}
	return checkMatchTeam(ctx, tx, *teamID)
}

func (m *Manager) CreatePlayer(ctx context.Context, s PlayerSettings) (Player, error) {
	name, err := validateName("name", s.Name, maxNameLen)
	if err != nil {
		return Player{}, err
	}
	player := Player{
		ID:     idgen.ID(),
		Name:   name,
		TeamID: idPtr(s.TeamID),
	}
	err = m.db.Transaction(ctx, func(tx DB) error {
		if err := checkPlayerTeam(ctx, tx, player.TeamID); err != nil {
			return err
		}
		return tx.CreatePlayer(ctx, player)
	})
	if err != nil {
		return Player{}, storeErr("create player", err)
	}
	m.log.Info("created player", slog.String("player_id", player.ID))
	m.notify(KindPlayer, player.ID)
	return player, nil
}

func (m *Manager) EditPlayer(ctx context.Context, playerID string, s PlayerSettings) (Player, error) {
	name, err := validateName("name", s.Name, maxNameLen)
	if err != nil {
		return Player{}, err
	}
	teamID := idPtr(s.TeamID)
	var player Player
	err = m.db.Transaction(ctx, func(tx DB) error {
		var err error
		player, err = tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if teamID != nil && (player.TeamID == nil || *player.TeamID != *teamID) {
			if err := checkPlayerTeam(ctx, tx, teamID); err != nil {
				return err
			}
		}
		player.Name = name
		player.TeamID = teamID
		player.Team = nil
		return tx.UpdatePlayer(ctx, player)
	})
	if err != nil {
		return Player{}, storeErr("edit player", err)
	}
	m.log.Info("edited player", slog.String("player_id", player.ID))
	m.notify(KindPlayer, player.ID)
	return player, nil
}

func (m *Manager) setPlayerTeam(ctx context.Context, op string, playerID string, teamID *string) error {
	err := m.db.Transaction(ctx, func(tx DB) error {
		player, err := tx.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if err := checkPlayerTeam(ctx, tx, teamID); err != nil {
			return err
		}
		player.TeamID = teamID
		player.Team = nil
		return tx.UpdatePlayer(ctx, player)
	})
	if err != nil {
		return storeErr(op, err)
	}
	m.notify(KindPlayer, playerID)
	return nil
}

func (m *Manager) AssignPlayerToTeam(ctx context.Context, playerID, teamID string) error {
	if err := validateID("team", teamID); err != nil {
		return err
	}
	if err := m.setPlayerTeam(ctx, "assign player", playerID, &teamID); err != nil {
		return err
	}
	m.log.Info("assigned player to team",
		slog.String("player_id", playerID),
		slog.String("team_id", teamID),
	)
	return nil
}

func (m *Manager) RemovePlayerFromTeam(ctx context.Context, playerID string) error {
	if err := m.setPlayerTeam(ctx, "remove player from team", playerID, nil); err != nil {
		return err
	}
	m.log.Info("removed player from team", slog.String("player_id", playerID))
	return nil
}

// DeletePlayers deletes the players with the given IDs. Unknown IDs are ignored. Returns the
// number of deleted players.
func (m *Manager) DeletePlayers(ctx context.Context, playerIDs []string) (int64, error) {
	if len(playerIDs) == 0 {
		return 0, validationErr("players", "no players selected")
	}
	deleted, err := m.db.DeletePlayers(ctx, playerIDs)
	if err != nil {
		return 0, storeErr("delete players", err)
	}
	m.log.Info("deleted players", slog.Int("count", len(deleted)))
	for _, id := range deleted {
		m.notify(KindPlayer, id)
	}
	return int64(len(deleted)), nil
}

func (m *Manager) GetPlayer(ctx context.Context, playerID string) (Player, error) {
	player, err := m.db.GetPlayer(ctx, playerID)
	if err != nil {
		return Player{}, storeErr("get player", err)
	}
	return player, nil
}

func (m *Manager) ListPlayers(ctx context.Context) ([]Player, error) {
	players, err := m.db.ListPlayers(ctx, PlayerFilter{})
	if err != nil {
		return nil, storeErr("list players", err)
	}
	return players, nil
}

func (m *Manager) ListFreeAgents(ctx context.Context) ([]Player, error) {
	players, err := m.db.ListPlayers(ctx, PlayerFilter{FreeAgentsOnly: true})
	if err != nil {
		return nil, storeErr("list free agents", err)
	}
	return players, nil
}

// PlayerRecord returns the record of the player's current team. Free agents have an empty
// record.
func (m *Manager) PlayerRecord(ctx context.Context, playerID string) (PlayerStats, error) {
	player, err := m.GetPlayer(ctx, playerID)
	if err != nil {
		return PlayerStats{}, err
	}
	if player.TeamID == nil {
		return PlayerStats{Player: player}, nil
	}
	matches, err := m.db.ListMatches(ctx, MatchFilter{TeamID: player.TeamID})
	if err != nil {
		return PlayerStats{}, storeErr("list player matches", err)
	}
	return PlayerStats{
		Player:  player,
		Record:  Summarize(*player.TeamID, matches),
		Matches: matches,
	}, nil
}
