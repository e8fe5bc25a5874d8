package league

import (
	"context"
)

type GetTeamOptions struct {
	WithPlayers bool
}

type ListTeamsOptions struct {
	WithArchived bool
	WithPlayers  bool
}

type PlayerFilter struct {
	TeamID         *string
	FreeAgentsOnly bool
}

type GetMatchOptions struct {
	WithRosters bool
}

// MatchFilter selects matches. Zero value selects everything.
type MatchFilter struct {
	Status             *MatchStatus
	TeamID             *string
	TournamentID       *string
	ExcludeTournaments bool
}

type GetTournamentOptions struct {
	WithMatches bool
}

// DB is the entity store used by Manager. Lookup methods return *NotFoundError if the entity
// does not exist.
type DB interface {
	CreateTeam(ctx context.Context, team Team) error
	GetTeam(ctx context.Context, teamID string, o ...GetTeamOptions) (Team, error)
	ListTeams(ctx context.Context, o ListTeamsOptions) ([]Team, error)
	UpdateTeam(ctx context.Context, team Team) error
	DeleteTeam(ctx context.Context, teamID string) error
	CountTeams(ctx context.Context) (int64, error)
	CountTeamMatches(ctx context.Context, teamID string) (int64, error)

	CreatePlayer(ctx context.Context, player Player) error
	GetPlayer(ctx context.Context, playerID string) (Player, error)
	ListPlayers(ctx context.Context, f PlayerFilter) ([]Player, error)
	UpdatePlayer(ctx context.Context, player Player) error
	DeletePlayers(ctx context.Context, playerIDs []string) ([]string, error)
	CountPlayers(ctx context.Context) (int64, error)

	CreateMatch(ctx context.Context, match Match) error
	GetMatch(ctx context.Context, matchID string, o ...GetMatchOptions) (Match, error)
	ListMatches(ctx context.Context, f MatchFilter) ([]Match, error)
	UpdateMatch(ctx context.Context, match Match) error
	CountMatchesByStatus(ctx context.Context) (map[MatchStatus]int64, error)
	// CancelTournamentMatches cancels all the matches of the tournament which are not cancelled
	// yet. Returns the number of affected matches.
	CancelTournamentMatches(ctx context.Context, tournamentID string, reason string) (int64, error)

	CreateTournament(ctx context.Context, tournament Tournament) error
	GetTournament(ctx context.Context, tournamentID string, o ...GetTournamentOptions) (Tournament, error)
	ListTournaments(ctx context.Context) ([]Tournament, error)
	UpdateTournament(ctx context.Context, tournament Tournament) error

	// Transaction runs f in a single transaction. If f returns an error, all the changes made
	// through tx are rolled back.
	Transaction(ctx context.Context, f func(tx DB) error) error
}
