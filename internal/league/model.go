package league

import (
	"time"
)

type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchPlayed    MatchStatus = "played"
	MatchCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchUpcoming, MatchPlayed, MatchCancelled:
		return true
	default:
		return false
	}
}

func (s MatchStatus) PrettyString() string {
	switch s {
	case MatchUpcoming:
		return "Upcoming"
	case MatchPlayed:
		return "Played"
	case MatchCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentOngoing   TournamentStatus = "ongoing"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCancelled TournamentStatus = "cancelled"
)

func (s TournamentStatus) IsValid() bool {
	switch s {
	case TournamentUpcoming, TournamentOngoing, TournamentCompleted, TournamentCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is never recomputed from dates.
func (s TournamentStatus) IsTerminal() bool {
	return s == TournamentCompleted || s == TournamentCancelled
}

func (s TournamentStatus) PrettyString() string {
	switch s {
	case TournamentUpcoming:
		return "Upcoming"
	case TournamentOngoing:
		return "Ongoing"
	case TournamentCompleted:
		return "Completed"
	case TournamentCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

type Team struct {
	ID       string `gorm:"primaryKey"`
	Name     string
	Logo     *string
	Archived bool     `gorm:"index;not null;default:false"`
	Players  []Player `gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`
}

type Player struct {
	ID     string `gorm:"primaryKey"`
	Name   string
	TeamID *string `gorm:"index"`
	Team   *Team   `gorm:"foreignKey:TeamID;constraint:OnDelete:SET NULL"`
}

func (p *Player) IsFreeAgent() bool {
	return p.TeamID == nil
}

type Match struct {
	ID                 string    `gorm:"primaryKey"`
	Date               time.Time `gorm:"index"`
	HomeTeamID         string    `gorm:"index"`
	HomeTeam           *Team     `gorm:"foreignKey:HomeTeamID"`
	AwayTeamID         string    `gorm:"index"`
	AwayTeam           *Team     `gorm:"foreignKey:AwayTeamID"`
	HomeScore          *int
	AwayScore          *int
	Status             MatchStatus `gorm:"index;not null;default:upcoming"`
	CancellationReason *string
	TournamentID       *string     `gorm:"index"`
	Tournament         *Tournament `gorm:"foreignKey:TournamentID;constraint:OnDelete:SET NULL"`
}

func (m *Match) HasScores() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

func (m *Match) InTournament() bool {
	return m.TournamentID != nil
}

type Tournament struct {
	ID                 string `gorm:"primaryKey"`
	Name               string
	Description        *string
	StartDate          time.Time
	EndDate            *time.Time
	Status             TournamentStatus `gorm:"index;not null;default:upcoming"`
	CancellationReason *string
	Matches            []Match `gorm:"foreignKey:TournamentID"`
}

// Models lists every entity the store has to migrate.
var Models = []any{
	&Team{},
	&Player{},
	&Tournament{},
	&Match{},
}
