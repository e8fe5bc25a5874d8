package webui

import (
	"fmt"

	"github.com/alex65536/league/internal/league"
)

type recordPartData struct {
	Wins        int
	Losses      int
	Draws       int
	Played      int
	WinRate     string
	Tournaments []league.TournamentRef
}

func buildRecordPartData(r league.Record) *recordPartData {
	res := &recordPartData{
		Wins:        r.Wins,
		Losses:      r.Losses,
		Draws:       r.Draws,
		Played:      r.Played,
		WinRate:     "no data",
		Tournaments: r.Tournaments,
	}
	if rate, ok := r.WinRate().TryGet(); ok {
		res.WinRate = fmt.Sprintf("%.1f%%", 100*rate)
	}
	return res
}
