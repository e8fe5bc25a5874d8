package webui

import (
	"time"

	"github.com/alex65536/league/internal/league"
)

type tournamentPartData struct {
	ID          string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	Status      league.TournamentStatus
	Reason      string
}

func buildTournamentPartData(v *league.TournamentView) *tournamentPartData {
	res := &tournamentPartData{
		ID:        v.ID,
		Name:      v.Name,
		StartDate: v.StartDate,
		EndDate:   v.EndDate,
		Status:    v.Effective,
	}
	if v.Description != nil {
		res.Description = *v.Description
	}
	if v.CancellationReason != nil {
		res.Reason = *v.CancellationReason
	}
	return res
}

func buildTournamentPartsData(vs []league.TournamentView) []*tournamentPartData {
	res := make([]*tournamentPartData, len(vs))
	for i := range vs {
		res[i] = buildTournamentPartData(&vs[i])
	}
	return res
}
