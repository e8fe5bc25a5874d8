package webui

import (
	"hash/fnv"

	"github.com/alex65536/league/internal/league"
	"github.com/lucasb-eyer/go-colorful"
)

type teamPartData struct {
	ID       string
	Name     string
	Logo     string
	Color    string
	Archived bool
}

// teamColor picks a stable badge colour for the team name. All the colours have the same
// lightness and chroma, so the badges look alike.
func teamColor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	hue := float64(h.Sum32()%360) + 0.5
	return colorful.Hcl(hue, 0.45, 0.6).Clamped().Hex()
}

func buildTeamPartData(t *league.Team) *teamPartData {
	if t == nil {
		return &teamPartData{Name: "(unknown team)", Color: "#888888"}
	}
	res := &teamPartData{
		ID:       t.ID,
		Name:     t.Name,
		Color:    teamColor(t.Name),
		Archived: t.Archived,
	}
	if t.Logo != nil {
		res.Logo = *t.Logo
	}
	return res
}
