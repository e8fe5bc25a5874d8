package feed

import (
	"testing"

	"github.com/alex65536/league/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubMergesChanges(t *testing.T) {
	h := NewHub()
	sub, cancel := h.Subscribe()
	defer cancel()
	assert.Equal(t, 1, h.Len())

	h.OnChange(league.Change{Kind: league.KindMatch, ID: "m1"})
	h.OnChange(league.Change{Kind: league.KindTeam, ID: "t1"})
	h.OnChange(league.Change{Kind: league.KindMatch, ID: "m1"})

	select {
	case <-sub.C():
	default:
		t.Fatal("subscription not signalled")
	}
	changes := sub.Take()
	require.Equal(t, []league.Change{
		{Kind: league.KindMatch, ID: "m1"},
		{Kind: league.KindTeam, ID: "t1"},
	}, changes)
	assert.Equal(t, []league.EntityKind{league.KindTeam, league.KindMatch}, Kinds(changes))
	assert.Empty(t, sub.Take())
}

func TestHubUnsubscribe(t *testing.T) {
	h := NewHub()
	sub, cancel := h.Subscribe()
	other, cancelOther := h.Subscribe()
	defer cancelOther()

	cancel()
	cancel()
	assert.Equal(t, 1, h.Len())
	_, ok := <-sub.C()
	assert.False(t, ok)

	h.OnChange(league.Change{Kind: league.KindPlayer, ID: "p1"})
	assert.Empty(t, sub.Take())
	assert.Len(t, other.Take(), 1)
}

func TestHubClose(t *testing.T) {
	h := NewHub()
	sub, cancel := h.Subscribe()
	h.Close()
	_, ok := <-sub.C()
	assert.False(t, ok)
	cancel()
	h.Close()

	late, _ := h.Subscribe()
	_, ok = <-late.C()
	assert.False(t, ok)
	h.OnChange(league.Change{Kind: league.KindTeam, ID: "t1"})
}
