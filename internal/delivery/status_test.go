package delivery

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{
	StatusPending, StatusAwaitingPickup, StatusPickedUp, StatusInTransit,
	StatusOutForDelivery, StatusDelivered, StatusFailed, StatusCancelled,
}

func TestCanTransition_Table(t *testing.T) {
	expected := map[Status]map[Status]bool{
		StatusPending:        {StatusAwaitingPickup: true, StatusCancelled: true},
		StatusAwaitingPickup: {StatusPickedUp: true, StatusFailed: true, StatusCancelled: true},
		StatusPickedUp:       {StatusInTransit: true, StatusFailed: true, StatusCancelled: true},
		StatusInTransit:      {StatusOutForDelivery: true, StatusFailed: true, StatusCancelled: true},
		StatusOutForDelivery: {StatusDelivered: true, StatusFailed: true},
		StatusDelivered:      {},
		StatusFailed:         {},
		StatusCancelled:      {},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			assert.Equal(t, expected[from][to], CanTransition(from, to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestCanTransition_RandomInvalidTargets(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		from := allStatuses[rng.Intn(len(allStatuses))]
		to := Status("bogus_" + string(rune('a'+rng.Intn(26))))
		assert.False(t, CanTransition(from, to))
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusDelivered, StatusFailed, StatusCancelled} {
		assert.True(t, IsTerminal(s), "%s", s)
	}
	for _, s := range []Status{StatusPending, StatusAwaitingPickup, StatusPickedUp, StatusInTransit, StatusOutForDelivery} {
		assert.False(t, IsTerminal(s), "%s", s)
	}
}

func TestRankAndNextForward(t *testing.T) {
	assert.Equal(t, 0, Rank(StatusPending))
	assert.Equal(t, 3, Rank(StatusInTransit))
	assert.Equal(t, 5, Rank(StatusDelivered))
	assert.Equal(t, -1, Rank(StatusFailed))
	assert.Equal(t, -1, Rank(StatusCancelled))

	next, ok := NextForward(StatusPending)
	assert.True(t, ok)
	assert.Equal(t, StatusAwaitingPickup, next)

	next, ok = NextForward(StatusOutForDelivery)
	assert.True(t, ok)
	assert.Equal(t, StatusDelivered, next)

	_, ok = NextForward(StatusDelivered)
	assert.False(t, ok)

	_, ok = NextForward(StatusFailed)
	assert.False(t, ok)
}

func TestNextForward_FollowsTransitionTable(t *testing.T) {
	// Every happy-path step must also be legal by the transition table.
	s := StatusPending
	for {
		next, ok := NextForward(s)
		if !ok {
			break
		}
		assert.True(t, CanTransition(s, next), "%s -> %s", s, next)
		s = next
	}
	assert.Equal(t, StatusDelivered, s)
}
