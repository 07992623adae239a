package draft

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendforge/fantasymarket/internal/models"
)

func teamOrder(n int) []uuid.UUID {
	order := make([]uuid.UUID, n)
	for i := range order {
		order[i] = uuid.New()
	}
	return order
}

func TestTeamOnClockSnakeMirrorsEvenRounds(t *testing.T) {
	order := teamOrder(4)

	// round 1: forward
	for i := 0; i < 4; i++ {
		got, err := TeamOnClock(i+1, 1, order, models.DraftModeSnake)
		require.NoError(t, err)
		assert.Equal(t, order[i], got, "round 1 pick %d", i+1)
	}
	// round 2: reversed
	for i := 0; i < 4; i++ {
		got, err := TeamOnClock(5+i, 2, order, models.DraftModeSnake)
		require.NoError(t, err)
		assert.Equal(t, order[3-i], got, "round 2 pick %d", 5+i)
	}
	// round 3: forward again
	for i := 0; i < 4; i++ {
		got, err := TeamOnClock(9+i, 3, order, models.DraftModeSnake)
		require.NoError(t, err)
		assert.Equal(t, order[i], got, "round 3 pick %d", 9+i)
	}
}

func TestTeamOnClockLinearRepeatsEveryRound(t *testing.T) {
	order := teamOrder(3)

	for round := 1; round <= 4; round++ {
		for i := 0; i < 3; i++ {
			pick := (round-1)*3 + i + 1
			got, err := TeamOnClock(pick, round, order, models.DraftModeLinear)
			require.NoError(t, err)
			assert.Equal(t, order[i], got, "round %d pick %d", round, pick)
		}
	}
}

func TestTeamOnClockTwoTeamSnakeDegeneratesToLinear(t *testing.T) {
	order := teamOrder(2)

	for pick := 1; pick <= 8; pick++ {
		round := (pick-1)/2 + 1
		snake, err := TeamOnClock(pick, round, order, models.DraftModeSnake)
		require.NoError(t, err)
		linear, err := TeamOnClock(pick, round, order, models.DraftModeLinear)
		require.NoError(t, err)
		assert.Equal(t, linear, snake, "pick %d", pick)
	}
}

func TestTeamOnClockEveryTeamPicksOncePerRound(t *testing.T) {
	for _, mode := range []models.DraftMode{models.DraftModeSnake, models.DraftModeLinear} {
		order := teamOrder(5)
		for round := 1; round <= 6; round++ {
			seen := make(map[uuid.UUID]bool)
			for i := 0; i < 5; i++ {
				pick := (round-1)*5 + i + 1
				got, err := TeamOnClock(pick, round, order, mode)
				require.NoError(t, err)
				assert.False(t, seen[got], "%s round %d repeated a team", mode, round)
				seen[got] = true
			}
		}
	}
}

func TestTeamOnClockNoTeams(t *testing.T) {
	_, err := TeamOnClock(1, 1, nil, models.DraftModeSnake)
	assert.ErrorIs(t, err, ErrNoTeams)
}

func TestTeamOnClockRejectsPickBelowOne(t *testing.T) {
	order := teamOrder(3)

	for _, pick := range []int{0, -1} {
		_, err := TeamOnClock(pick, 1, order, models.DraftModeSnake)
		assert.ErrorIs(t, err, ErrInvalidPickNumber, "pick %d", pick)
	}
}

func TestTeamOnClockForStateNotStarted(t *testing.T) {
	state := models.DraftState{
		TeamOrder: teamOrder(3),
		Mode:      models.DraftModeSnake,
	}

	// A seeded, unstarted league holds pick 0; the calculator must refuse
	// it instead of indexing the order with a negative offset.
	_, err := TeamOnClockForState(state)
	assert.ErrorIs(t, err, ErrInvalidPickNumber)
}
