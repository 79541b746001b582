package services

import (
	"sync"
	"testing"
	"time"

	"club-management-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackerFixture struct {
	ledger       *memLedger
	competitions *memCompetitionStore
	progress     *memProgressStore
	bus          *CompletionEventBus
	listener     *recordingListener
	tracker      *MissionProgressTracker
}

func newTrackerFixture(t *testing.T, clubs ...*models.Club) *trackerFixture {
	t.Helper()
	f := &trackerFixture{
		ledger:       newMemLedger(clubs...),
		competitions: newMemCompetitionStore(),
		progress:     newMemProgressStore(),
		bus:          NewCompletionEventBus(64),
		listener:     &recordingListener{},
	}
	f.bus.Subscribe(f.listener)
	f.tracker = NewMissionProgressTracker(f.progress, f.competitions, f.ledger, f.bus)
	return f
}

// completions drains the bus and returns everything delivered so far.
func (f *trackerFixture) completions() []models.MissionProgress {
	f.bus.Close()
	return f.listener.received()
}

func activatedCompetition(id string, goalType models.GoalType, goalValue, reward int64) *models.Competition {
	return &models.Competition{
		ID:           id,
		Name:         "Competition " + id,
		GoalType:     goalType,
		GoalValue:    goalValue,
		PointsReward: reward,
		Status:       models.CompetitionActivated,
	}
}

func TestRecordQualifyingEventAwardsExactlyOnce(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a", Name: "Alpha"})
	require.NoError(t, f.competitions.Create(activatedCompetition("m1", models.GoalEventCount, 3, 10)))

	// First event: progress 1, no award yet.
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))
	row := f.progress.row("club-a", "m1")
	require.NotNil(t, row)
	assert.Equal(t, int64(1), row.Progress)
	assert.False(t, row.IsCompleted)
	assert.Equal(t, int64(0), f.ledger.points("club-a"))

	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))

	// Third event crosses the goal: completed, awarded.
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))
	row = f.progress.row("club-a", "m1")
	assert.Equal(t, int64(3), row.Progress)
	assert.True(t, row.IsCompleted)
	assert.NotNil(t, row.CompletedAt)
	assert.Equal(t, int64(10), f.ledger.points("club-a"))

	// Fourth event: row is frozen, nothing moves.
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))
	row = f.progress.row("club-a", "m1")
	assert.Equal(t, int64(3), row.Progress)
	assert.Equal(t, int64(10), f.ledger.points("club-a"))

	events := f.completions()
	require.Len(t, events, 1)
	assert.Equal(t, "club-a", events[0].ClubID)
	assert.Equal(t, "m1", events[0].CompetitionID)
	assert.True(t, events[0].IsCompleted)
}

func TestRecordQualifyingEventUnknownClub(t *testing.T) {
	f := newTrackerFixture(t)
	err := f.tracker.RecordQualifyingEvent("ghost", models.GoalEventCount)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordQualifyingEventMatchesGoalType(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"})
	require.NoError(t, f.competitions.Create(activatedCompetition("likes", models.GoalEventLikes, 5, 10)))
	require.NoError(t, f.competitions.Create(activatedCompetition("events", models.GoalEventCount, 5, 10)))

	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))

	assert.Nil(t, f.progress.row("club-a", "likes"))
	row := f.progress.row("club-a", "events")
	require.NotNil(t, row)
	assert.Equal(t, int64(1), row.Progress)
}

func TestRecordQualifyingEventSkipsNonActivated(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"})
	deactivated := activatedCompetition("off", models.GoalEventCount, 3, 10)
	deactivated.Status = models.CompetitionDeactivated
	require.NoError(t, f.competitions.Create(deactivated))

	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))
	assert.Nil(t, f.progress.row("club-a", "off"))
}

func TestInitializeForAllClubsIsIdempotent(t *testing.T) {
	f := newTrackerFixture(t,
		&models.Club{ID: "club-a"},
		&models.Club{ID: "club-b"},
		&models.Club{ID: "club-c"},
	)
	competition := activatedCompetition("m1", models.GoalEventCount, 3, 10)
	require.NoError(t, f.competitions.Create(competition))

	require.NoError(t, f.tracker.InitializeForAllClubs(competition))
	assert.Equal(t, 3, f.progress.count())
	for _, clubID := range []string{"club-a", "club-b", "club-c"} {
		row := f.progress.row(clubID, "m1")
		require.NotNil(t, row)
		assert.Equal(t, int64(0), row.Progress)
		assert.False(t, row.IsCompleted)
	}

	// Second pass creates zero additional rows.
	require.NoError(t, f.tracker.InitializeForAllClubs(competition))
	assert.Equal(t, 3, f.progress.count())
}

func TestInitializeForNewClub(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"})
	require.NoError(t, f.competitions.Create(activatedCompetition("active", models.GoalEventCount, 3, 10)))
	scheduled := activatedCompetition("later", models.GoalEventCount, 3, 10)
	scheduled.Status = models.CompetitionScheduled
	require.NoError(t, f.competitions.Create(scheduled))

	require.NoError(t, f.tracker.InitializeForNewClub("club-a"))

	assert.NotNil(t, f.progress.row("club-a", "active"))
	assert.Nil(t, f.progress.row("club-a", "later"))

	err := f.tracker.InitializeForNewClub("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResetAllDiscardsProgressButNotPoints(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"}, &models.Club{ID: "club-b"})
	competition := activatedCompetition("m1", models.GoalEventCount, 2, 10)
	require.NoError(t, f.competitions.Create(competition))

	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-b", models.GoalEventCount))
	require.Equal(t, int64(10), f.ledger.points("club-a"))

	require.NoError(t, f.tracker.ResetAll(competition))

	for _, clubID := range []string{"club-a", "club-b"} {
		row := f.progress.row(clubID, "m1")
		require.NotNil(t, row)
		assert.Equal(t, int64(0), row.Progress)
		assert.False(t, row.IsCompleted)
		assert.Nil(t, row.CompletedAt)
	}
	// Awarded points stay.
	assert.Equal(t, int64(10), f.ledger.points("club-a"))
}

func TestResetAllReportsPartialFailure(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"}, &models.Club{ID: "club-b"})
	competition := activatedCompetition("m1", models.GoalEventCount, 5, 10)
	require.NoError(t, f.competitions.Create(competition))
	require.NoError(t, f.tracker.InitializeForAllClubs(competition))
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-b", models.GoalEventCount))

	f.progress.failFor["club-b"] = assert.AnError

	err := f.tracker.ResetAll(competition)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "club-b")

	// The healthy club still got reset.
	assert.Equal(t, int64(0), f.progress.row("club-a", "m1").Progress)
	assert.Equal(t, int64(1), f.progress.row("club-b", "m1").Progress)
}

func TestReinitializeAllRestartsFromZero(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"})
	competition := activatedCompetition("m1", models.GoalEventCount, 3, 10)
	require.NoError(t, f.competitions.Create(competition))
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))

	// A club created while the competition was down.
	f.ledger.clubs["club-new"] = &models.Club{ID: "club-new"}

	require.NoError(t, f.tracker.ReinitializeAll(competition))

	row := f.progress.row("club-a", "m1")
	require.NotNil(t, row)
	assert.Equal(t, int64(0), row.Progress, "no row resumes prior progress")

	fresh := f.progress.row("club-new", "m1")
	require.NotNil(t, fresh)
	assert.Equal(t, int64(0), fresh.Progress)
}

func TestConcurrentEventsAwardOnce(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"})
	require.NoError(t, f.competitions.Create(activatedCompetition("m1", models.GoalEventCount, 25, 100)))

	const callers = 60
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_ = f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount)
		}()
	}
	close(start)
	wg.Wait()

	// No lost updates up to the goal, no increments past it, one award.
	row := f.progress.row("club-a", "m1")
	require.NotNil(t, row)
	assert.Equal(t, int64(25), row.Progress)
	assert.True(t, row.IsCompleted)
	assert.Equal(t, int64(100), f.ledger.points("club-a"))

	events := f.completions()
	assert.Len(t, events, 1)
}

func TestFindOrCreateKeepsSingleRowPerPair(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"})
	competition := activatedCompetition("m1", models.GoalEventCount, 100, 10)
	require.NoError(t, f.competitions.Create(competition))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.tracker.InitializeForAllClubs(competition)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.progress.count())
}

func TestCompletedAtSetOnCompletionOnly(t *testing.T) {
	f := newTrackerFixture(t, &models.Club{ID: "club-a"})
	require.NoError(t, f.competitions.Create(activatedCompetition("m1", models.GoalEventCount, 1, 5)))

	before := time.Now()
	require.NoError(t, f.tracker.RecordQualifyingEvent("club-a", models.GoalEventCount))

	row := f.progress.row("club-a", "m1")
	require.NotNil(t, row.CompletedAt)
	assert.False(t, row.CompletedAt.Before(before))
}
