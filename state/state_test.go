package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aditya060/Quiz-Stats/live"
	"github.com/Aditya060/Quiz-Stats/models"
	"github.com/Aditya060/Quiz-Stats/testutil"
)

func TestSnapshotDefaults(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	recorder := &testutil.EventRecorder{}
	m := NewMachine(conn, recorder)

	snap, err := m.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, models.StatusIdle, snap.Status)
	assert.Equal(t, 0, snap.ActiveIndex)
	assert.Equal(t, 0, snap.TotalQuestions)
	assert.False(t, snap.RevealCorrect)
	assert.Empty(t, recorder.Events(), "snapshot reads must not broadcast")
}

func TestStartResetsVotesAndRewinds(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	recorder := &testutil.EventRecorder{}
	m := NewMachine(conn, recorder)

	qID, optIDs := testutil.CreateTestQuestion(t, conn, "Q1", "A", "B")
	testutil.CreateTestQuestion(t, conn, "Q2", "C", "D")
	testutil.InsertTestVote(t, conn, qID, optIDs[0], testutil.NewDeviceID())
	testutil.InsertTestVote(t, conn, qID, optIDs[1], testutil.NewDeviceID())

	// Move off the initial state first.
	_, err := m.Next()
	require.NoError(t, err)

	require.NoError(t, m.Start())

	var votes int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM responses`).Scan(&votes))
	assert.Zero(t, votes, "start clears the vote ledger")

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, snap.Status)
	assert.Equal(t, 0, snap.ActiveIndex)
	assert.Equal(t, 2, snap.TotalQuestions)

	// Start is idempotent: a second start succeeds and resets again.
	require.NoError(t, m.Start())
}

func TestNextClamps(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	recorder := &testutil.EventRecorder{}
	m := NewMachine(conn, recorder)

	testutil.CreateTestQuestion(t, conn, "Q1", "A", "B")
	testutil.CreateTestQuestion(t, conn, "Q2", "A", "B")
	testutil.CreateTestQuestion(t, conn, "Q3", "A", "B")

	require.NoError(t, m.Start())

	idx, err := m.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = m.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	// Clamped at the last question; not an error, index unchanged.
	for i := 0; i < 3; i++ {
		idx, err = m.Next()
		require.NoError(t, err)
		assert.Equal(t, 2, idx)
	}
}

func TestNextWithEmptyCorpus(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	recorder := &testutil.EventRecorder{}
	m := NewMachine(conn, recorder)

	idx, err := m.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, idx, "no questions pins the index at zero")
}

func TestEndAndRevive(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	recorder := &testutil.EventRecorder{}
	m := NewMachine(conn, recorder)

	testutil.CreateTestQuestion(t, conn, "Q1", "A", "B")

	require.NoError(t, m.Start())
	require.NoError(t, m.End())

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, models.StatusEnded, snap.Status)

	// Advancing an ended poll sets it running again.
	_, err = m.Next()
	require.NoError(t, err)

	snap, err = m.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, models.StatusRunning, snap.Status)
}

func TestSetRevealIndependentOfStatus(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	recorder := &testutil.EventRecorder{}
	m := NewMachine(conn, recorder)

	// Toggling while idle is allowed.
	require.NoError(t, m.SetReveal(true))

	snap, err := m.Snapshot()
	require.NoError(t, err)
	assert.True(t, snap.RevealCorrect)
	assert.Equal(t, models.StatusIdle, snap.Status)

	require.NoError(t, m.SetReveal(false))
	snap, err = m.Snapshot()
	require.NoError(t, err)
	assert.False(t, snap.RevealCorrect)
}

func TestTransitionsBroadcast(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	recorder := &testutil.EventRecorder{}
	m := NewMachine(conn, recorder)

	testutil.CreateTestQuestion(t, conn, "Q1", "A", "B")

	require.NoError(t, m.Start())
	_, err := m.Next()
	require.NoError(t, err)
	require.NoError(t, m.End())
	require.NoError(t, m.SetReveal(true))

	assert.Equal(t, 4, recorder.Count(live.EventStateChanged))
}
