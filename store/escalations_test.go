package store

import (
	"sync"
	"testing"
	"time"

	"wakely/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEscalation(t *testing.T, db *gorm.DB, userID int64, trigger time.Time, delayMinutes int, friendIDs []int64) models.EscalationEvent {
	t.Helper()

	ev := models.EscalationEvent{
		ID:             NewEscalationID(),
		UserID:         userID,
		AlarmID:        "alarm-1",
		TriggerTime:    trigger,
		EscalationTime: trigger.Add(time.Duration(delayMinutes) * time.Minute),
		Status:         models.ESCALATION_STATUS_PENDING,
	}
	ev.SetFriendIDs(friendIDs)
	require.NoError(t, CreateEscalation(db, &ev))
	return ev
}

func TestCreateEscalationInvariants(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	// deadline antes do trigger é rejeitado
	bad := models.EscalationEvent{
		ID:             NewEscalationID(),
		UserID:         1,
		TriggerTime:    now,
		EscalationTime: now.Add(-time.Minute),
	}
	assert.Equal(t, ErrInvalidDeadline, CreateEscalation(db, &bad))

	ev := makeEscalation(t, db, 1, now, 5, []int64{2, 3})

	// id repetido
	dup := models.EscalationEvent{
		ID:             ev.ID,
		UserID:         1,
		TriggerTime:    now,
		EscalationTime: now.Add(time.Minute),
	}
	assert.Equal(t, ErrAlreadyExists, CreateEscalation(db, &dup))

	loaded, err := GetEscalation(db, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ESCALATION_STATUS_PENDING, loaded.Status)
	assert.Equal(t, []int64{2, 3}, loaded.FriendIDList())
}

func TestTransitionWinnerTakesAll(t *testing.T) {
	db := testDB(t)
	ev := makeEscalation(t, db, 1, time.Now().Add(-10*time.Minute), 5, []int64{2})

	now := time.Now()
	require.NoError(t, TransitionEscalation(db, ev.ID, models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_DISMISSED, now))

	// o perdedor observa no-op, não erro "real"
	err := TransitionEscalation(db, ev.ID, models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_ESCALATED, now)
	assert.Equal(t, ErrNoTransition, err)

	loaded, err := GetEscalation(db, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ESCALATION_STATUS_DISMISSED, loaded.Status)
	require.NotNil(t, loaded.DismissedAt)
	assert.Nil(t, loaded.EscalatedAt)
}

func TestTransitionConcurrentDismissVsEscalate(t *testing.T) {
	db := testDB(t)
	ev := makeEscalation(t, db, 1, time.Now().Add(-10*time.Minute), 5, []int64{2})

	now := time.Now()
	results := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		results[0] = TransitionEscalation(db, ev.ID, models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_DISMISSED, now)
	}()
	go func() {
		defer wg.Done()
		results[1] = TransitionEscalation(db, ev.ID, models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_ESCALATED, now)
	}()
	wg.Wait()

	// exatamente um vence; o outro é no-op
	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.Equal(t, ErrNoTransition, err)
		}
	}
	assert.Equal(t, 1, winners)

	loaded, err := GetEscalation(db, ev.ID)
	require.NoError(t, err)
	assert.Contains(t, []string{
		models.ESCALATION_STATUS_DISMISSED,
		models.ESCALATION_STATUS_ESCALATED,
	}, loaded.Status)
}

func TestTransitionNotFound(t *testing.T) {
	db := testDB(t)
	err := TransitionEscalation(db, "nope", models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_DISMISSED, time.Now())
	assert.Equal(t, ErrNotFound, err)
}

func TestExtendDeadlineIsAdditive(t *testing.T) {
	db := testDB(t)
	trigger := time.Now().Truncate(time.Second)
	ev := makeEscalation(t, db, 1, trigger, 5, []int64{2})

	// snooze de 9 minutos em T+2: novo deadline = (T+5)+9 = T+14,
	// somado ao deadline atual, não a "agora"
	newDeadline, err := ExtendEscalationDeadline(db, ev.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, trigger.Add(14*time.Minute).Unix(), newDeadline.Unix())

	// sequência de snoozes: deadline nunca anda pra trás
	prev := newDeadline
	for _, minutes := range []int{1, 5, 3} {
		next, err := ExtendEscalationDeadline(db, ev.ID, minutes)
		require.NoError(t, err)
		assert.True(t, next.After(prev), "deadline deve ser estritamente crescente")
		prev = next
	}
}

func TestExtendDeadlineRequiresPending(t *testing.T) {
	db := testDB(t)
	ev := makeEscalation(t, db, 1, time.Now(), 5, []int64{2})

	require.NoError(t, TransitionEscalation(db, ev.ID, models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_DISMISSED, time.Now()))

	_, err := ExtendEscalationDeadline(db, ev.ID, 5)
	assert.Equal(t, ErrInvalidState, err)

	_, err = ExtendEscalationDeadline(db, "nope", 5)
	assert.Equal(t, ErrNotFound, err)

	_, err = ExtendEscalationDeadline(db, ev.ID, 0)
	assert.Equal(t, ErrInvalidDeadline, err)
}

func TestDueEscalations(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	due := makeEscalation(t, db, 1, now.Add(-10*time.Minute), 5, []int64{2})
	notDue := makeEscalation(t, db, 1, now, 30, []int64{2})
	terminal := makeEscalation(t, db, 1, now.Add(-20*time.Minute), 5, []int64{2})
	require.NoError(t, TransitionEscalation(db, terminal.ID, models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_DISMISSED, now))

	events, err := DueEscalations(db, now, 50)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, due.ID, events[0].ID)
	assert.NotEqual(t, notDue.ID, events[0].ID)
}

func TestEscalationHistoryOnlyOwnerNewestFirst(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	older := makeEscalation(t, db, 1, now.Add(-2*time.Hour), 5, []int64{2})
	newer := makeEscalation(t, db, 1, now.Add(-1*time.Hour), 5, []int64{2})
	makeEscalation(t, db, 99, now, 5, []int64{2}) // de outro usuário

	events, err := EscalationHistory(db, 1, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, newer.ID, events[0].ID)
	assert.Equal(t, older.ID, events[1].ID)
}
