package store

import (
	"testing"
	"time"

	"wakely/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEscalated(t *testing.T, db *gorm.DB, friendIDs []int64, escalatedAt time.Time) {
	t.Helper()

	ev := models.EscalationEvent{
		ID:             NewEscalationID(),
		UserID:         1,
		TriggerTime:    escalatedAt.Add(-5 * time.Minute),
		EscalationTime: escalatedAt,
		Status:         models.ESCALATION_STATUS_ESCALATED,
		EscalatedAt:    &escalatedAt,
	}
	ev.SetFriendIDs(friendIDs)
	require.NoError(t, db.Create(&ev).Error)
}

func TestCanNotifyFriendBoundary(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	const friendID = int64(7)

	// 2 na janela -> pode
	makeEscalated(t, db, []int64{friendID}, now.Add(-10*time.Minute))
	makeEscalated(t, db, []int64{friendID, 8}, now.Add(-20*time.Minute))

	ok, err := CanNotifyFriend(db, friendID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// 3 na janela -> não pode
	makeEscalated(t, db, []int64{friendID}, now.Add(-30*time.Minute))

	ok, err = CanNotifyFriend(db, friendID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	// outro amigo não é afetado
	ok, err = CanNotifyFriend(db, 8, now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanNotifyFriendIgnoresStaleEvents(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	const friendID = int64(7)

	// 3 escalações, mas duas fora da janela de 60 minutos
	makeEscalated(t, db, []int64{friendID}, now.Add(-10*time.Minute))
	makeEscalated(t, db, []int64{friendID}, now.Add(-90*time.Minute))
	makeEscalated(t, db, []int64{friendID}, now.Add(-2*time.Hour))

	count, err := EscalatedCountForFriend(db, friendID, now.Add(-RATE_LIMIT_WINDOW))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	ok, err := CanNotifyFriend(db, friendID, now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCanNotifyIgnoresPendingAndDismissed(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	const friendID = int64(7)

	// pending e dismissed não contam pra janela
	for _, status := range []string{models.ESCALATION_STATUS_PENDING, models.ESCALATION_STATUS_DISMISSED} {
		ev := models.EscalationEvent{
			ID:             NewEscalationID(),
			UserID:         1,
			TriggerTime:    now.Add(-10 * time.Minute),
			EscalationTime: now.Add(-5 * time.Minute),
			Status:         status,
		}
		ev.SetFriendIDs([]int64{friendID})
		require.NoError(t, db.Create(&ev).Error)
	}

	count, err := EscalatedCountForFriend(db, friendID, now.Add(-RATE_LIMIT_WINDOW))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
