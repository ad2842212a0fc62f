package store

import (
	"fmt"
	"testing"

	"wakely/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchContactsBatchesAndDedupes(t *testing.T) {
	db := testDB(t)

	// 23 fingerprints -> 3 lotes (10+10+3); todos com conta registrada
	var fingerprints []string
	wantIDs := map[int64]bool{}
	for i := 0; i < 23; i++ {
		user := makeUser(t, db, fmt.Sprintf("User %02d", i), fmt.Sprintf("+1415555%04d", i))
		fingerprints = append(fingerprints, user.PhoneNumberHash)
		wantIDs[user.ID] = true
	}

	matches, err := MatchContacts(db, fingerprints, 0)
	require.NoError(t, err)
	require.Len(t, matches, 23)

	seen := map[int64]bool{}
	for _, m := range matches {
		assert.False(t, seen[m.UserID], "identidade duplicada no merge: %d", m.UserID)
		seen[m.UserID] = true
		assert.True(t, wantIDs[m.UserID])
		assert.NotEmpty(t, m.DisplayName)
		assert.NotEmpty(t, m.Hash)
	}
}

func TestMatchContactsExcludesCaller(t *testing.T) {
	db := testDB(t)

	caller := makeUser(t, db, "Caller", "+14155550001")
	other := makeUser(t, db, "Other", "+14155550002")

	// o hash do próprio chamador está na entrada e mesmo assim não volta
	matches, err := MatchContacts(db, []string{caller.PhoneNumberHash, other.PhoneNumberHash}, caller.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, other.ID, matches[0].UserID)
}

func TestMatchContactsDuplicateInputFingerprints(t *testing.T) {
	db := testDB(t)

	user := makeUser(t, db, "User", "+14155550003")

	// mesmo fingerprint repetido em lotes diferentes não duplica identidade
	var fingerprints []string
	for i := 0; i < 15; i++ {
		fingerprints = append(fingerprints, user.PhoneNumberHash)
	}
	matches, err := MatchContacts(db, fingerprints, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestMatchContactsUnknownAndEmpty(t *testing.T) {
	db := testDB(t)

	matches, err := MatchContacts(db, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = MatchContacts(db, []string{tools.Fingerprint("+19999999999")}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
