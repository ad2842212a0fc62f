package store

import (
	"testing"

	"wakely/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRequestGuards(t *testing.T) {
	db := testDB(t)

	alice := makeUser(t, db, "Alice", "+14155550001")
	bob := makeUser(t, db, "Bob", "+14155550002")

	_, err := CreateFriendRequest(db, alice.ID, alice.ID)
	assert.Equal(t, ErrSelfRequest, err)

	req, err := CreateFriendRequest(db, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FRIEND_REQUEST_STATUS_PENDING, req.Status)

	// request em voo bloqueia nas duas direções
	_, err = CreateFriendRequest(db, alice.ID, bob.ID)
	assert.Equal(t, ErrRequestInFlight, err)
	_, err = CreateFriendRequest(db, bob.ID, alice.ID)
	assert.Equal(t, ErrRequestInFlight, err)

	_, err = AcceptFriendRequest(db, req.ID)
	require.NoError(t, err)

	// já amigos bloqueia request novo
	_, err = CreateFriendRequest(db, bob.ID, alice.ID)
	assert.Equal(t, ErrAlreadyFriends, err)
}

func TestAcceptCreatesBothDirectionsWithSharedEdge(t *testing.T) {
	db := testDB(t)

	alice := makeUser(t, db, "Alice", "+14155550001")
	bob := makeUser(t, db, "Bob", "+14155550002")

	req, err := CreateFriendRequest(db, alice.ID, bob.ID)
	require.NoError(t, err)

	edgeID, err := AcceptFriendRequest(db, req.ID)
	require.NoError(t, err)
	require.NotEmpty(t, edgeID)

	aliceSide, err := ListFriends(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceSide, 1)
	assert.Equal(t, bob.ID, aliceSide[0].FriendID)
	assert.Equal(t, "Bob", aliceSide[0].FriendName)
	assert.Equal(t, edgeID, aliceSide[0].EdgeID)

	bobSide, err := ListFriends(db, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobSide, 1)
	assert.Equal(t, alice.ID, bobSide[0].FriendID)
	assert.Equal(t, "Alice", bobSide[0].FriendName)

	// uma relação lógica, um edge_id, dois registros físicos
	assert.Equal(t, aliceSide[0].EdgeID, bobSide[0].EdgeID)

	// aceitar de novo é conflito, não duplicação
	_, err = AcceptFriendRequest(db, req.ID)
	assert.Equal(t, ErrInvalidState, err)
	aliceSide, _ = ListFriends(db, alice.ID)
	assert.Len(t, aliceSide, 1)
}

func TestDeclineAndCancelAreTerminal(t *testing.T) {
	db := testDB(t)

	alice := makeUser(t, db, "Alice", "+14155550001")
	bob := makeUser(t, db, "Bob", "+14155550002")

	req, err := CreateFriendRequest(db, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, DeclineFriendRequest(db, req.ID))
	assert.Equal(t, ErrInvalidState, CancelFriendRequest(db, req.ID))

	// recusado não bloqueia um request novo
	req2, err := CreateFriendRequest(db, bob.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, CancelFriendRequest(db, req2.ID))
	assert.Equal(t, ErrInvalidState, DeclineFriendRequest(db, req2.ID))

	assert.Equal(t, ErrNotFound, DeclineFriendRequest(db, 9999))
}

func TestRemoveFriendDeletesBothSides(t *testing.T) {
	db := testDB(t)

	alice := makeUser(t, db, "Alice", "+14155550001")
	bob := makeUser(t, db, "Bob", "+14155550002")

	req, err := CreateFriendRequest(db, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = AcceptFriendRequest(db, req.ID)
	require.NoError(t, err)

	require.NoError(t, RemoveFriend(db, bob.ID, alice.ID))

	aliceSide, _ := ListFriends(db, alice.ID)
	bobSide, _ := ListFriends(db, bob.ID)
	assert.Empty(t, aliceSide)
	assert.Empty(t, bobSide)

	assert.Equal(t, ErrNotFound, RemoveFriend(db, bob.ID, alice.ID))
}
