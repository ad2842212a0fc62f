package store

import "errors"

var (
	// ErrAlreadyExists: colisão de id na criação (não deveria acontecer com uuid).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNoTransition: o guard otimista não casou (outro lado venceu a corrida).
	// Para o chamador isso é um no-op, não uma falha.
	ErrNoTransition = errors.New("no transition: status guard did not match")

	// ErrInvalidState: operação só permitida em status pending.
	ErrInvalidState = errors.New("invalid state for operation")

	ErrNotFound = errors.New("not found")

	ErrInvalidDeadline = errors.New("escalation time before trigger time")

	ErrAlreadyFriends = errors.New("users are already friends")

	ErrRequestInFlight = errors.New("a pending friend request already exists between these users")

	ErrSelfRequest = errors.New("cannot send a friend request to yourself")
)
