package domain

import "errors"

// User directory errors
var (
	ErrDuplicateUser      = errors.New("user already exists")
	ErrUnknownUser        = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Session registry errors
var (
	ErrUnknownSession    = errors.New("session not found")
	ErrInconsistentState = errors.New("session references a missing user")
)

// Storage errors
var (
	ErrStorageIO  = errors.New("storage i/o error")
	ErrKeyExists  = errors.New("key already exists")
	ErrKeyMissing = errors.New("key not found")
)

// Weather provider errors
var (
	ErrLocationNotFound = errors.New("city not found")
	ErrExternalProvider = errors.New("weather provider failure")
)
