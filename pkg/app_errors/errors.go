package apperrors

import "errors"

var (
	ErrEventNotFound = errors.New("event not found")
	ErrUserNotFound = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEventFull = errors.New("event is full")
	ErrEventEnded = errors.New("event has ended")
	ErrNotJoined = errors.New("user is not a participant")
	ErrForbidden = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
