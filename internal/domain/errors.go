package domain

import "errors"

var (
	// ErrBankNotFound is returned when the question bank source does not exist.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrBankInvalid is returned when the bank content is malformed or empty.
	ErrBankInvalid = errors.New("question bank invalid")
	// ErrInsufficientQuestions means the bank cannot fill a level without repeats.
	ErrInsufficientQuestions = errors.New("not enough questions in bank")
	// ErrNoSelection is returned when an answer is submitted without a label.
	ErrNoSelection = errors.New("no answer selected")
	// ErrInvalidLabel is returned for a label that is not one of the options.
	ErrInvalidLabel = errors.New("invalid answer label")
	// ErrLevelAlreadyComplete is returned when answering after the last question.
	ErrLevelAlreadyComplete = errors.New("level already complete")
	// ErrLevelNotComplete is returned when finishing a level that still has questions.
	ErrLevelNotComplete = errors.New("level not complete")
	// ErrLevelComplete signals that the level has no more questions and must be finished.
	ErrLevelComplete = errors.New("level complete")
	// ErrLevelNotStarted is returned when no level attempt is in progress.
	ErrLevelNotStarted = errors.New("level not started")
	// ErrLevelOutOfRange is returned for a level number outside the game.
	ErrLevelOutOfRange = errors.New("level out of range")
	// ErrSessionNotFound is returned when a player has no open session.
	ErrSessionNotFound = errors.New("game session not found")
)
