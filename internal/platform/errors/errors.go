package apperrors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrSlotEmpty           = errors.New("state slot is empty")
	ErrStoreNotInitialized = errors.New("wizard store used before initialization")
	ErrSetupRequired       = errors.New("client setup is required first")
	ErrStepPrerequisite    = errors.New("step prerequisite not met")
	ErrAlreadyConnected    = errors.New("integration already connected")
)
