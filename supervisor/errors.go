package supervisor

import (
	"errors"
)

var (
	// ErrDrainerRunning is returned by [Drainer.Run] if it is already running.
	ErrDrainerRunning = errors.New("supervisor: drainer is already running")

	// ErrInvalidCommand is returned (wrapped) by [ParseCommand].
	ErrInvalidCommand = errors.New("supervisor: invalid command")

	// ErrInvalidOption is returned (wrapped) by [NewDrainer].
	ErrInvalidOption = errors.New("supervisor: invalid option")
)
