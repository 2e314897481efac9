package app

import (
	"errors"
	"fmt"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run writes to the same output.
var ErrLocked = errors.New("output is locked by another run")

// lockOutput takes an exclusive lock on path+".lock" and returns its release.
func lockOutput(path string) (func(), error) {
	fl := flock.New(path + ".lock")
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, fl.Path())
	}
	return func() { _ = fl.Unlock() }, nil
}
