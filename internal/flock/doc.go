// Package flock provides cross-platform advisory file locks.
//
// The build command holds an exclusive lock next to the fleet output directory
// for its whole run, so a second concurrent build fails fast instead of racing
// on cargo's target directory and the fleet registry:
//
//	lock, err := flock.Acquire(path)
//	if err != nil {
//	    return err // errors.Is(err, errors.ErrBuildLocked) when another build holds it
//	}
//	defer lock.Release()
package flock
