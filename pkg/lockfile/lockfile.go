// Package lockfile wraps advisory file locking for the registry and the
// manifest store. Locks are cross-process: two concurrent pwa-forge
// invocations serialize on the same lock file.
package lockfile

import (
	"context"
	"time"

	"github.com/gofrs/flock"

	"github.com/pwa-forge/pwa-forge/pkg/errors"
)

// DefaultTimeout bounds how long a caller waits for a contended lock
const DefaultTimeout = 10 * time.Second

// retryInterval is the poll interval while waiting for a contended lock
const retryInterval = 100 * time.Millisecond

// Acquire takes an exclusive advisory lock on path, waiting up to
// timeout. It returns a release function, or ErrRegistryBusy when the
// lock cannot be acquired in time.
func Acquire(path string, timeout time.Duration) (func() error, error) {
	lock := flock.New(path)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ok, err := lock.TryLockContext(ctx, retryInterval)
	if err != nil && ctx.Err() == nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to acquire lock %s", path)
	}
	if !ok {
		return nil, errors.Newf(errors.ErrRegistryBusy,
			"could not acquire lock %s within %s: another pwa-forge invocation is running", path, timeout)
	}
	return lock.Unlock, nil
}
