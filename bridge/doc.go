// Package bridge forwards the standard library's log package into a
// kickstarter drain, so legacy code that knows nothing about
// structured logging still ends up in the same output pipeline.
//
// Installation is process-wide and guarded by an atomic install-once
// flag: a second Install while a guard is live returns
// ErrAlreadyInstalled rather than silently replacing the first.
// Releasing the guard restores the previous stdlog output, flags,
// and prefix, and frees the slot for a fresh installation.
package bridge
