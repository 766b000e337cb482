package bridge

import (
	"errors"
	"io"
	"log"
	"strings"
	"sync/atomic"

	"github.com/elmarx/slog-kickstarter/core"
	"github.com/elmarx/slog-kickstarter/handler"
)

// ErrAlreadyInstalled is returned by Install while a previous
// installation's guard is still live. The first installation keeps
// the output stream; a silent replace would leave two competing
// consumers.
var ErrAlreadyInstalled = errors.New("bridge: stdlog forwarding already installed")

// installed is the process-wide installation slot, guarded by an
// atomic install-once flag instead of implicit global mutation.
var installed atomic.Bool

// Guard represents a live installation of the stdlog bridge. Hold it
// for as long as forwarding is required; Release restores the
// previous stdlog configuration and frees the slot for a fresh
// installation.
type Guard struct {
	released   atomic.Bool
	prevOut    io.Writer
	prevFlags  int
	prevPrefix string
}

// Install redirects the standard library's log package into the
// given drain. Lines written through log.Print and friends become
// Info-level entries with module origin "log". At most one
// installation can be live per process.
func Install(drain handler.Handler) (*Guard, error) {
	if !installed.CompareAndSwap(false, true) {
		return nil, ErrAlreadyInstalled
	}

	g := &Guard{
		prevOut:    log.Writer(),
		prevFlags:  log.Flags(),
		prevPrefix: log.Prefix(),
	}

	// The drain renders its own timestamp and metadata.
	log.SetFlags(0)
	log.SetPrefix("")
	log.SetOutput(&forwarder{drain: drain})

	return g, nil
}

// Release uninstalls the forwarding, restoring the stdlog
// configuration that was active before Install. Releasing twice is a
// no-op.
func (g *Guard) Release() {
	if !g.released.CompareAndSwap(false, true) {
		return
	}
	log.SetOutput(g.prevOut)
	log.SetFlags(g.prevFlags)
	log.SetPrefix(g.prevPrefix)
	installed.Store(false)
}

// Close releases the guard. It implements io.Closer so a guard can
// sit in a defer chain alongside other resources.
func (g *Guard) Close() error {
	g.Release()
	return nil
}

// forwarder translates each line written by the log package into one
// entry pushed into the drain.
type forwarder struct {
	drain handler.Handler
}

func (f *forwarder) Write(p []byte) (int, error) {
	entry := core.GetEntry()
	entry.Level = core.InfoLevel
	entry.Message = strings.TrimRight(string(p), "\n")
	entry.Module = "log"

	err := f.drain.Handle(entry)
	if err == nil {
		if rc, ok := f.drain.(handler.EntryRecycler); ok && rc.CanRecycleEntry() {
			core.PutEntry(entry)
		}
	}

	// Emission failures never propagate to stdlog call sites.
	return len(p), nil
}
