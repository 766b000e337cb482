// Package kickstarter easily sets up structured logging for a
// service process.
//
//   - enables JSON logging if GO_LOG_JSON=1 (set it for your
//     deployment, or put `ENV GO_LOG_JSON=1` into your Dockerfile)
//   - forwards the standard library's log package, so code using
//     log.Print can log through the same pipeline
//   - allows enabling debug logging for given modules (typically
//     your own packages)
//   - sets the default log level to Info
//   - supports runtime level directives via GO_LOG, e.g.
//     GO_LOG=debug or GO_LOG=github.com/acme/svc/db=trace
//
// Usage:
//
//	log, guard, err := kickstarter.New("service-name").
//	    WithDebugLogFor("github.com/acme/svc/worker").
//	    Build()
//	if err != nil {
//	    panic(err)
//	}
//	defer guard.Release()
//	defer log.Close()
//
//	log.Info("ready", logger.Int("port", 8080))
//
// Build wires the pipeline in a fixed order: an encoder drain owning
// stdout (JSON or terminal), wrapped by a per-module level filter,
// wrapped by an async boundary with a single consumer goroutine,
// topped by an immutable Logger that attaches the service's static
// context fields and resolves the emitting module per record.
package kickstarter
