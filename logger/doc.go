// Package logger provides the Logger handle emitted records flow
// through.
//
// A Logger is immutable after construction: the static fields, the
// pre-filter level, and the drain are set once via the Builder and
// never modified. This makes Logger inherently safe for concurrent
// use without any locking on the read path.
//
// Child loggers with extra fields are created via With, which
// returns a new Logger that shares the same drain pipeline but
// carries additional static fields:
//
//	reqLog := log.With(logger.String("request_id", id))
//
// Level checks against the pre-filter happen before any allocation,
// so records that no module could retain cost only a single integer
// comparison. Exact per-module thresholds are enforced downstream by
// the drain's level filter, keyed on the record's module origin,
// which the logger resolves per record through the runtime.
//
// Emitting a record never returns an error: drain failures are
// absorbed inside the pipeline and must not fail application logic.
package logger
