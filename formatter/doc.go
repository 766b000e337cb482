// Package formatter defines how log entries are serialized into bytes.
//
// It exposes two interfaces: Formatter, which returns a []byte, and
// WriterFormatter, which writes directly to an io.Writer. Drains
// check for WriterFormatter at construction time and prefer it when
// available, eliminating the intermediate byte slice allocation on
// the write path.
//
// Both built-in formatters implement both interfaces. They use a
// pooled bytes.Buffer internally and rely on Go's Append-style
// functions (time.AppendFormat, strconv.AppendInt) to avoid per-call
// allocations.
//
// JSONFormatter emits one self-contained object per entry with the
// fixed keys "@timestamp" (local time, seconds precision),
// "loglevel", "msg", and "module", plus every attached field merged
// at the top level. The encoder is hand-rolled for the fixed-shape
// field types; only arbitrary Any values go through goccy/go-json.
//
// TermFormatter emits one compact human-readable line with fields as
// key=value pairs. Level tags are pre-rendered at construction time,
// optionally with ANSI styling; use SupportsColor to decide whether
// the target stream can render it.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
