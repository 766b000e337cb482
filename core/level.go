package core

import "fmt"

// Level represents the severity of a log record
type Level int8

const (
	// TraceLevel for very fine-grained debugging information
	TraceLevel Level = iota
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages (default)
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
	// CriticalLevel for errors the process cannot recover from
	CriticalLevel
)

// NumLevels is the number of defined severity levels.
const NumLevels = int(CriticalLevel) + 1

// String returns the upper-case string representation of the level
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRIT"
	default:
		return "UNKNOWN"
	}
}

// LowerString returns the lower-case name used in structured output
func (l Level) LowerString() string {
	switch l {
	case TraceLevel:
		return "trace"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case CriticalLevel:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseLevel converts a level name to a Level. Matching is
// case-insensitive and accepts the common aliases "warning" and
// "crit". An unknown name is an error, not a silent fallback, so
// directive parsing can fail loudly at startup.
func ParseLevel(s string) (Level, error) {
	switch lowerASCII(s) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "critical", "crit":
		return CriticalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// lowerASCII avoids an allocation for the common case of an already
// lower-case level name.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
