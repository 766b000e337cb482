package core

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Entry represents a log record with all its metadata
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	// Module is the import path of the package that emitted the
	// record. It is resolved fresh for every record, never cached
	// across records.
	Module string
	Fields []Field
	Caller CallerInfo
}

// CallerInfo contains information about the emitting call site
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Module    string
	Defined   bool
}

// entryPool is a pool of Entry objects to reduce allocations
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{
			Fields: make([]Field, 0, 8), // Pre-allocate for 8 fields
		}
	},
}

// GetEntry retrieves an Entry from the pool
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	e.Fields = e.Fields[:0]
	e.Module = ""
	e.Caller = CallerInfo{}
	return e
}

// PutEntry returns an Entry to the pool
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	// Re-slice to zero length; GC handles reference cleanup
	e.Fields = e.Fields[:0]
	e.Message = ""
	e.Module = ""
	e.Caller = CallerInfo{}
	entryPool.Put(e)
}

// GetCaller retrieves caller information, including the import path
// of the calling package
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Module:    moduleOf(funcName),
		Defined:   true,
	}
}

// moduleOf extracts the package import path from a fully qualified
// function name as reported by runtime.FuncForPC, e.g.
// "github.com/acme/svc/internal/db.(*Store).Get" becomes
// "github.com/acme/svc/internal/db".
func moduleOf(funcName string) string {
	if funcName == "" {
		return ""
	}
	// Package path ends at the first dot after the last slash
	slash := strings.LastIndexByte(funcName, '/')
	dot := strings.IndexByte(funcName[slash+1:], '.')
	if dot < 0 {
		return funcName
	}
	return funcName[:slash+1+dot]
}
