// Package log provides centralised audit logging for relate operations.
// Logs are stored in ~/.relate/log/relate-log.db and track all CLI commands
// and MCP tool invocations across projects.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("ref:link", "link").
//		Author(cmd.Author()).
//		Path(source).
//		Target(target).
//		Ruleset(ruleset).
//		Write(err)
//
//	log.Event("vocab:candidates", "search").
//		Author(cmd.Author()).
//		Path(source).
//		Detail("count", len(results)).
//		Write(err)
//
// The source parameter follows the format "{extension}:{command}" for CLI
// commands or "mcp:{tool}" for MCP tools. Examples: "ref:link",
// "rule:add", "mcp:check".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source  string // e.g., "ref:link", "mcp:check"
	Author  string // who performed the action
	Action  string // verb: link, unlink, check, list, etc.
	Path    string // input: object path (reference source for link operations)
	Target  string // input: reference target path, empty for single-object operations
	Ruleset string // input: governing ruleset, empty when not applicable

	// Timing
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API.
// Create with [Event], chain methods to set fields, then call [Builder.Write]
// to write the entry.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
//
// The source identifies where the operation originated:
//   - CLI commands: "{extension}:{command}" (e.g., "ref:link", "rule:add")
//   - MCP tools: "mcp:{tool}" (e.g., "mcp:link", "mcp:check")
//
// The action describes what operation was performed:
//   - "link", "unlink", "check", "list", "search", "add", "remove", etc.
//
// Example:
//
//	log.Event("ref:link", "link").
//		Author(cmd.Author()).
//		Path(source).
//		Write(err)
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Author sets who performed the operation.
//
// For CLI commands, use cmd.Author() which returns the configured author.
// For MCP tools, use "mcp" as the author.
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// Path sets the object path this operation affects. For reference
// operations this is the source endpoint.
//
// Leave unset for operations that don't target objects (e.g., config).
func (b *Builder) Path(path string) *Builder {
	b.entry.Path = path
	return b
}

// Target sets the reference target path for link/unlink/check operations.
func (b *Builder) Target(path string) *Builder {
	b.entry.Target = path
	return b
}

// Ruleset sets the governing ruleset for this operation.
func (b *Builder) Ruleset(name string) *Builder {
	b.entry.Ruleset = name
	return b
}

// Detail adds a key-value pair to the log entry's detail map.
//
// Use for operation-specific data that doesn't fit standard fields:
// search terms, result counts, rule names, etc.
// Can be called multiple times to add multiple details.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure from err.
//
// If err is nil, the entry is logged as successful.
// If err is non-nil, the entry is logged as failed with the error message.
//
// This is the standard way to complete a log entry after an operation:
//
//	id, err := svc.Connect(ctx, ruleset, source, target)
//	log.Event("ref:link", "link").Path(source).Target(target).Write(err)
//	if err != nil {
//		return err
//	}
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort logging).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent log entries.
// The dir should be the absolute path to the .relate directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Log writes an entry. Safe to call if logger not initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
