package db

import "errors"

var (
	// ErrKeyNotFound is returned by Get for a missing key.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrIndexNotFound is returned when FT commands name an absent index.
	ErrIndexNotFound = errors.New("db: index not found")
	// ErrIndexExists is returned by CreateIndex when the index is already defined.
	ErrIndexExists = errors.New("db: index already exists")
	// ErrInvalidIndex marks an IndexDefinition rejected before FT.CREATE.
	ErrInvalidIndex = errors.New("db: invalid index definition")
)

// Command names recorded in Error.Op.
const (
	OpPing        = "PING"
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpAggregate   = "FT.AGGREGATE"
	OpHSet        = "HSET"
	OpGet         = "GET"
	OpSet         = "SET"
)

// Error is a failed server round-trip, tagged with the command that failed.
// Callers map any *Error to "store unavailable"; sentinels above are not wrapped in it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
