package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	WalkStarted Type = iota + 1
	WalkFailed
	DirFailed
	WalkComplete
	SizesPruned
	PrehashPruned
	HashStarted
	FileHashed
	HashFailed
	HashesPruned
)

var typeNames = [...]string{
	WalkStarted:   "WalkStarted",
	WalkFailed:    "WalkFailed",
	DirFailed:     "DirFailed",
	WalkComplete:  "WalkComplete",
	SizesPruned:   "SizesPruned",
	PrehashPruned: "PrehashPruned",
	HashStarted:   "HashStarted",
	FileHashed:    "FileHashed",
	HashFailed:    "HashFailed",
	HashesPruned:  "HashesPruned",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Diagnostic reports whether events of this type describe a per-entry failure.
func (t Type) Diagnostic() bool {
	return t == WalkFailed || t == DirFailed || t == HashFailed
}

// Event represents a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string
	Size      int64 // file size (FileHashed) or bytes seen (WalkComplete)
	Count     int   // surviving buckets (pruning events) or files (WalkComplete, HashStarted)
	Digest    string
	Error     error
	WorkerID  int
}
