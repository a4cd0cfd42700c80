package ui

import "github.com/bamsammich/dupes/internal/event"

// Event is re-exported so presenters read without the package prefix.
type Event = event.Event

const (
	WalkStarted   = event.WalkStarted
	WalkFailed    = event.WalkFailed
	DirFailed     = event.DirFailed
	WalkComplete  = event.WalkComplete
	SizesPruned   = event.SizesPruned
	PrehashPruned = event.PrehashPruned
	HashStarted   = event.HashStarted
	FileHashed    = event.FileHashed
	HashFailed    = event.HashFailed
	HashesPruned  = event.HashesPruned
)
