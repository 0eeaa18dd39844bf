package model

import (
	"fmt"
)

// Action is the planner's single decision for one dataset.
type Action interface {
	String() string

	// Transfers reports whether carrying out the action touches the
	// backup pool.
	Transfers() bool
}

var _ Action = &NoSourceSnapshots{}

type NoSourceSnapshots struct {
	Source DatasetName
	Label  string
}

func (op *NoSourceSnapshots) String() string {
	return fmt.Sprintf("skip %s: no snapshots labelled '%s'", op.Source, op.Label)
}

func (op *NoSourceSnapshots) Transfers() bool { return false }

var _ Action = &UpToDate{}

type UpToDate struct {
	Latest Snapshot
}

func (op *UpToDate) String() string {
	return fmt.Sprintf("up to date at %s", op.Latest)
}

func (op *UpToDate) Transfers() bool { return false }

var _ Action = &IncrementalTransfer{}

type IncrementalTransfer struct {
	From        Snapshot
	To          Snapshot
	Destination DatasetName
}

func (op *IncrementalTransfer) String() string {
	return fmt.Sprintf("transfer incremental %s -> %s into %s", op.From, op.To, op.Destination)
}

func (op *IncrementalTransfer) Transfers() bool { return true }

var _ Action = &FullTransfer{}

type FullTransfer struct {
	Snapshot    Snapshot
	Destination DatasetName
}

func (op *FullTransfer) String() string {
	return fmt.Sprintf("transfer full %s into %s", op.Snapshot, op.Destination)
}

func (op *FullTransfer) Transfers() bool { return true }

var _ Action = &ConflictSkip{}

// ConflictSkip refuses a full transfer into a backup dataset that
// already holds snapshots under some other label.
type ConflictSkip struct {
	Destination   DatasetName
	ExistingCount int
}

func (op *ConflictSkip) String() string {
	return fmt.Sprintf("skip: %s already contains (%d) snapshots under a different label", op.Destination, op.ExistingCount)
}

func (op *ConflictSkip) Transfers() bool { return false }
