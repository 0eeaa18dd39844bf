package model

import "errors"

var (
	// ErrEmptySourceSet is returned when asking for the latest snapshot
	// of a dataset that has no snapshots with the requested label.
	ErrEmptySourceSet = errors.New("no source snapshots with the given dataset and label")

	ErrPoolNotImported        = errors.New("pool is not imported")
	ErrSourcePoolIsBackupPool = errors.New("source datasets must live outside of the backup pool")
)
