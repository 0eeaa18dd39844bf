package model

// Plan decides what to do with one reconciled dataset. Exactly one
// action is returned for every reconciliation.
func Plan(rec *Reconciliation) Action {
	latest, err := rec.Latest()
	if err != nil {
		return &NoSourceSnapshots{Source: rec.Source, Label: rec.Label}
	}

	destination := rec.BackupDataset()

	if common := rec.CommonAncestor; common != nil {
		if common.Eq(latest) {
			return &UpToDate{Latest: latest}
		}
		return &IncrementalTransfer{
			From:        *common,
			To:          latest,
			Destination: destination,
		}
	}

	// Without a common snapshot, a full send would overwrite whatever is
	// already there.
	if n := rec.BackupAnyLabel.Len(); n > 0 {
		return &ConflictSkip{Destination: destination, ExistingCount: n}
	}

	return &FullTransfer{Snapshot: latest, Destination: destination}
}
