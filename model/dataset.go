package model

import (
	"slices"
	"strings"

	"monks.co/zreplicate/set"
)

type DatasetName string

func (dn DatasetName) String() string {
	return string(dn)
}

func (dn DatasetName) Path() string {
	return string(dn)
}

// Pool is the first path component, eg "tank" for "tank/var/log".
func (dn DatasetName) Pool() string {
	pool, _, _ := strings.Cut(string(dn), "/")
	return pool
}

// SourcePools returns the distinct pools of the given datasets, sorted.
func SourcePools(datasets []DatasetName) []string {
	pools := set.New[string]()
	for _, ds := range datasets {
		pools.Add(ds.Pool())
	}
	out := pools.Keys()
	slices.Sort(out)
	return out
}

// Coordinates identify one replication: a source dataset, the pool it
// is backed up into, and the label that selects its snapshots.
type Coordinates struct {
	BackupPool string
	Source     DatasetName
	Label      string
}

// BackupDataset is where Source lives once received into BackupPool.
func (c Coordinates) BackupDataset() DatasetName {
	return DatasetName(c.BackupPool + "/" + c.Source.Path())
}
