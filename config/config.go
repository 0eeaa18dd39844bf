package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"monks.co/zreplicate/model"
	"monks.co/zreplicate/set"
)

type Config struct {
	BackupPool string   `toml:"backup_pool"`
	Label      string   `toml:"label"`
	Datasets   []string `toml:"datasets"`

	LogFile   string `toml:"log_file"`
	HistoryDB string `toml:"history_db"`
	SnitchID  string `toml:"snitch_id"`
}

var pathHierarchy = []string{
	"/etc/zreplicate.toml",
	"/usr/local/etc/zreplicate.toml",
	"/opt/local/etc/zreplicate.toml",
}

// Load reads the config at path. With an empty path it reads the first
// file that exists in the search path, or returns an empty Config if
// none do.
func Load(path string) (*Config, error) {
	if path != "" {
		return load(path)
	}

	for _, path := range pathHierarchy {
		conf, err := load(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		return conf, nil
	}

	return &Config{}, nil
}

func load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var conf Config
	if _, err := toml.NewDecoder(f).Decode(&conf); err != nil {
		return nil, fmt.Errorf("decoding '%s': %w", path, err)
	}
	return &conf, nil
}

// Override replaces the replication target with positional arguments:
// backup pool, label, then one or more datasets.
func (conf *Config) Override(args []string) error {
	switch {
	case len(args) == 0:
		return nil
	case len(args) < 3:
		return fmt.Errorf("expected <backup-pool> <label> <dataset>..., got %d arguments", len(args))
	}
	conf.BackupPool = args[0]
	conf.Label = args[1]
	conf.Datasets = args[2:]
	return nil
}

func (conf *Config) Validate() error {
	var errs []error
	if conf.BackupPool == "" {
		errs = append(errs, errors.New("no backup pool"))
	}
	if conf.Label == "" {
		errs = append(errs, errors.New("no label"))
	}
	if len(conf.Datasets) == 0 {
		errs = append(errs, errors.New("no source datasets"))
	}
	seen := set.New[string]()
	for _, ds := range conf.Datasets {
		switch {
		case ds == "":
			errs = append(errs, errors.New("empty source dataset"))
		case seen.Has(ds):
			errs = append(errs, fmt.Errorf("source dataset '%s' listed more than once", ds))
		}
		seen.Add(ds)
	}
	return errors.Join(errs...)
}

func (conf *Config) SourceDatasets() []model.DatasetName {
	out := make([]model.DatasetName, len(conf.Datasets))
	for i, ds := range conf.Datasets {
		out[i] = model.DatasetName(ds)
	}
	return out
}
