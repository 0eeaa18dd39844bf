package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"monks.co/zreplicate/model"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zreplicate.toml")
	contents := `
backup_pool = "backup"
label = "TEST"
datasets = ["tank/var/log", "tank/home"]
log_file = "/var/log/zreplicate.log"
history_db = "/var/db/zreplicate.db"
snitch_id = "abc123"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	conf, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := &Config{
		BackupPool: "backup",
		Label:      "TEST",
		Datasets:   []string{"tank/var/log", "tank/home"},
		LogFile:    "/var/log/zreplicate.log",
		HistoryDB:  "/var/db/zreplicate.db",
		SnitchID:   "abc123",
	}
	if diff := cmp.Diff(want, conf); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
	if err := conf.Validate(); err != nil {
		t.Errorf("Validate()=%v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Errorf("Expected an error for an explicit path that doesn't exist")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zreplicate.toml")
	if err := os.WriteFile(path, []byte("backup_pool = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Errorf("Expected a decoding error")
	}
}

func TestOverride(t *testing.T) {
	conf := &Config{BackupPool: "old", Label: "OLD", Datasets: []string{"old/ds"}, SnitchID: "keep"}

	if err := conf.Override(nil); err != nil {
		t.Fatal(err)
	}
	if conf.BackupPool != "old" {
		t.Errorf("Expected no arguments to leave the config alone")
	}

	if err := conf.Override([]string{"backup", "TEST"}); err == nil {
		t.Errorf("Expected an error for too few arguments")
	}

	if err := conf.Override([]string{"backup", "TEST", "tank/var/log", "tank/home"}); err != nil {
		t.Fatal(err)
	}
	want := &Config{
		BackupPool: "backup",
		Label:      "TEST",
		Datasets:   []string{"tank/var/log", "tank/home"},
		SnitchID:   "keep",
	}
	if diff := cmp.Diff(want, conf); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}

	wantDatasets := []model.DatasetName{"tank/var/log", "tank/home"}
	if diff := cmp.Diff(wantDatasets, conf.SourceDatasets()); diff != "" {
		t.Errorf("unexpected datasets (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Config{}).Validate(); err == nil {
		t.Errorf("Expected an empty config to be invalid")
	}
	if err := (&Config{BackupPool: "backup", Label: "TEST", Datasets: []string{""}}).Validate(); err == nil {
		t.Errorf("Expected an empty dataset to be invalid")
	}
	if err := (&Config{BackupPool: "backup", Label: "TEST", Datasets: []string{"tank/a", "tank/b", "tank/a"}}).Validate(); err == nil || !strings.Contains(err.Error(), "tank/a") {
		t.Errorf("Expected a repeated dataset to be invalid, got %v", err)
	}
	if err := (&Config{BackupPool: "backup", Label: "TEST", Datasets: []string{"tank/a", "tank/b"}}).Validate(); err != nil {
		t.Errorf("Expected a valid config, got %v", err)
	}
}
