package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"monks.co/zreplicate/db"
	"monks.co/zreplicate/env"
)

func execute(t *testing.T, sys env.System, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(sys)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_TooFewArgs(t *testing.T) {
	sys := &env.Fake{}
	if _, err := execute(t, sys, "--config", "/nonexistent/zreplicate.toml", "backup", "TEST"); err == nil {
		t.Errorf("Expected an error for a missing config file")
	}

	emptyConfig := filepath.Join(t.TempDir(), "zreplicate.toml")
	writeFile(t, emptyConfig, "")
	_, err := execute(t, sys, "--config", emptyConfig, "backup", "TEST")
	if err == nil || !strings.Contains(err.Error(), "got 2 arguments") {
		t.Errorf("Expected an argument count error, got %v", err)
	}
	if len(sys.Calls) != 0 {
		t.Errorf("Expected no system calls, got %v", sys.Calls)
	}
}

func TestRootCmd_DryRun(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "zreplicate.toml")
	writeFile(t, conf, "")

	sys := &env.Fake{Snapshots: listing, Pools: []string{"backup", "tank"}}
	if _, err := execute(t, sys, "--config", conf, "-n", "backup", "TEST", "tank/a", "tank/b"); err != nil {
		t.Fatal(err)
	}
	for _, call := range sys.Calls {
		if strings.HasPrefix(call, "create") || strings.HasPrefix(call, "full") || strings.HasPrefix(call, "incremental") {
			t.Errorf("Expected no transfers on a dry run, got %q", call)
		}
	}
}

func TestHistoryCmd(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "history.db")
	conf := filepath.Join(dir, "zreplicate.toml")
	writeFile(t, conf, `history_db = "`+dbPath+`"`)

	history, err := db.Open(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := history.Record(ctx, db.Outcome{
		RunAt:      time.Now(),
		Dataset:    "tank/a",
		BackupPool: "backup",
		Label:      "TEST",
		Action:     "transfer full tank/a@2022-10-05-1953-12-TEST into backup/tank/a",
		Status:     db.StatusOK,
		DryRun:     true,
	}); err != nil {
		t.Fatal(err)
	}
	history.Close()

	out, err := execute(t, &env.Fake{}, "history", "--config", conf, "tank/a")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"DATASET", "tank/a", "ok (dry run)", "transfer full"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
