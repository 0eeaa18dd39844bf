package progress

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	logs := NewProcessLogs()
	logs.now = func() time.Time { return time.Date(2022, 10, 5, 19, 53, 12, 0, time.UTC) }

	log := logs.Logger("tank/var/log")
	log.Printf("start")
	log.Printf("hello %s", "world")

	entries := logs.GetLogs()
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d; want 2", len(entries))
	}
	if entries[1].Log != "hello world" {
		t.Errorf("entries[1].Log = %q; want %q", entries[1].Log, "hello world")
	}

	expected := "2022-10-05T19:53:12Z start\n2022-10-05T19:53:12Z hello world\n"
	if got := logs.String(); got != expected {
		t.Errorf("String() = %q; want %q", got, expected)
	}
}

func TestProgress_Concurrent(t *testing.T) {
	logs := NewProcessLogs()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				logs.Log("worker %d", i)
			}
		}()
	}
	wg.Wait()

	if n := len(logs.GetLogs()); n != 80 {
		t.Errorf("len(logs) = %d; want 80", n)
	}
	if n := strings.Count(logs.String(), "\n"); n != 80 {
		t.Errorf("String() has %d lines; want 80", n)
	}
}
