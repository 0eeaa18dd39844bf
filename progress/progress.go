package progress

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// ProcessLogs keeps the log lines of one dataset's run so they can be
// stored alongside its outcome. Transfers log throughput from their own
// goroutine, so it is safe for concurrent use.
type ProcessLogs struct {
	mu   sync.Mutex
	logs []LogEntry
	now  func() time.Time
}

type LogEntry struct {
	LogAt time.Time
	Log   string
}

func NewProcessLogs() *ProcessLogs {
	return &ProcessLogs{now: time.Now}
}

func (p *ProcessLogs) Log(s string, args ...any) {
	entry := LogEntry{
		LogAt: p.now(),
		Log:   fmt.Sprintf(s, args...),
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs = append(p.logs, entry)
}

// GetLogs returns a copy of the lines logged so far.
func (p *ProcessLogs) GetLogs() []LogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.logs)
}

func (p *ProcessLogs) String() string {
	var out strings.Builder
	for _, entry := range p.GetLogs() {
		fmt.Fprintf(&out, "%s %s\n", entry.LogAt.Format(time.RFC3339), entry.Log)
	}
	return out.String()
}
