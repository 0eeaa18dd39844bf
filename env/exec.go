package env

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
	"monks.co/zreplicate/logger"
)

const (
	throughputLogInterval = 60 * time.Second
)

type Executor interface {
	Exec(ctx context.Context, logger logger.Logger, cmd ...string) ([]string, error)
	Execf(ctx context.Context, logger logger.Logger, cmd string, args ...any) ([]string, error)
}

var _ Executor = LocalExecutor{}
var Local = LocalExecutor{}

type LocalExecutor struct{}

func (LocalExecutor) Exec(ctx context.Context, logger logger.Logger, args ...string) ([]string, error) {
	return Exec(ctx, logger, args...)
}

func (LocalExecutor) Execf(ctx context.Context, logger logger.Logger, s string, args ...any) ([]string, error) {
	return Execf(ctx, logger, s, args...)
}

// Exec runs a command and returns its combined output split into lines.
func Exec(ctx context.Context, logger logger.Logger, args ...string) ([]string, error) {
	name, args := args[0], args[1:]
	logger.Printf("%s %s", name, quoteArgs(args))
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		output := strings.Join(strings.Split(strings.TrimSpace(string(out)), "\n"), "; ")
		return nil, fmt.Errorf("running '%s': %w: %s", name, err, output)
	}
	return strings.Split(strings.TrimSpace(string(out)), "\n"), nil
}

func Execf(ctx context.Context, logger logger.Logger, s string, args ...any) ([]string, error) {
	return Exec(ctx, logger, strings.Fields(fmt.Sprintf(s, args...))...)
}

func quoteArgs(args []string) string {
	var arglog []string
	for _, arg := range args {
		if strings.Contains(arg, " ") {
			arglog = append(arglog, fmt.Sprintf(`"%s"`, arg))
		} else {
			arglog = append(arglog, arg)
		}
	}
	return strings.Join(arglog, " ")
}

// Pipe runs `from` and `to`, with `from`'s stdout piped into `to`'s stdin.
// A transfer can take hours; cancel ctx to kill both processes. While it
// runs, throughput is logged each minute.
func Pipe(ctx context.Context, logger logger.Logger, from, to *exec.Cmd) error {
	logger.Printf("%s | %s", strings.Join(from.Args, " "), strings.Join(to.Args, " "))

	throughputStat := NewThroughputStat(logger)
	defer throughputStat.Log()

	pr, pw := io.Pipe()
	from.Stdout = pw
	to.Stdin = io.TeeReader(pr, throughputStat)

	var fromOutput, toOutput bytes.Buffer
	from.Stderr = &fromOutput
	to.Stdout = &toOutput
	to.Stderr = &toOutput

	if err := to.Start(); err != nil {
		return fmt.Errorf("failed to start 'to' command: %w", err)
	}

	if err := from.Start(); err != nil {
		pr.Close()
		to.Process.Kill()
		to.Wait()
		return fmt.Errorf("failed to start 'from' command: %w", err)
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(throughputLogInterval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				throughputStat.Log()
			}
		}
	}()
	defer close(stop)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := from.Wait()
		// A nil error gives `to` a clean EOF.
		pw.CloseWithError(err)
		if err != nil {
			return fmt.Errorf("'from' command error: %w\n%s", err, fromOutput.String())
		}
		return nil
	})

	g.Go(func() error {
		err := to.Wait()
		if err != nil {
			// Nobody is reading any more; unblock and stop the sender.
			pr.CloseWithError(err)
			from.Process.Kill()
			return fmt.Errorf("'to' command error: %w\n%s", err, toOutput.String())
		}
		return nil
	})

	go func() {
		select {
		case <-ctx.Done():
			from.Process.Kill()
			to.Process.Kill()
		case <-stop:
		}
	}()

	if err := g.Wait(); err != nil {
		return fmt.Errorf("process error: %w", err)
	}

	return nil
}

// ThroughputStat stores throughput statistics over various intervals.
type ThroughputStat struct {
	mu         sync.Mutex
	logger     logger.Logger
	totalBytes int64
	dataPoints []dataPoint
}

// dataPoint stores the number of bytes written and the timestamp.
type dataPoint struct {
	bytes     int64
	timestamp time.Time
}

func NewThroughputStat(logger logger.Logger) *ThroughputStat {
	return &ThroughputStat{logger: logger}
}

func (s *ThroughputStat) Write(bs []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	bytes := int64(len(bs))
	s.totalBytes += bytes
	s.dataPoints = append(s.dataPoints, dataPoint{bytes: bytes, timestamp: now})

	// Drop data points older than an hour
	oneHourAgo := now.Add(-time.Hour)
	i := 0
	for _, point := range s.dataPoints {
		if point.timestamp.After(oneHourAgo) {
			break
		}
		i++
	}
	s.dataPoints = s.dataPoints[i:]

	return len(bs), nil
}

func (s *ThroughputStat) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalBytes
}

func (s *ThroughputStat) Log() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	minute := s.window(now, time.Minute)
	tenMinutes := s.window(now, 10*time.Minute)
	hour := s.window(now, time.Hour)

	s.logger.Printf("Throughput - Total: %s, Last minute: %s/sec, 10 mins: %s/sec, hour: %s/sec",
		humanize.Bytes(uint64(s.totalBytes)), minute, tenMinutes, hour)
}

// window returns the humanized rate over the trailing window. Rates are
// computed over the time since the first data point in the window, so a
// fresh transfer isn't diluted by the full window length.
func (s *ThroughputStat) window(now time.Time, size time.Duration) string {
	start := now.Add(-size)
	var bytes int64
	var first *time.Time
	for _, point := range s.dataPoints {
		if !point.timestamp.After(start) {
			continue
		}
		bytes += point.bytes
		if first == nil {
			first = &point.timestamp
		}
	}

	seconds := int64(size.Seconds())
	if first != nil {
		if elapsed := int64(now.Sub(*first).Seconds()); elapsed < seconds {
			seconds = elapsed
		}
	}
	return printThroughput(bytes, seconds)
}

func printThroughput(bytes, durationSeconds int64) string {
	if durationSeconds == 0 {
		return humanize.Bytes(uint64(bytes))
	}
	return humanize.Bytes(uint64(float64(bytes) / float64(durationSeconds)))
}
