package env

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"monks.co/zreplicate/logger"
	"monks.co/zreplicate/model"
)

var _ System = &ZFS{}

// ZFS is the System backed by the zfs and zpool commands.
type ZFS struct {
	x Executor

	// pipe and command are swapped out in tests.
	pipe    func(ctx context.Context, logger logger.Logger, from, to *exec.Cmd) error
	command func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func NewZFS(x Executor) *ZFS {
	return &ZFS{
		x:       x,
		pipe:    Pipe,
		command: exec.CommandContext,
	}
}

func (zfs *ZFS) ListSnapshots(ctx context.Context, logger logger.Logger) ([]string, error) {
	names, err := zfs.x.Execf(ctx, logger, "zfs list -H -t snapshot -o name -s name")
	if err != nil {
		return nil, fmt.Errorf("zfs list: %w", err)
	}
	return names, nil
}

// IsPoolImported runs `zpool status`. A non-zero exit means the pool
// isn't imported; failing to run zpool at all is an error.
func (zfs *ZFS) IsPoolImported(ctx context.Context, logger logger.Logger, pool string) (bool, error) {
	_, err := zfs.x.Exec(ctx, logger, "zpool", "status", pool)
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true, nil
	case ctx.Err() != nil:
		// zpool was killed, which also looks like an exit error.
		return false, fmt.Errorf("zpool status: %w", context.Cause(ctx))
	case errors.As(err, &exitErr):
		return false, nil
	default:
		return false, fmt.Errorf("zpool status: %w", err)
	}
}

func (zfs *ZFS) CreateDatasetTree(ctx context.Context, logger logger.Logger, dataset model.DatasetName) error {
	if _, err := zfs.x.Exec(ctx, logger, "zfs", "create", "-p", dataset.Path()); err != nil {
		return fmt.Errorf("creating dataset hierarchy '%s': %w", dataset, err)
	}
	return nil
}

func (zfs *ZFS) SendFull(ctx context.Context, logger logger.Logger, snapshot model.Snapshot, destination model.DatasetName) error {
	send := zfs.command(ctx, "zfs", "send", "-p", snapshot.Name)
	recv := zfs.command(ctx, "zfs", "recv", "-vF", destination.Path())

	if err := zfs.pipe(ctx, logger, send, recv); err != nil {
		return fmt.Errorf("sending %s to '%s': %w", snapshot, destination, err)
	}
	return nil
}

func (zfs *ZFS) SendIncremental(ctx context.Context, logger logger.Logger, from, to model.Snapshot, destination model.DatasetName) error {
	send := zfs.command(ctx, "zfs", "send", "-i", from.Name, to.Name)
	recv := zfs.command(ctx, "zfs", "recv", "-vF", destination.Path())

	if err := zfs.pipe(ctx, logger, send, recv); err != nil {
		return fmt.Errorf("sending %s..%s to '%s': %w", from, to, destination, err)
	}
	return nil
}
