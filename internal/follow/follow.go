// Package follow streams the lines of a file as it grows.
package follow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/charmbracelet/vscroll/internal/log"
	"github.com/nxadm/tail"
)

// Line is a single line read from the followed file.
type Line struct {
	N    int
	Text string
}

type Options struct {
	// Follow keeps reading after EOF.
	Follow bool
	// FromEnd skips content already in the file.
	FromEnd bool
	// Poll uses polling instead of inotify.
	Poll bool
}

// Follower reads a file line by line on its own goroutine.
type Follower struct {
	path   string
	t      *tail.Tail
	lines  chan Line
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	errMu sync.Mutex
	err   error
}

// Start begins following path. The returned follower stops when ctx is
// cancelled or Stop is called; Lines is closed afterwards.
func Start(ctx context.Context, path string, opts Options) (*Follower, error) {
	cfg := tail.Config{
		Follow:    opts.Follow,
		ReOpen:    opts.Follow,
		MustExist: true,
		Poll:      opts.Poll,
		Logger:    tail.DiscardingLogger,
	}
	if opts.FromEnd {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}
	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to follow %s: %w", path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	f := &Follower{
		path:   path,
		t:      t,
		lines:  make(chan Line, 64),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go f.run(ctx)
	return f, nil
}

func (f *Follower) run(ctx context.Context) {
	defer log.RecoverPanic("follow", nil)
	defer close(f.done)
	defer close(f.lines)

	n := 0
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-f.t.Lines:
			if !ok {
				if err := f.t.Wait(); err != nil {
					f.setErr(err)
				}
				return
			}
			if line.Err != nil {
				slog.Warn("Failed to read line", "path", f.path, "error", line.Err)
				continue
			}
			n++
			select {
			case f.lines <- Line{N: n, Text: line.Text}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Lines returns the channel of lines read so far.
func (f *Follower) Lines() <-chan Line {
	return f.lines
}

// Err reports why the follower stopped on its own, if it did.
func (f *Follower) Err() error {
	f.errMu.Lock()
	defer f.errMu.Unlock()
	return f.err
}

func (f *Follower) setErr(err error) {
	f.errMu.Lock()
	defer f.errMu.Unlock()
	f.err = err
}

// Stop ends following and waits for the reader goroutine to exit.
func (f *Follower) Stop() {
	f.once.Do(func() {
		f.cancel()
		<-f.done
		if err := f.t.Stop(); err != nil {
			slog.Debug("Failed to stop tail", "path", f.path, "error", err)
		}
		f.t.Cleanup()
	})
}
