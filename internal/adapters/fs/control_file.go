package fs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/lifebind/pkg/lifecycle"
	"github.com/bft-labs/lifebind/pkg/log"
)

// ControlFile drives an owner from lifecycle event names appended to a file,
// one per line. Blank lines and lines starting with '#' are ignored. Lines
// that do not name an event are logged and skipped.
type ControlFile struct {
	path   string
	logger log.Logger

	offset  int64
	partial []byte
}

// NewControlFile creates a driver tailing path.
func NewControlFile(path string, logger log.Logger) *ControlFile {
	return &ControlFile{path: path, logger: log.OrNoop(logger)}
}

// Name returns the driver identifier.
func (c *ControlFile) Name() string {
	return "control-file"
}

// Drive replays the lines already in the file and then follows appends until
// ctx is canceled or handle returns an error. The file's directory is retried
// with backoff until it exists.
func (c *ControlFile) Drive(ctx context.Context, handle func(lifecycle.Event) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(c.path)
	retry := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)
	for {
		if err := watcher.Add(dir); err == nil {
			break
		}
		c.logger.Warn("control file directory unavailable, retrying",
			log.String("dir", dir),
			log.Duration("backoff", retry.Current()),
		)
		if err := retry.Wait(ctx); err != nil {
			return nil
		}
	}

	c.logger.Info("following control file", log.String("path", c.path))
	if err := c.consume(handle); err != nil {
		return err
	}

	name := filepath.Base(c.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				c.offset, c.partial = 0, nil
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := c.consume(handle); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("control file watcher error", log.Err(err))
		}
	}
}

// consume reads everything past the current offset and handles complete lines.
func (c *ControlFile) consume(handle func(lifecycle.Event) error) error {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open control file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat control file: %w", err)
	}
	if info.Size() < c.offset {
		c.logger.Info("control file truncated, rereading", log.String("path", c.path))
		c.offset, c.partial = 0, nil
	}
	if _, err := f.Seek(c.offset, io.SeekStart); err != nil {
		return fmt.Errorf("seek control file: %w", err)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read control file: %w", err)
	}
	c.offset += int64(len(data))

	buf := append(c.partial, data...)
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSpace(string(buf[:i]))
		buf = buf[i+1:]
		if err := c.handleLine(line, handle); err != nil {
			return err
		}
	}
	c.partial = append([]byte(nil), buf...)
	return nil
}

func (c *ControlFile) handleLine(line string, handle func(lifecycle.Event) error) error {
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	e, err := lifecycle.ParseEvent(line)
	if err != nil {
		c.logger.Warn("ignoring control line", log.String("line", line), log.Err(err))
		return nil
	}
	return handle(e)
}
