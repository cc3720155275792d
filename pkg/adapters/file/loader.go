package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/stanza/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

const (
	chainPrefix = "chain_"
	chainSuffix = ".json"
)

// ChainFile returns the file name holding chain id.
func ChainFile(id string) string {
	return chainPrefix + id + chainSuffix
}

// chainID extracts the chain ID from a file name, if it names a chain.
func chainID(name string) (string, bool) {
	if !strings.HasPrefix(name, chainPrefix) || !strings.HasSuffix(name, chainSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, chainPrefix), chainSuffix)
	return id, id != ""
}

// Loader implements ports.ChainLoader and ports.Watchable over a directory of
// "chain_<id>.json" files.
type Loader struct {
	Dir string
}

// NewLoader creates a Loader reading from dir.
func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// LoadChain reads the document of chain id.
func (l *Loader) LoadChain(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("%w: invalid id %q", domain.ErrChainNotFound, id)
	}

	data, err := os.ReadFile(filepath.Join(l.Dir, ChainFile(id)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrChainNotFound, id)
		}
		return nil, fmt.Errorf("failed to read chain %s: %w", id, err)
	}
	return data, nil
}

// ListChains returns the IDs of every chain file in the directory.
func (l *Loader) ListChains(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}

	ids := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if id, ok := chainID(e.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Watch signals whenever a chain file is written, created, renamed or removed.
// Bursts of events collapse into a single pending signal.
// The channel is closed when ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory rather than single files: editors replace files atomically.
	if err := w.Add(l.Dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.Dir, err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if _, isChain := chainID(filepath.Base(ev.Name)); !isChain {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}
