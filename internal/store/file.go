package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileStore keeps every key in a single JSON document on disk. Writes go to a
// temporary file that is renamed over the original.
type FileStore struct {
	savePath  string
	logger    *zap.Logger
	stateLock sync.RWMutex
	data      map[string]string
	recovered string
}

// NewFileStore opens the document at savePath, creating its directory if
// needed. An unreadable document is moved aside and the store starts empty.
func NewFileStore(savePath string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if savePath == "" {
		savePath = "./data/game_state.json"
	}
	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	fs := &FileStore{
		savePath: savePath,
		logger:   logger,
		data:     make(map[string]string),
	}

	raw, err := os.ReadFile(savePath)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %w", err)
	}
	if len(raw) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		if err := fs.moveAside(err); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// moveAside renames a document that does not parse to <path>.<unix>.corrupt
func (fs *FileStore) moveAside(cause error) error {
	target := fmt.Sprintf("%s.%d.corrupt", fs.savePath, time.Now().Unix())
	if err := os.Rename(fs.savePath, target); err != nil {
		return fmt.Errorf("failed to move corrupt game state aside: %w", err)
	}
	fs.data = make(map[string]string)
	fs.recovered = target
	fs.logger.Warn("Corrupt game state moved aside, starting empty",
		zap.String("path", fs.savePath),
		zap.String("moved_to", target),
		zap.Error(cause))
	return nil
}

// Recovered returns where an unreadable document was moved, or ""
func (fs *FileStore) Recovered() string {
	return fs.recovered
}

func (fs *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	fs.stateLock.RLock()
	defer fs.stateLock.RUnlock()

	v, ok := fs.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (fs *FileStore) PutAll(_ context.Context, entries map[string][]byte) error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	next := make(map[string]string, len(fs.data)+len(entries))
	for k, v := range fs.data {
		next[k] = v
	}
	for k, v := range entries {
		next[k] = string(v)
	}
	if err := fs.write(next); err != nil {
		return err
	}
	fs.data = next
	return nil
}

func (fs *FileStore) Delete(_ context.Context, keys ...string) error {
	fs.stateLock.Lock()
	defer fs.stateLock.Unlock()

	next := make(map[string]string, len(fs.data))
	for k, v := range fs.data {
		next[k] = v
	}
	for _, k := range keys {
		delete(next, k)
	}
	if err := fs.write(next); err != nil {
		return err
	}
	fs.data = next
	return nil
}

func (fs *FileStore) Close() error {
	return nil
}

func (fs *FileStore) write(data map[string]string) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game state: %w", err)
	}

	tmp := fs.savePath + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return fmt.Errorf("failed to write game state: %w", err)
	}
	if err := os.Rename(tmp, fs.savePath); err != nil {
		return fmt.Errorf("failed to replace game state: %w", err)
	}
	return nil
}
