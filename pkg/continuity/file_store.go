/*
Package continuity persists cognitive state snapshots to durable storage.
The engine only ever sees serialized copies; the file store never holds
live references into the belief store.
*/
package continuity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/theapemachine/mind-go/pkg/errors"
	"github.com/theapemachine/mind-go/pkg/mind"
)

/*
FileStore writes snapshots as pretty-printed JSON under
<dir>/mind.<agentID>.v3.json. Writes go through a temp file followed by a
rename so a crash can never leave a partial snapshot behind, and they are
retried with backoff because a transient write failure must not cost the
cycle its persistence.
*/
type FileStore struct {
	path  string
	retry *errors.RetryConfig
}

// NewFileStore builds a store rooted at dir for the given agent. A nil
// retry config falls back to the default (3 attempts, exponential).
func NewFileStore(dir, agentID string, retry *errors.RetryConfig) *FileStore {
	if retry == nil {
		retry = errors.DefaultRetryConfig()
	}

	return &FileStore{
		path:  filepath.Join(dir, fmt.Sprintf("mind.%s.v%d.json", agentID, mind.SnapshotVersion)),
		retry: retry,
	}
}

// Path returns the snapshot file location.
func (store *FileStore) Path() string { return store.path }

/*
Save atomically replaces the on-disk snapshot. On persistent failure the
previous snapshot stays authoritative and the error is returned for the
caller to log.
*/
func (store *FileStore) Save(ctx context.Context, snapshot *mind.Snapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.ErrSnapshotWrite.Wrap(err)
	}

	err = errors.RetryWithBackoff(store.retry, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return store.writeAtomic(data)
	})
	if err != nil {
		return errors.ErrSnapshotWrite.Wrap(err)
	}

	log.Debug("snapshot written", "path", store.path, "bytes", len(data))
	return nil
}

func (store *FileStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(store.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(store.path)+".tmp-*")
	if err != nil {
		return err
	}

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), store.path)
}

/*
Load reads the persisted snapshot. A missing file is a fresh start, not an
error: it returns (nil, nil).
*/
func (store *FileStore) Load(_ context.Context) (*mind.Snapshot, error) {
	data, err := os.ReadFile(store.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.ErrSnapshotRead.Wrap(err)
	}

	var snapshot mind.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.ErrSnapshotRead.Wrap(err)
	}

	return &snapshot, nil
}
