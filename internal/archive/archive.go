// Package archive writes point-in-time state snapshots to a blob store and
// restores them. Snapshots are JSON documents keyed by capture time, so a
// plain prefix listing doubles as a history.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"procuracore/internal/blob"
	"procuracore/internal/state"
)

const (
	// Prefix groups all snapshot blobs under one key namespace.
	Prefix = "snapshots/"

	contentType = "application/json"
	keyFormat   = "20060102T150405.000Z"
)

// Archiver couples a state store with a blob backend.
type Archiver struct {
	store state.Store
	blobs blob.Store
	nowFn func() time.Time
}

// New constructs an archiver over the given state store and blob backend.
func New(store state.Store, blobs blob.Store) *Archiver {
	return &Archiver{store: store, blobs: blobs, nowFn: time.Now}
}

// Export captures the current state and writes it as a new snapshot blob.
func (a *Archiver) Export(ctx context.Context) (blob.Info, error) {
	snap := a.store.Export()
	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode snapshot: %w", err)
	}
	key := Prefix + a.nowFn().UTC().Format(keyFormat) + ".json"
	info, err := a.blobs.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: contentType,
		Metadata:    map[string]string{"keys": fmt.Sprintf("%d", len(snap))},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("write snapshot %s: %w", key, err)
	}
	return info, nil
}

// List returns all stored snapshots sorted by key, which is capture order.
func (a *Archiver) List(ctx context.Context) ([]blob.Info, error) {
	return a.blobs.List(ctx, Prefix)
}

// Restore replaces the current state with the snapshot stored at key.
func (a *Archiver) Restore(ctx context.Context, key string) error {
	_, body, err := a.blobs.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", key, err)
	}
	defer func() { _ = body.Close() }()
	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read snapshot %s: %w", key, err)
	}
	var snap state.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return a.store.Import(snap)
}

// RestoreLatest restores the most recent snapshot and returns its key.
func (a *Archiver) RestoreLatest(ctx context.Context) (string, error) {
	infos, err := a.List(ctx)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("no snapshots stored")
	}
	key := infos[len(infos)-1].Key
	if err := a.Restore(ctx, key); err != nil {
		return "", err
	}
	return key, nil
}
