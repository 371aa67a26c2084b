package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Export states.
const (
	StatusPending = "pending"
	StatusReady   = "ready"
	StatusFailed  = "failed"
)

// ErrExportNotFound is returned for unknown or expired exports.
var ErrExportNotFound = errors.New("jobs: export not found")

// Export is one stored export.
type Export struct {
	ID          string
	Kind        string
	Owner       string
	Status      string
	Message     string
	FileName    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// ExportStore keeps export status and file bytes in Redis hashes that expire
// after ttl.
type ExportStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewExportStore builds an ExportStore.
func NewExportStore(client *redis.Client, ttl time.Duration) *ExportStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ExportStore{client: client, ttl: ttl, now: time.Now}
}

func (s *ExportStore) key(id string) string {
	return "backoffice:export:" + id
}

// Create records a pending export owned by owner.
func (s *ExportStore) Create(ctx context.Context, id, kind, owner string) error {
	key := s.key(id)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"kind":       kind,
			"owner":      owner,
			"status":     StatusPending,
			"created_at": s.now().UTC().Format(time.RFC3339),
		})
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("jobs: create export %s: %w", id, err)
	}
	return nil
}

// Complete stores the file and marks the export ready.
func (s *ExportStore) Complete(ctx context.Context, id, name, contentType string, data []byte) error {
	return s.update(ctx, id, map[string]any{
		"status":       StatusReady,
		"file_name":    name,
		"content_type": contentType,
		"data":         data,
	})
}

// Fail marks the export failed with a message for the user.
func (s *ExportStore) Fail(ctx context.Context, id, message string) error {
	return s.update(ctx, id, map[string]any{"status": StatusFailed, "message": message})
}

func (s *ExportStore) update(ctx context.Context, id string, fields map[string]any) error {
	key := s.key(id)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("jobs: update export %s: %w", id, err)
	}
	if exists == 0 {
		return ErrExportNotFound
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("jobs: update export %s: %w", id, err)
	}
	return nil
}

// Get loads an export.
func (s *ExportStore) Get(ctx context.Context, id string) (Export, error) {
	values, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return Export{}, fmt.Errorf("jobs: get export %s: %w", id, err)
	}
	if len(values) == 0 {
		return Export{}, ErrExportNotFound
	}
	created, _ := time.Parse(time.RFC3339, values["created_at"])
	return Export{
		ID:          id,
		Kind:        values["kind"],
		Owner:       values["owner"],
		Status:      values["status"],
		Message:     values["message"],
		FileName:    values["file_name"],
		ContentType: values["content_type"],
		Data:        []byte(values["data"]),
		CreatedAt:   created,
	}, nil
}
