package report

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocountry/internal/pkg/pkgerror"
)

const (
	FileName = "summary.png"
	RedisKey = "country:v1:summary.png"
)

// Sink stores the latest summary image. Load returns pkgerror.ErrNotFound
// when nothing has been stored yet.
type Sink interface {
	Save(ctx context.Context, data []byte) error
	Load(ctx context.Context) ([]byte, error)
}

type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = "cache"
	}

	return &FileSink{dir: dir}
}

func (s *FileSink) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Save writes through a temporary file so readers never see a truncated image.
func (s *FileSink) Save(ctx context.Context, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create summary dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create summary temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write summary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close summary: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}

	return nil
}

func (s *FileSink) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pkgerror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}

	return data, nil
}

// RedisClient is the subset of redis.Cmdable used by RedisSink.
type RedisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type RedisSink struct {
	client RedisClient
	key    string
	ttl    time.Duration
}

// NewRedisSink stores the image under key. A zero ttl keeps it until the
// next refresh overwrites it.
func NewRedisSink(client RedisClient, key string, ttl time.Duration) *RedisSink {
	if key == "" {
		key = RedisKey
	}

	return &RedisSink{client: client, key: key, ttl: ttl}
}

func (s *RedisSink) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store summary in redis: %w", err)
	}

	return nil
}

func (s *RedisSink) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, pkgerror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load summary from redis: %w", err)
	}

	return data, nil
}
