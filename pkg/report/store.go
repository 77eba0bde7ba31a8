package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cfoust/rando/pkg/assets"

	"github.com/go-redis/redis/v9"
)

// Store keeps spoilers by key, so a shared seed can be looked up later.
type Store interface {
	Save(ctx context.Context, spoiler *Spoiler) error
	Load(ctx context.Context, key Key) (*Spoiler, error)
	// List returns the stored keys, newest first.
	List(ctx context.Context) ([]Key, error)
}

var Missing = fmt.Errorf("spoiler missing")

// FSStore keeps one YAML file per spoiler in a directory.
type FSStore string

const SPOILER_EXTENSION = ".yaml"

func (f FSStore) path(key Key) string {
	return filepath.Join(string(f), key.String()+SPOILER_EXTENSION)
}

func (f FSStore) Save(ctx context.Context, spoiler *Spoiler) error {
	data, err := spoiler.Marshal()
	if err != nil {
		return err
	}

	err = os.MkdirAll(string(f), 0755)
	if err != nil {
		return err
	}

	return assets.WriteBytes(data, f.path(spoiler.Key()))
}

func (f FSStore) Load(ctx context.Context, key Key) (*Spoiler, error) {
	target := f.path(key)
	if !assets.FileExists(target) {
		return nil, Missing
	}

	data, err := os.ReadFile(target)
	if err != nil {
		return nil, err
	}

	return Unmarshal(data)
}

func (f FSStore) List(ctx context.Context) ([]Key, error) {
	entries, err := os.ReadDir(string(f))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	type listed struct {
		key      Key
		modified time.Time
	}

	found := make([]listed, 0)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, SPOILER_EXTENSION) {
			continue
		}

		key, err := ParseKey(strings.TrimSuffix(name, SPOILER_EXTENSION))
		if err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, err
		}

		found = append(found, listed{key, info.ModTime()})
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].modified.After(found[j].modified)
	})

	keys := make([]Key, len(found))
	for i, entry := range found {
		keys[i] = entry.key
	}
	return keys, nil
}

const (
	SPOILER_KEY    = "spoiler-%s"
	SPOILER_INDEX  = "spoilers"
	SPOILER_EXPIRY = time.Duration(24 * time.Hour)
)

// RedisStore publishes spoilers to Redis, where they expire after ttl. A
// sorted set scored by creation time indexes them.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisStore) Save(ctx context.Context, spoiler *Spoiler) error {
	data, err := spoiler.Marshal()
	if err != nil {
		return err
	}

	key := spoiler.Key()
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, fmt.Sprintf(SPOILER_KEY, key), data, r.ttl)
	pipe.ZAdd(ctx, SPOILER_INDEX, redis.Z{
		Score:  float64(spoiler.Created.Unix()),
		Member: key.String(),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) Load(ctx context.Context, key Key) (*Spoiler, error) {
	data, err := r.client.Get(ctx, fmt.Sprintf(SPOILER_KEY, key)).Bytes()
	if err == redis.Nil {
		return nil, Missing
	}
	if err != nil {
		return nil, err
	}

	return Unmarshal(data)
}

// List drops index entries whose spoilers have expired.
func (r *RedisStore) List(ctx context.Context) ([]Key, error) {
	members, err := r.client.ZRevRange(ctx, SPOILER_INDEX, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]Key, 0, len(members))
	for _, member := range members {
		key, err := ParseKey(member)
		if err != nil {
			continue
		}

		exists, err := r.client.Exists(ctx, fmt.Sprintf(SPOILER_KEY, key)).Result()
		if err != nil {
			return nil, err
		}

		if exists == 0 {
			r.client.ZRem(ctx, SPOILER_INDEX, member)
			continue
		}

		keys = append(keys, key)
	}

	return keys, nil
}

var _ Store = (*FSStore)(nil)
var _ Store = (*RedisStore)(nil)

// Key names a spoiler by its seed and a digest of the settings it was made
// with. The same seed under other settings is another run.
type Key struct {
	Seed     int64
	Settings string
}

func (k Key) String() string {
	if k.Settings == "" {
		return strconv.FormatInt(k.Seed, 10)
	}
	return fmt.Sprintf("%d-%s", k.Seed, k.Settings)
}

func ParseKey(value string) (Key, error) {
	seed, settings := value, ""
	if i := strings.LastIndex(value, "-"); i > 0 {
		seed, settings = value[:i], value[i+1:]
	}

	parsed, err := strconv.ParseInt(seed, 10, 64)
	if err != nil {
		return Key{}, fmt.Errorf("invalid spoiler key %s", value)
	}

	return Key{Seed: parsed, Settings: settings}, nil
}
