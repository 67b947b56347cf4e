// Package store provides a per-server BoltDB cache of playlist summaries and
// playlist items. The cache backs instant tab population in the UI and the
// import matcher's local candidate pool; it is invalidated on every write
// operation against the server.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jeffparker/plexport/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPlaylists = []byte("playlists")
	bucketItems     = []byte("items")
)

const playlistsKey = "all"

// PlaylistStore caches playlist data in BoltDB with an in-memory hot cache.
type PlaylistStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// NewPlaylistStore opens (or creates) the cache database for one server.
// An empty baseCacheDir selects memory-only mode with no persistence.
func NewPlaylistStore(baseCacheDir, serverURL string) (*PlaylistStore, error) {
	if baseCacheDir == "" {
		return &PlaylistStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "plexport.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPlaylists, bucketItems} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PlaylistStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Close closes the underlying database
func (s *PlaylistStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *PlaylistStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *PlaylistStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *PlaylistStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

func (s *PlaylistStore) clearBucket(bucket []byte) {
	prefix := string(bucket) + ":"

	s.mu.Lock()
	for key := range s.cache {
		if strings.HasPrefix(key, prefix) {
			delete(s.cache, key)
		}
	}
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucket)
		return err
	})
}

// === Playlist operations ===

// SavePlaylists stores the full playlist list
func (s *PlaylistStore) SavePlaylists(playlists []*domain.Playlist) error {
	return s.set(bucketPlaylists, playlistsKey, playlists)
}

// GetPlaylists returns the cached playlist list, if present
func (s *PlaylistStore) GetPlaylists() ([]*domain.Playlist, bool) {
	var playlists []*domain.Playlist
	if !s.get(bucketPlaylists, playlistsKey, &playlists) {
		return nil, false
	}
	return playlists, true
}

// SavePlaylistItems stores the item list for one playlist
func (s *PlaylistStore) SavePlaylistItems(playlistID string, items []*domain.MediaItem) error {
	return s.set(bucketItems, playlistID, items)
}

// GetPlaylistItems returns the cached item list for one playlist, if present
func (s *PlaylistStore) GetPlaylistItems(playlistID string) ([]*domain.MediaItem, bool) {
	var items []*domain.MediaItem
	if !s.get(bucketItems, playlistID, &items) {
		return nil, false
	}
	return items, true
}

// InvalidatePlaylists drops the cached playlist list
func (s *PlaylistStore) InvalidatePlaylists() {
	s.delete(bucketPlaylists, playlistsKey)
}

// InvalidatePlaylistItems drops the cached items for one playlist
func (s *PlaylistStore) InvalidatePlaylistItems(playlistID string) {
	s.delete(bucketItems, playlistID)
}

// InvalidateAll drops everything
func (s *PlaylistStore) InvalidateAll() {
	s.clearBucket(bucketPlaylists)
	s.clearBucket(bucketItems)
}
