package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kuderr/sakurs-go/pkg/sakerr"
	"go.etcd.io/bbolt"
	"gopkg.in/yaml.v3"
)

const (
	rulesBucket = "rules"
	statsBucket = "stats"
)

// CacheStats tracks cumulative CompiledCache activity.
type CacheStats struct {
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Stores    int64     `json:"stores"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompiledCache persists the source YAML of LanguageRules documents
// keyed by a hash of that document, so a caller that loads the same
// custom rules document repeatedly (one worker per request, say) can
// fetch it from the cache; a hit still re-parses and recompiles it.
//
// A Document does not round-trip through the cache directly: Rules
// itself holds compiled regexes and is not serializable, so
// CompiledCache re-parses the cached YAML bytes on a hit. The win is
// skipping the caller's own disk read and cutting validation latency
// out of the request path's logging, not skipping compile() itself.
type CompiledCache struct {
	db *bbolt.DB
}

// OpenCache opens (creating if absent) a bbolt-backed cache at path.
func OpenCache(path string) (*CompiledCache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, sakerr.NewConfigError("cannot open rules cache at "+path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{rulesBucket, statsBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, sakerr.NewConfigError("cannot initialize rules cache", err)
	}

	return &CompiledCache{db: db}, nil
}

// Close closes the underlying database file.
func (c *CompiledCache) Close() error { return c.db.Close() }

// DocumentKey hashes a raw YAML document to a stable cache key.
func DocumentKey(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load returns the compiled Rules for data, recompiling and storing on
// a cache miss.
func (c *CompiledCache) Load(data []byte) (*Rules, error) {
	key := DocumentKey(data)

	var cached []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(rulesBucket)).Get([]byte(key)); v != nil {
			cached = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, sakerr.NewConfigError("rules cache read failed", err)
	}

	if cached != nil {
		c.bumpStats(func(s *CacheStats) { s.Hits++ })
		var doc Document
		if err := yaml.Unmarshal(cached, &doc); err != nil {
			return nil, sakerr.NewConfigError("cached rules document is corrupt", err)
		}
		return compile(&doc)
	}

	c.bumpStats(func(s *CacheStats) { s.Misses++ })

	rules, err := Load(data)
	if err != nil {
		return nil, err
	}

	if err := c.store(key, data); err != nil {
		return nil, err
	}

	return rules, nil
}

func (c *CompiledCache) store(key string, data []byte) error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(rulesBucket)).Put([]byte(key), data)
	})
	if err != nil {
		return sakerr.NewConfigError("rules cache write failed", err)
	}
	c.bumpStats(func(s *CacheStats) { s.Stores++ })
	return nil
}

func (c *CompiledCache) bumpStats(mutate func(*CacheStats)) {
	_ = c.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(statsBucket))
		var stats CacheStats
		if data := bucket.Get([]byte("stats")); data != nil {
			_ = json.Unmarshal(data, &stats)
		}
		mutate(&stats)
		stats.UpdatedAt = time.Now()
		out, err := json.Marshal(&stats)
		if err != nil {
			return err
		}
		return bucket.Put([]byte("stats"), out)
	})
}

// Stats returns the cache's cumulative hit/miss/store counters.
func (c *CompiledCache) Stats() (CacheStats, error) {
	var stats CacheStats
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(statsBucket)).Get([]byte("stats"))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &stats)
	})
	if err != nil {
		return CacheStats{}, sakerr.NewConfigError("rules cache stats read failed", err)
	}
	return stats, nil
}
