package httprepo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/moor/internal/core/domain"
	"go.trai.ch/zerr"
)

// defaultMetaTTL bounds how long a cached metadata response is trusted.
const defaultMetaTTL = 10 * time.Minute

// metaEntry is the on-disk form of one cached response.
type metaEntry struct {
	URL          string    `json:"url"`
	LastModified time.Time `json:"last_modified,omitzero"`
	Body         []byte    `json:"body"`
}

// metaCache stores repository metadata responses on disk, keyed by the hash
// of their URL. Entries expire by file modification time.
type metaCache struct {
	dir string
	ttl time.Duration
}

// newMetaCache returns nil when dir is empty, disabling caching.
func newMetaCache(dir string) *metaCache {
	if dir == "" {
		return nil
	}
	return &metaCache{dir: dir, ttl: defaultMetaTTL}
}

// lookup returns the cached body for the URL if a fresh entry exists. Any
// read or decode failure is treated as a miss.
func (c *metaCache) lookup(url string) ([]byte, time.Time, bool) {
	path := c.path(url)

	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.ttl {
		return nil, time.Time{}, false
	}

	//nolint:gosec // path is a hash under the configured cache directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, false
	}

	var entry metaEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, time.Time{}, false
	}
	return entry.Body, entry.LastModified, true
}

// store writes the response body for the URL, replacing any previous entry.
func (c *metaCache) store(url string, body []byte, lastModified time.Time) error {
	if err := os.MkdirAll(c.dir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheCreateFailed.Error())
	}

	data, err := json.Marshal(metaEntry{URL: url, LastModified: lastModified, Body: body})
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}
	return atomicWriteFile(c.path(url), data)
}

func (c *metaCache) path(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// atomicWriteFile writes data to a temporary file in the target directory
// and renames it into place so concurrent readers never observe a partial
// entry.
func atomicWriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".meta-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return zerr.Wrap(err, domain.ErrCacheWriteFailed.Error())
	}
	return nil
}
