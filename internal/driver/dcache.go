package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"

	"afflint/internal/diag"
	"afflint/internal/project"
	"afflint/internal/source"
)

// Schema version for safe invalidation when the payload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache persists per-file diagnostic lists keyed by content+policy
// hash, so unchanged charts skip re-analysis across CLI runs.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CacheKey identifies one (content, policy) combination.
type CacheKey [32]byte

type cachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []cachedNote
}

// DiskPayload is the serialized cache entry. Spans are stored as offsets
// only; the FileID is reattached on load since IDs are per-process.
type DiskPayload struct {
	Schema uint16
	Diags  []cachedDiag
}

// OpenDiskCache initializes and returns a disk cache at the standard
// XDG location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt initializes a cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// cacheKey mixes the file content hash with a fingerprint of the policy:
// a config change must invalidate every entry.
func cacheKey(file *source.File, cfg *project.Config) CacheKey {
	h := sha256.New()
	h.Write(file.Hash[:])
	if raw, err := toml.Marshal(cfg); err == nil {
		h.Write(raw)
	}
	var key CacheKey
	copy(key[:], h.Sum(nil))
	return key
}

func (c *DiskCache) pathFor(key CacheKey) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "diags", hexKey+".mp")
}

// Put serializes a bag and writes it to the cache atomically.
func (c *DiskCache) Put(key CacheKey, bag *diag.Bag) error {
	if c == nil || bag == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := DiskPayload{Schema: diskCacheSchemaVersion}
	for _, d := range bag.Items() {
		cd := cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		payload.Diags = append(payload.Diags, cd)
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads a cached bag for the key, reattaching the given FileID to every
// span. ok=false on a miss or schema mismatch.
func (c *DiskCache) Get(key CacheKey, id source.FileID, maxDiags int) (*diag.Bag, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}

	if maxDiags < len(payload.Diags) {
		maxDiags = len(payload.Diags)
	}
	bag := diag.NewBag(maxDiags)
	for _, cd := range payload.Diags {
		d := diag.Diagnostic{
			Severity: diag.Severity(cd.Severity),
			Code:     diag.Code(cd.Code),
			Message:  cd.Message,
			Primary:  source.Span{File: id, Start: cd.Start, End: cd.End},
		}
		for _, n := range cd.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Span: source.Span{File: id, Start: n.Start, End: n.End},
				Msg:  n.Msg,
			})
		}
		bag.Add(d)
	}
	return bag, true, nil
}
