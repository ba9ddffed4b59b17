package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bryanwahyu/satyacheck/internal/application"
	"github.com/bryanwahyu/satyacheck/internal/domain/analysis"
	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const (
	fileExt = ".json"
	// lowWater is the fraction of maxBytes eviction shrinks usage to.
	lowWater = 0.8
)

// LocalEntry is the on-disk record format.
type LocalEntry struct {
	Content      string `json:"content"`
	AnalysisType string `json:"analysisType"`
	Timestamp    int64  `json:"timestamp"` // unix millis
	Explanation  string `json:"explanation"`
	Verdict      string `json:"verdict"`
}

// FileStats describes the on-disk footprint.
type FileStats struct {
	Entries    int   `json:"entries"`
	TotalBytes int64 `json:"totalBytes"`
	MaxBytes   int64 `json:"maxBytes"`
	Expired    int   `json:"expired"`
}

// File is the local, size-bounded result cache. Entries live one per file
// named by FileKey; the TTL is fixed per cache because the record format has
// no per-entry TTL. When the directory grows past maxBytes the oldest files by
// modification time are removed until usage is at most 80% of maxBytes.
type File struct {
	dir      string
	maxBytes int64
	ttl      time.Duration
	clock    application.Clock
	log      logger.Logger

	mu sync.Mutex
}

func NewFile(dir string, maxBytes int64, ttl time.Duration, clock application.Clock, log logger.Logger) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &File{dir: dir, maxBytes: maxBytes, ttl: ttl, clock: clock, log: log.With(logger.String("cache", "local"))}, nil
}

// FileKey is sha256("analysisType:content") truncated to 32 hex chars.
func FileKey(analysisType, content string) string {
	sum := sha256.Sum256([]byte(analysisType + ":" + content))
	return hex.EncodeToString(sum[:])[:32]
}

func (f *File) path(key string) string { return filepath.Join(f.dir, key+fileExt) }

// Get implements Cache. Expired or unreadable entries are removed and reported as misses.
func (f *File) Get(_ context.Context, key string) (LocalEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.path(key)
	raw, err := os.ReadFile(p)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.Warn("local cache read failed", logger.String("key", key), logger.Error(err))
		}
		return LocalEntry{}, false
	}
	var e LocalEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		f.log.Warn("corrupt local cache entry", logger.String("key", key), logger.Error(err))
		_ = os.Remove(p)
		return LocalEntry{}, false
	}
	if f.expired(e) {
		_ = os.Remove(p)
		return LocalEntry{}, false
	}
	return e, true
}

// Put implements Cache. The ttl argument is ignored in favour of the cache TTL.
func (f *File) Put(_ context.Context, key string, e LocalEntry, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	if e.Timestamp == 0 {
		e.Timestamp = now.UnixMilli()
	}
	raw, err := json.Marshal(e)
	if err != nil {
		f.log.Warn("local cache encode failed", logger.Error(err))
		return
	}
	p := f.path(key)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		f.log.Warn("local cache write failed", logger.Error(err))
		return
	}
	if err := os.Rename(tmp, p); err != nil {
		f.log.Warn("local cache write failed", logger.Error(err))
		_ = os.Remove(tmp)
		return
	}
	_ = os.Chtimes(p, now, now)
	f.enforceLimitLocked()
}

func (f *File) Evict(_ context.Context, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_ = os.Remove(f.path(key))
}

// Lookup returns the cached verdict for content analysed as analysisType.
func (f *File) Lookup(ctx context.Context, content, analysisType string) (analysis.AnalysisResult, bool) {
	e, ok := f.Get(ctx, FileKey(analysisType, content))
	if !ok {
		return analysis.AnalysisResult{}, false
	}
	return analysis.AnalysisResult{Verdict: analysis.ParseVerdict(e.Verdict), Explanation: e.Explanation}, true
}

// Store records a verdict for content analysed as analysisType.
func (f *File) Store(ctx context.Context, content, analysisType string, r analysis.AnalysisResult) {
	f.Put(ctx, FileKey(analysisType, content), LocalEntry{
		Content:      content,
		AnalysisType: analysisType,
		Explanation:  r.Explanation,
		Verdict:      string(r.Verdict),
	}, f.ttl)
}

func (f *File) expired(e LocalEntry) bool {
	return Entry[LocalEntry]{CreatedAt: time.UnixMilli(e.Timestamp), TTL: f.ttl}.Expired(f.clock.Now())
}

type fileInfo struct {
	path    string
	size    int64
	modTime time.Time
}

func (f *File) listLocked() ([]fileInfo, int64) {
	dirEntries, err := os.ReadDir(f.dir)
	if err != nil {
		f.log.Warn("local cache list failed", logger.Error(err))
		return nil, 0
	}
	var (
		files []fileInfo
		total int64
	)
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		files = append(files, fileInfo{path: filepath.Join(f.dir, de.Name()), size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
	}
	return files, total
}

func (f *File) enforceLimitLocked() {
	files, total := f.listLocked()
	if total <= f.maxBytes {
		return
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].path < files[j].path
		}
		return files[i].modTime.Before(files[j].modTime)
	})
	target := int64(float64(f.maxBytes) * lowWater)
	removed := 0
	for _, fi := range files {
		if total <= target {
			break
		}
		if err := os.Remove(fi.path); err != nil {
			continue
		}
		total -= fi.size
		removed++
	}
	f.log.Debug("local cache evicted", logger.Int("removed", removed), logger.Int64("bytes", total))
}

// Stats walks the directory. Expired counts entries that a Get would drop.
func (f *File) Stats() FileStats {
	f.mu.Lock()
	defer f.mu.Unlock()

	files, total := f.listLocked()
	st := FileStats{Entries: len(files), TotalBytes: total, MaxBytes: f.maxBytes}
	for _, fi := range files {
		raw, err := os.ReadFile(fi.path)
		if err != nil {
			continue
		}
		var e LocalEntry
		if json.Unmarshal(raw, &e) != nil || f.expired(e) {
			st.Expired++
		}
	}
	return st
}

// Clear removes every entry.
func (f *File) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	files, _ := f.listLocked()
	for _, fi := range files {
		_ = os.Remove(fi.path)
	}
}
