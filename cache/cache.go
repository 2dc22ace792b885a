// Package cache persists per-file content fingerprints across analysis runs
// so unchanged files can skip re-extraction. The cache is advisory: losing or
// corrupting it only costs a full re-analysis, never correctness.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Version identifies the on-disk document layout.
const Version = "1"

// DefaultFilename is the cache document name under a project root.
const DefaultFilename = ".impactor-cache.json"

// Entry records one file's last extracted state.
type Entry struct {
	FilePath  string   `json:"filePath"`
	Hash      string   `json:"hash"`
	NodeIDs   []string `json:"nodeIds,omitempty"`
	EdgeKeys  []string `json:"edgeKeys,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// Document is the single durable artifact of the cache subsystem, scoped to
// one project root.
type Document struct {
	Version   string            `json:"version"`
	Timestamp int64             `json:"timestamp"`
	Files     map[string]*Entry `json:"files"`
}

// Cache manages one project's cache document.
type Cache struct {
	fs  afs.Service
	URL string
	doc *Document
}

// New creates a cache bound to the given document location.
func New(URL string) *Cache {
	return &Cache{
		fs:  afs.New(),
		URL: URL,
		doc: emptyDocument(),
	}
}

// URLForProject returns the cache document location under a project root.
func URLForProject(rootPath string) string {
	return url.Join(rootPath, DefaultFilename)
}

// Load reads the persisted document. Any read or parse failure degrades to an
// empty cache, which simply makes every file look changed; it never aborts an
// analysis run. The returned error is informational only.
func (c *Cache) Load(ctx context.Context) error {
	c.doc = emptyDocument()
	if ok, _ := c.fs.Exists(ctx, c.URL); !ok {
		return nil
	}
	data, err := c.fs.DownloadWithURL(ctx, c.URL)
	if err != nil {
		return err
	}
	doc := emptyDocument()
	if err = json.Unmarshal(data, doc); err != nil {
		return err
	}
	if doc.Files == nil {
		doc.Files = map[string]*Entry{}
	}
	c.doc = doc
	return nil
}

// Save writes the document atomically: upload to a sidecar location, then
// move over the live document. Persistence is best-effort; a failure only
// forgoes incremental savings on the next run.
func (c *Cache) Save(ctx context.Context) error {
	c.doc.Version = Version
	c.doc.Timestamp = time.Now().UnixMilli()
	data, err := json.MarshalIndent(c.doc, "", "  ")
	if err != nil {
		return err
	}
	// The sidecar keeps the destination's .json extension: afs.Move rewrites
	// the destination into a directory when the extensions disagree.
	tempURL := c.URL + ".tmp.json"
	if err = c.fs.Upload(ctx, tempURL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return err
	}
	return c.fs.Move(ctx, tempURL, c.URL)
}

// ChangedFiles returns the project-relative paths that need re-extraction:
// every current file whose hash differs from (or is absent from) the stored
// entry, plus every stored path absent from the current set (a deletion
// signal so callers can prune stale graph contributions).
func (c *Cache) ChangedFiles(current map[string][]byte) []string {
	changed := map[string]bool{}
	for path, content := range current {
		entry, ok := c.doc.Files[path]
		if !ok || entry.Hash != Hash(content) {
			changed[path] = true
		}
	}
	for path := range c.doc.Files {
		if _, ok := current[path]; !ok {
			changed[path] = true
		}
	}
	result := make([]string, 0, len(changed))
	for path := range changed {
		result = append(result, path)
	}
	sort.Strings(result)
	return result
}

// Update records a file's fresh extraction outcome. Node ids and edge keys
// are kept so callers can prune or replay that file's prior contribution; the
// core itself never replays them into a live graph.
func (c *Cache) Update(path string, content []byte, nodeIDs, edgeKeys []string) {
	c.doc.Files[path] = &Entry{
		FilePath:  path,
		Hash:      Hash(content),
		NodeIDs:   nodeIDs,
		EdgeKeys:  edgeKeys,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Remove drops a deleted file's entry.
func (c *Cache) Remove(path string) {
	delete(c.doc.Files, path)
}

// Entry returns the stored entry for a path, or nil.
func (c *Cache) Entry(path string) *Entry {
	return c.doc.Files[path]
}

// Len returns the number of tracked files.
func (c *Cache) Len() int {
	return len(c.doc.Files)
}

func emptyDocument() *Document {
	return &Document{Version: Version, Files: map[string]*Entry{}}
}
