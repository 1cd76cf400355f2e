// Package storage writes exported newsletters to disk and keeps a JSON index
// of what was exported.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const indexFile = "exports.json"

// ExportRecord describes one exported newsletter.
type ExportRecord struct {
	Hash        string    `json:"hash"`
	DigestID    string    `json:"digest_id"`
	Reader      string    `json:"reader"`
	File        string    `json:"file"`
	GeneratedAt time.Time `json:"generated_at"`
	Bytes       int       `json:"bytes"`
}

// FileExporter stores newsletters as markdown files in one directory.
type FileExporter struct {
	dir     string
	records map[string]ExportRecord
	mu      sync.RWMutex
}

// NewFileExporter creates an exporter rooted at dir.
func NewFileExporter(dir string) *FileExporter {
	return &FileExporter{
		dir:     dir,
		records: make(map[string]ExportRecord),
	}
}

// Load reads the export index. A missing index is not an error.
func (fe *FileExporter) Load() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(fe.dir, indexFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read export index: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var records []ExportRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal export index: %w", err)
	}
	for _, r := range records {
		fe.records[r.Hash] = r
	}
	return nil
}

// Export writes markdown as <reader>_newsletter_<ts>.md under the export
// directory and records it in the index. Writing the same document twice
// is a no-op that returns the existing record.
func (fe *FileExporter) Export(digestID, reader, filename string, generatedAt time.Time, markdown string) (ExportRecord, error) {
	hash := ContentHash(reader, markdown)

	fe.mu.Lock()
	defer fe.mu.Unlock()

	if rec, ok := fe.records[hash]; ok {
		if _, err := os.Stat(filepath.Join(fe.dir, rec.File)); err == nil {
			return rec, nil
		}
	}

	if err := os.MkdirAll(fe.dir, 0o755); err != nil {
		return ExportRecord{}, fmt.Errorf("failed to create export dir: %w", err)
	}
	name := safeFilename(filename)
	if err := os.WriteFile(filepath.Join(fe.dir, name), []byte(markdown), 0o644); err != nil {
		return ExportRecord{}, fmt.Errorf("failed to write newsletter: %w", err)
	}

	rec := ExportRecord{
		Hash:        hash,
		DigestID:    digestID,
		Reader:      reader,
		File:        name,
		GeneratedAt: generatedAt,
		Bytes:       len(markdown),
	}
	fe.records[hash] = rec
	if err := fe.saveLocked(); err != nil {
		return rec, err
	}
	return rec, nil
}

// Path returns the absolute location of an exported file.
func (fe *FileExporter) Path(rec ExportRecord) string {
	return filepath.Join(fe.dir, rec.File)
}

// Records returns the index, newest first.
func (fe *FileExporter) Records() []ExportRecord {
	fe.mu.RLock()
	out := make([]ExportRecord, 0, len(fe.records))
	for _, r := range fe.records {
		out = append(out, r)
	}
	fe.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].GeneratedAt.Equal(out[j].GeneratedAt) {
			return out[i].GeneratedAt.After(out[j].GeneratedAt)
		}
		return out[i].File < out[j].File
	})
	return out
}

// GetStats returns exporter statistics
func (fe *FileExporter) GetStats() map[string]int {
	fe.mu.RLock()
	defer fe.mu.RUnlock()

	return map[string]int{
		"exported": len(fe.records),
	}
}

func (fe *FileExporter) saveLocked() error {
	records := make([]ExportRecord, 0, len(fe.records))
	for _, r := range fe.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].File < records[j].File })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(fe.dir, indexFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write export index: %w", err)
	}
	return nil
}

// ContentHash identifies a reader's document independent of where it is stored.
func ContentHash(reader, markdown string) string {
	normalizedReader := strings.ToLower(strings.Join(strings.Fields(reader), " "))

	h := sha256.New()
	h.Write([]byte(normalizedReader + "|" + markdown))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// safeFilename keeps a file name inside the export directory.
func safeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.NewReplacer("/", "-", "\\", "-", "\x00", "").Replace(name)
	if name == "" || name == "." || name == ".." {
		return "newsletter.md"
	}
	return name
}
