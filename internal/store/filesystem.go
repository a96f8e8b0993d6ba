package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/morphcorp/internal/model"
)

// FileStore keeps every document file flat in one directory
type FileStore struct {
	dir string
}

var _ Repository = (*FileStore)(nil)

// NewFileStore creates a filesystem store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the corpus directory
func (s *FileStore) Dir() string {
	return s.dir
}

// RawPath returns the path of a raw document
func (s *FileStore) RawPath(id int) string {
	return filepath.Join(s.dir, strconv.Itoa(id)+RawSuffix)
}

// MetaPath returns the path of a meta file
func (s *FileStore) MetaPath(id int) string {
	return filepath.Join(s.dir, strconv.Itoa(id)+MetaSuffix)
}

// ArtifactPath returns the path of a derived artifact
func (s *FileStore) ArtifactPath(id int, kind model.ArtifactType) string {
	return filepath.Join(s.dir, fmt.Sprintf("%d_%s%s", id, kind, kind.Extension()))
}

// List classifies the directory entries into raw and meta files.
func (s *FileStore) List() (*Listing, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	l := &Listing{Entries: len(entries)}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()

		var target *[]DocFile
		var suffix string
		switch {
		case strings.HasSuffix(name, RawSuffix):
			target, suffix = &l.Raw, RawSuffix
		case strings.HasSuffix(name, MetaSuffix):
			target, suffix = &l.Meta, MetaSuffix
		default:
			continue
		}

		id, ok := ParseID(strings.TrimSuffix(name, suffix))
		if !ok {
			l.Invalid = append(l.Invalid, name)
			continue
		}

		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		*target = append(*target, DocFile{ID: id, Name: name, Size: info.Size()})
	}

	byID := func(files []DocFile) {
		sort.Slice(files, func(i, j int) bool {
			if files[i].ID != files[j].ID {
				return files[i].ID < files[j].ID
			}
			return files[i].Name < files[j].Name
		})
	}
	byID(l.Raw)
	byID(l.Meta)
	sort.Strings(l.Invalid)

	return l, nil
}

// ParseID parses a decimal document id. Only positive ids are valid.
func ParseID(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ReadRaw returns the raw text of a document
func (s *FileStore) ReadRaw(id int) (string, error) {
	data, err := os.ReadFile(s.RawPath(id))
	if err != nil {
		return "", fmt.Errorf("read raw %d: %w", id, err)
	}
	return string(data), nil
}

// ReadMeta returns the metadata of a document
func (s *FileStore) ReadMeta(id int) (model.Metadata, bool, error) {
	data, err := os.ReadFile(s.MetaPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return model.Metadata{}, false, nil
		}
		return model.Metadata{}, false, fmt.Errorf("read meta %d: %w", id, err)
	}

	var meta model.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return model.Metadata{}, false, fmt.Errorf("parse meta %d: %w", id, err)
	}
	if meta.ID == 0 {
		meta.ID = id
	}
	if meta.ID != id {
		return model.Metadata{}, false, fmt.Errorf("meta %d: file declares id %d", id, meta.ID)
	}
	if meta.Topics == nil {
		meta.Topics = []string{}
	}
	if meta.POSFrequencies == nil {
		meta.POSFrequencies = map[string]int{}
	}
	return meta, true, nil
}

// ReadArtifact returns a derived artifact
func (s *FileStore) ReadArtifact(id int, kind model.ArtifactType) (string, error) {
	data, err := os.ReadFile(s.ArtifactPath(id, kind))
	if err != nil {
		return "", fmt.Errorf("read %s %d: %w", kind, id, err)
	}
	return string(data), nil
}

// RawSize returns the size of a raw document
func (s *FileStore) RawSize(id int) (int64, error) {
	return fileSize(s.RawPath(id))
}

// ArtifactSize returns the size of a derived artifact
func (s *FileStore) ArtifactSize(id int, kind model.ArtifactType) (int64, error) {
	return fileSize(s.ArtifactPath(id, kind))
}

// WriteMeta writes the meta file indented by four spaces, non-ASCII and
// HTML characters unescaped.
func (s *FileStore) WriteMeta(meta model.Metadata) error {
	if meta.ID <= 0 {
		return fmt.Errorf("write meta: invalid id %d", meta.ID)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode meta %d: %w", meta.ID, err)
	}

	return writeFile(s.MetaPath(meta.ID), buf.Bytes())
}

// WriteArtifact writes a derived artifact
func (s *FileStore) WriteArtifact(id int, kind model.ArtifactType, text string) error {
	return writeFile(s.ArtifactPath(id, kind), []byte(text))
}

// WriteReport writes <id>_<name> and returns its path
func (s *FileStore) WriteReport(id int, name string, data []byte) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid report name %q", name)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%d_%s", id, name))
	return path, writeFile(path, data)
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// writeFile replaces path atomically so readers never see partial content
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
