// Package corpus validates a corpus directory and indexes its documents by id.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/store"
)

var (
	// ErrPathNotFound is returned when the corpus directory does not exist
	ErrPathNotFound = errors.New("corpus path not found")

	// ErrNotADirectory is returned when the corpus path is not a directory
	ErrNotADirectory = errors.New("corpus path is not a directory")

	// ErrEmptyCorpus is returned when the directory holds no raw documents
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrInconsistentCorpus is returned for id gaps, duplicate ids, empty
	// raw files or meta files that do not match the raw documents
	ErrInconsistentCorpus = errors.New("corpus is inconsistent")
)

// Manager is the immutable id-addressed index of a validated corpus.
type Manager struct {
	dir string

	// articles[id-1] holds document id
	articles []*model.Article
}

// New validates dir, then loads every document through r.
func New(dir string, r store.Reader) (*Manager, error) {
	if err := Validate(dir, r); err != nil {
		return nil, err
	}

	articles, err := scan(r)
	if err != nil {
		return nil, err
	}

	return &Manager{dir: dir, articles: articles}, nil
}

// Validate checks that dir is a well-formed corpus: raw ids dense from 1,
// no empty raw files and, when meta files exist, one per raw document.
func Validate(dir string, r store.Reader) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, dir)
		}
		return fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	listing, err := r.List()
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	if listing.Entries == 0 {
		return fmt.Errorf("%w: %s contains no files", ErrEmptyCorpus, dir)
	}
	if len(listing.Raw) == 0 && len(listing.Invalid) == 0 {
		return fmt.Errorf("%w: %s contains no *%s documents", ErrEmptyCorpus, dir, store.RawSuffix)
	}

	if len(listing.Invalid) > 0 {
		return fmt.Errorf("%w: invalid document ids in %s", ErrInconsistentCorpus, strings.Join(listing.Invalid, ", "))
	}

	if err := checkDense(listing.Raw, "raw"); err != nil {
		return err
	}

	for _, f := range listing.Raw {
		if f.Size == 0 {
			return fmt.Errorf("%w: %s is empty", ErrInconsistentCorpus, f.Name)
		}
	}

	if len(listing.Meta) > 0 {
		if err := checkMeta(listing.Raw, listing.Meta); err != nil {
			return err
		}
	}

	return nil
}

// checkDense requires ids to be exactly 1..N in order.
func checkDense(files []store.DocFile, what string) error {
	for i, f := range files {
		want := i + 1
		if f.ID == want {
			continue
		}
		if f.ID < want {
			return fmt.Errorf("%w: duplicate %s id %d (%s)", ErrInconsistentCorpus, what, f.ID, f.Name)
		}
		return fmt.Errorf("%w: missing %s id %d", ErrInconsistentCorpus, what, want)
	}
	return nil
}

func checkMeta(raw, meta []store.DocFile) error {
	if err := checkDense(meta, "meta"); err != nil {
		return err
	}
	if len(meta) != len(raw) {
		return fmt.Errorf("%w: %d meta files for %d raw documents", ErrInconsistentCorpus, len(meta), len(raw))
	}
	for _, f := range meta {
		if f.Size == 0 {
			return fmt.Errorf("%w: %s is empty", ErrInconsistentCorpus, f.Name)
		}
	}
	return nil
}

// scan loads every raw document and its optional metadata. It must only
// run after Validate succeeded.
func scan(r store.Reader) ([]*model.Article, error) {
	listing, err := r.List()
	if err != nil {
		return nil, err
	}

	articles := make([]*model.Article, len(listing.Raw))
	for _, f := range listing.Raw {
		raw, err := r.ReadRaw(f.ID)
		if err != nil {
			return nil, err
		}

		a := model.NewArticle(f.ID, raw)
		meta, found, err := r.ReadMeta(f.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInconsistentCorpus, err)
		}
		if found {
			a.Meta = meta
		}
		articles[f.ID-1] = a
	}
	return articles, nil
}

// Dir returns the corpus directory
func (m *Manager) Dir() string {
	return m.dir
}

// Len returns the number of documents
func (m *Manager) Len() int {
	return len(m.articles)
}

// Articles returns the documents in ascending id order. The slice is a copy;
// the articles are shared.
func (m *Manager) Articles() []*model.Article {
	out := make([]*model.Article, len(m.articles))
	copy(out, m.articles)
	return out
}

// Article returns the document with the given id
func (m *Manager) Article(id int) (*model.Article, bool) {
	if id < 1 || id > len(m.articles) {
		return nil, false
	}
	return m.articles[id-1], true
}

// IDs returns the document ids in ascending order
func (m *Manager) IDs() []int {
	ids := make([]int, len(m.articles))
	for i := range m.articles {
		ids[i] = i + 1
	}
	return ids
}
