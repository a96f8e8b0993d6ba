// Package store reads and writes the per-document files of a corpus
// directory, addressed by numeric document id.
package store

import (
	"github.com/ppiankov/morphcorp/internal/model"
)

// File name suffixes of the source files
const (
	RawSuffix  = "_raw.txt"
	MetaSuffix = "_meta.json"
)

// Reader defines read operations on a corpus directory
type Reader interface {
	// List classifies the files of the directory
	List() (*Listing, error)

	// ReadRaw returns the raw text of a document
	ReadRaw(id int) (string, error)

	// ReadMeta returns the metadata of a document; found is false when the
	// document has no meta file
	ReadMeta(id int) (meta model.Metadata, found bool, err error)

	// ReadArtifact returns a derived artifact
	ReadArtifact(id int, kind model.ArtifactType) (string, error)

	// RawSize and ArtifactSize return file sizes; errors wrap os.ErrNotExist
	// for missing files
	RawSize(id int) (int64, error)
	ArtifactSize(id int, kind model.ArtifactType) (int64, error)
}

// Writer defines write operations on a corpus directory. Writes to
// distinct documents may run concurrently.
type Writer interface {
	// WriteMeta persists the metadata of meta.ID
	WriteMeta(meta model.Metadata) error

	// WriteArtifact persists a derived artifact
	WriteArtifact(id int, kind model.ArtifactType, text string) error

	// ArtifactPath returns the location WriteArtifact writes to
	ArtifactPath(id int, kind model.ArtifactType) string

	// WriteReport persists an auxiliary per-document file, e.g. a chart
	WriteReport(id int, name string, data []byte) (string, error)
}

// Repository combines read and write operations
type Repository interface {
	Reader
	Writer
}

// DocFile is a raw or meta file with a parsed id
type DocFile struct {
	ID   int
	Name string
	Size int64
}

// Listing is the classified content of a corpus directory
type Listing struct {
	// Entries counts every entry of the directory, of any kind
	Entries int

	Raw  []DocFile
	Meta []DocFile

	// Invalid holds raw or meta file names whose id is not a positive integer
	Invalid []string
}
