package models

// Metadata keys stored alongside every record.
const (
	MetaPath     = "path"
	MetaCategory = "category"
	// MetaSource is the absolute path a paper was organized from.
	MetaSource   = "source"
)

// Document is a single record in a vector store collection. The ID is always
// the on-disk path of the indexed file.
type Document struct {
	ID        string            `json:"id"`
	Text      string            `json:"text"`
	Embedding []float32         `json:"-"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Path returns the metadata path, falling back to the ID.
func (d Document) Path() string {
	if p := d.Metadata[MetaPath]; p != "" {
		return p
	}
	return d.ID
}

// Category returns the stored category, or "" for uncategorized records.
func (d Document) Category() string {
	return d.Metadata[MetaCategory]
}

// Match is a document returned by a nearest-neighbour query together with its
// cosine distance to the query vector.
type Match struct {
	Document
	Distance float64 `json:"distance"`
}
