package models

// SearchHit is a single search result. Similarity is 1 - cosine distance.
type SearchHit struct {
	Path       string  `json:"path"`
	Similarity float64 `json:"similarity"`
}

// SyncReport summarises a reconciliation of a collection against the filesystem.
type SyncReport struct {
	Total        int      `json:"total"`
	Kept         int      `json:"kept"`
	Deleted      int      `json:"deleted"`
	DeletedPaths []string `json:"deleted_files,omitempty"`
}
