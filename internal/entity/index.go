package entity

// IndexEntry is one mod record parsed from a launcher-produced index file.
type IndexEntry struct {
	Name     string
	Filename string
	FileID   int64
	HasID    bool
}
