package types

// EntryKind classifies an inventoried filesystem item.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
)

// FileEntry is one item recorded while walking an extracted archive.
type FileEntry struct {
	// Name is the path relative to the extraction root. Unique per kind
	// within one inventory.
	Name string `json:"name"`

	// Kind is file or directory.
	Kind EntryKind `json:"type"`

	// Size is the byte count for files; nil for directories.
	Size *int64 `json:"size"`

	// AbsolutePath is the resolved on-disk location. Owned by the
	// inventory for the lifetime of one analysis run and never sent
	// externally.
	AbsolutePath string `json:"-"`
}

// IsFile reports whether the entry is a regular file.
func (e FileEntry) IsFile() bool {
	return e.Kind == KindFile
}

// ArchiveInventory is the aggregate passed through the decision protocol.
// It is built once per analysis run from a temporary extraction directory
// and discarded, together with that directory, when the run ends.
type ArchiveInventory struct {
	// Files in directory-walk order. The order carries no meaning.
	Files []FileEntry `json:"files"`

	// MetadataSnippets maps metadata-file names (file_id.diz, readme.*,
	// *.nfo) to bounded text excerpts of at most 2000 characters.
	MetadataSnippets map[string]string `json:"metadata_content"`
}

// Lookup returns the entry with the given relative name.
func (inv *ArchiveInventory) Lookup(name string) (FileEntry, bool) {
	for _, e := range inv.Files {
		if e.Name == name {
			return e, true
		}
	}
	return FileEntry{}, false
}
