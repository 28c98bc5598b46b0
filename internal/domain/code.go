package domain

// CodeBlock is one fenced snippet extracted from model output or user
// input. Language is the declared fence tag and may be empty.
type CodeBlock struct {
	Language string
	Body     string
}

// CodeMetadata summarizes a locally analyzed snippet.
type CodeMetadata struct {
	Language   string
	Imports    []string
	Frameworks []string
	Length     int
	LineCount  int
}

// SavedFile records where a snippet was persisted.
type SavedFile struct {
	Path      string
	Language  string
	Extension string
}

// DirListing splits directory contents for display.
type DirListing struct {
	Files       []string
	Directories []string
}
