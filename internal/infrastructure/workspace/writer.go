// Package workspace persists generated artifacts and performs file
// management on behalf of the dispatcher.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codehelper/internal/code"
	"codehelper/internal/domain"
	"codehelper/internal/pkg/filesystem"
	"codehelper/internal/ports"
)

// Writer saves code artifacts under the data directory with timestamped
// names so repeated saves never collide.
type Writer struct {
	dataDir string
	now     func() time.Time
}

// NewWriter builds a writer rooted at dataDir, defaulting to ./data. The
// directory is anchored to an absolute path so saved artifact paths stay
// valid for commands running elsewhere.
func NewWriter(dataDir string) *Writer {
	if dataDir == "" {
		dataDir = "data"
	}
	return &Writer{dataDir: filesystem.AbsPath(dataDir), now: time.Now}
}

// Dir returns the directory artifacts are written to.
func (w *Writer) Dir() string {
	return w.dataDir
}

// SaveCode writes source to <prefix>_<timestamp>.<ext>. The language is
// detected from the source when not supplied and falls back to plain text.
func (w *Writer) SaveCode(source, language, prefix string) (domain.SavedFile, error) {
	if language == "" {
		language = code.Detect(source)
	}
	if language == "" {
		language = "txt"
	}
	extension := code.Extension(language)

	path, err := w.WriteArtifact(prefix, extension, source)
	if err != nil {
		return domain.SavedFile{}, err
	}
	return domain.SavedFile{
		Path:      path,
		Language:  language,
		Extension: extension,
	}, nil
}

// WriteArtifact writes content to <prefix>_<timestamp>.<extension> under the
// data directory and returns the full path.
func (w *Writer) WriteArtifact(prefix, extension, content string) (string, error) {
	if err := os.MkdirAll(w.dataDir, domain.DirectoryPermissions); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.%s", prefix, w.now().Format(domain.FilenameTimestampFormat), extension)
	path := filepath.Join(w.dataDir, name)
	if err := os.WriteFile(path, []byte(content), domain.ArtifactFilePermissions); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return path, nil
}

var _ ports.ArtifactWriter = (*Writer)(nil)
