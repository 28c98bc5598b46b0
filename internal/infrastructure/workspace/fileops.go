package workspace

import (
	"fmt"
	"io"
	"os"

	"codehelper/internal/domain"
	"codehelper/internal/pkg/filesystem"
	"codehelper/internal/ports"
)

// Manager implements the FileManager port with plain filesystem operations.
type Manager struct{}

// NewManager builds a file manager.
func NewManager() *Manager {
	return &Manager{}
}

// CreateDirectory implements ports.FileManager.
func (m *Manager) CreateDirectory(path string) (string, error) {
	path = filesystem.ExpandPath(path)
	if err := os.MkdirAll(path, domain.DirectoryPermissions); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return fmt.Sprintf("Directory created successfully: %s", path), nil
}

// DeleteDirectory implements ports.FileManager. The directory and all its
// contents are removed.
func (m *Manager) DeleteDirectory(path string) (string, error) {
	path = filesystem.ExpandPath(path)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("directory does not exist: %s", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return "", fmt.Errorf("failed to delete directory: %w", err)
	}
	return fmt.Sprintf("Directory deleted successfully: %s", path), nil
}

// ListDirectory implements ports.FileManager.
func (m *Manager) ListDirectory(path string) (domain.DirListing, error) {
	path = filesystem.ExpandPath(path)
	if _, err := os.Stat(path); err != nil {
		return domain.DirListing{}, fmt.Errorf("directory does not exist: %s", path)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return domain.DirListing{}, fmt.Errorf("failed to list directory: %w", err)
	}
	var listing domain.DirListing
	for _, entry := range entries {
		if entry.IsDir() {
			listing.Directories = append(listing.Directories, entry.Name())
		} else {
			listing.Files = append(listing.Files, entry.Name())
		}
	}
	return listing, nil
}

// MoveFile implements ports.FileManager.
func (m *Manager) MoveFile(source, destination string) (string, error) {
	source = filesystem.ExpandPath(source)
	destination = filesystem.ExpandPath(destination)
	if _, err := os.Stat(source); err != nil {
		return "", fmt.Errorf("source file does not exist: %s", source)
	}
	if err := os.Rename(source, destination); err != nil {
		return "", fmt.Errorf("failed to move file: %w", err)
	}
	return fmt.Sprintf("File moved successfully from %s to %s", source, destination), nil
}

// CopyFile implements ports.FileManager.
func (m *Manager) CopyFile(source, destination string) (string, error) {
	source = filesystem.ExpandPath(source)
	destination = filesystem.ExpandPath(destination)
	if _, err := os.Stat(source); err != nil {
		return "", fmt.Errorf("source file does not exist: %s", source)
	}
	if err := copyFile(source, destination); err != nil {
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	return fmt.Sprintf("File copied successfully from %s to %s", source, destination), nil
}

func copyFile(source, destination string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var _ ports.FileManager = (*Manager)(nil)
