// Package document reads input documents and writes rewritten ones.
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/edsrzf/mmap-go"
)

// ErrInputNotFound is returned when the input document does not exist.
var ErrInputNotFound = errors.New("input document not found")

// Read returns the contents of the document at path. The file is
// memory-mapped and copied out, so the mapping never outlives the call.
func Read(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrInputNotFound)
		}
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat document: %w", err)
	}
	if stat.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	// zero-length files cannot be mapped
	if stat.Size() == 0 {
		return "", nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return "", fmt.Errorf("failed to map document: %w", err)
	}
	text := string(m)
	if err := m.Unmap(); err != nil {
		return "", fmt.Errorf("failed to unmap document: %w", err)
	}
	return text, nil
}

// Write stores text at path, creating parent directories as needed.
// The file is replaced atomically.
func Write(path, text string) error {
	if err := utils.WriteFileAtomic(path, []byte(text)); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}
