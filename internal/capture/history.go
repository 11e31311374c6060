// Package capture keeps rendered snapshots and writes them to disk.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrIndexOutOfRange is returned for positions outside the history
var ErrIndexOutOfRange = errors.New("capture index out of range")

// Capture is one encoded snapshot
type Capture struct {
	ID        int
	Format    Format
	Data      []byte
	Image     image.Image
	CreatedAt time.Time
}

// History is an ordered list of captures, safe for concurrent use
type History struct {
	mu       sync.RWMutex
	captures []Capture
	nextID   int
	now      func() time.Time
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{nextID: 1, now: time.Now}
}

// Add encodes img and appends it
func (h *History) Add(img image.Image, f Format) (Capture, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return Capture{}, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	c := Capture{
		ID:        h.nextID,
		Format:    f,
		Data:      buf.Bytes(),
		Image:     img,
		CreatedAt: h.now(),
	}
	h.nextID++
	h.captures = append(h.captures, c)
	return c, nil
}

// Remove deletes the capture at index. Later captures shift down, so their
// default file names change with them.
func (h *History) Remove(index int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if index < 0 || index >= len(h.captures) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	h.captures = append(h.captures[:index], h.captures[index+1:]...)
	return nil
}

// Clear drops every capture
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.captures = nil
}

// Len returns the number of captures
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.captures)
}

// Get returns the capture at index
func (h *History) Get(index int) (Capture, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if index < 0 || index >= len(h.captures) {
		return Capture{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return h.captures[index], nil
}

// List returns a copy of all captures in order
func (h *History) List() []Capture {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Capture(nil), h.captures...)
}

// FileName returns the default download name for the capture at index
func FileName(index int, f Format) string {
	return fmt.Sprintf("capture-%d%s", index+1, f.Ext())
}

// Save writes the capture at index into dir and returns the file path
func (h *History) Save(index int, dir string) (string, error) {
	c, err := h.Get(index)
	if err != nil {
		return "", err
	}
	return writeCapture(filepath.Join(dir, FileName(index, c.Format)), c)
}

// SaveAs writes the capture at index to path
func (h *History) SaveAs(index int, path string) error {
	c, err := h.Get(index)
	if err != nil {
		return err
	}
	_, err = writeCapture(path, c)
	return err
}

// SaveAll writes every capture into dir and returns the paths
func (h *History) SaveAll(dir string) ([]string, error) {
	captures := h.List()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	paths := make([]string, 0, len(captures))
	for i, c := range captures {
		path, err := writeCapture(filepath.Join(dir, FileName(i, c.Format)), c)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCapture(path string, c Capture) (string, error) {
	if err := os.WriteFile(path, c.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write capture %d: %w", c.ID, err)
	}
	return path, nil
}
