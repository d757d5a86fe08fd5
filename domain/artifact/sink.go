// Package artifact persists debug images and recordings produced while fishing.
package artifact

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
)

// ErrIO reports a failed artifact write.
var ErrIO = errors.New("artifact: write failed")

// Sink stores named artifacts. Names are flat file names such as "status.png".
type Sink interface {
	SaveImage(name string, img image.Image) error
	SaveFile(name string, data []byte) error
}

// DirSink writes artifacts into a directory, overwriting existing files.
type DirSink struct {
	dir string
}

func NewDirSink(dir string) *DirSink { return &DirSink{dir: dir} }

// Dir returns the output directory.
func (s *DirSink) Dir() string { return s.dir }

// EnsureDir creates the output directory if it does not exist.
func (s *DirSink) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %q: %v", ErrIO, s.dir, err)
	}
	return nil
}

// SaveImage encodes img in the format implied by the name's extension.
func (s *DirSink) SaveImage(name string, img image.Image) error {
	path := filepath.Join(s.dir, name)
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIO, path, err)
	}
	return nil
}

func (s *DirSink) SaveFile(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIO, path, err)
	}
	return nil
}

// Discard drops every artifact.
type Discard struct{}

func (Discard) SaveImage(string, image.Image) error { return nil }
func (Discard) SaveFile(string, []byte) error        { return nil }

// Memory keeps artifacts in memory, keyed by name. Later writes replace
// earlier ones. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	images map[string]image.Image
	files  map[string][]byte
	writes []string
}

func NewMemory() *Memory {
	return &Memory{images: map[string]image.Image{}, files: map[string][]byte{}}
}

func (m *Memory) SaveImage(name string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[name] = img
	m.writes = append(m.writes, name)
	return nil
}

func (m *Memory) SaveFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	m.writes = append(m.writes, name)
	return nil
}

// Image returns the latest image stored under name.
func (m *Memory) Image(name string) (image.Image, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	img, ok := m.images[name]
	return img, ok
}

// File returns the latest data stored under name.
func (m *Memory) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[name]
	return b, ok
}

// Writes returns every write in order, including overwrites.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

// Names returns the distinct stored names, sorted.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.images)+len(m.files))
	for n := range m.images {
		names = append(names, n)
	}
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var (
	_ Sink = (*DirSink)(nil)
	_ Sink = Discard{}
	_ Sink = (*Memory)(nil)
)
