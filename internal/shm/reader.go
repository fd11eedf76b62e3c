// Package shm maps the detector's POSIX shared memory object read-only.
//
// There is no handshake with the writer: the reader assumes the producer has
// finished writing before it runs. A torn read is possible if the two
// overlap. Fixing that needs a semaphore, sequence counter or generation
// number agreed with the producer.
package shm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/logger"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/pkg/types"
)

const (
	// DefaultName is the object name shared with the producer.
	DefaultName = "/ipc_dog_shm"
	// DefaultDir is where Linux backs POSIX shared memory objects.
	DefaultDir = "/dev/shm"
)

var (
	// ErrInvalidName is returned for names that are not a single path component.
	ErrInvalidName = errors.New("shm: invalid object name")
	// ErrTooSmall is returned when the object is smaller than the requested mapping.
	ErrTooSmall = errors.New("shm: object smaller than mapping")
	// ErrClosed is returned by Bytes after Close.
	ErrClosed = errors.New("shm: segment closed")
)

// Segment is a read-only mapping of a shared memory object.
type Segment struct {
	file *os.File
	data []byte
	name string
}

// Path resolves a POSIX shm name ("/ipc_dog_shm") to its backing file in dir.
func Path(dir, name string) (string, error) {
	base := strings.TrimPrefix(name, "/")
	if base == "" || strings.Contains(base, "/") || base == "." || base == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, base), nil
}

// Open maps the first size bytes of the named object in dir, read-only.
// Missing or inaccessible objects surface the underlying os error, so
// errors.Is(err, fs.ErrNotExist) and fs.ErrPermission work on the result.
func Open(dir, name string, size int) (*Segment, error) {
	path, err := Path(dir, name)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("shm: open %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: stat %s: %w", name, err)
	}
	if info.Size() < int64(size) {
		f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes, need %d", ErrTooSmall, name, info.Size(), size)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("shm: mmap %s: %w", name, err)
	}

	logger.Debug("Reader", "Mapped %s (%d bytes)", path, size)

	return &Segment{
		file: f,
		data: data,
		name: name,
	}, nil
}

// Name returns the object name the segment was opened with.
func (s *Segment) Name() string {
	return s.name
}

// Bytes returns the mapped region. The slice is invalid after Close.
func (s *Segment) Bytes() ([]byte, error) {
	if s.data == nil {
		return nil, ErrClosed
	}
	return s.data, nil
}

// Close unmaps the region and closes the descriptor. Safe to call twice.
func (s *Segment) Close() error {
	var errs []error
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil {
			errs = append(errs, fmt.Errorf("shm: munmap %s: %w", s.name, err))
		}
		s.data = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("shm: close %s: %w", s.name, err))
		}
		s.file = nil
	}
	return errors.Join(errs...)
}

// ReadRecordBytes copies the shared record bytes out of the named object.
// The mapping is released before returning on every path.
func ReadRecordBytes(dir, name string) (out []byte, err error) {
	seg, err := Open(dir, name, types.RecordSize)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := seg.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	data, err := seg.Bytes()
	if err != nil {
		return nil, err
	}

	out = make([]byte, len(data))
	copy(out, data)
	return out, nil
}
