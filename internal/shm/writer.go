package shm

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/logger"
)

// WriteObject creates (or reuses) the named object, sizes it to
// len(payload), zero fills it and copies payload in through a shared
// mapping. This is the producer half of the exchange and exists for
// seeding and tests.
func WriteObject(dir, name string, payload []byte) (err error) {
	if len(payload) == 0 {
		return fmt.Errorf("shm: empty payload for %s", name)
	}

	path, err := Path(dir, name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return fmt.Errorf("shm: create %s: %w", name, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("shm: close %s: %w", name, cerr)
		}
	}()

	if err := f.Truncate(int64(len(payload))); err != nil {
		return fmt.Errorf("shm: truncate %s: %w", name, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, len(payload), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("shm: mmap %s: %w", name, err)
	}

	clear(data)
	copy(data, payload)

	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("shm: munmap %s: %w", name, err)
	}

	logger.Debug("Writer", "Wrote %d bytes to %s", len(payload), path)
	return nil
}

// Remove unlinks the named object. A missing object is not an error.
func Remove(dir, name string) error {
	path, err := Path(dir, name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("shm: unlink %s: %w", name, err)
	}
	return nil
}
