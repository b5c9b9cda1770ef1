//go:build linux

package region

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// root is the directory POSIX-style shared-memory objects are created
// under. /dev/shm is the conventional mount point for POSIX shm on
// Linux; tests and non-default deployments may redirect it with
// SetRoot (wired from facade configuration, see package facade).
var root atomic.Value // string

func init() {
	root.Store("/dev/shm")
}

// SetRoot overrides the directory shared-memory objects are created
// under. Must be called before any Create.
func SetRoot(path string) {
	root.Store(path)
}

func shmPath(name string) string {
	return filepath.Join(root.Load().(string), name)
}

// mmapBackend is the Linux backend: a file under the shm root, memory
// mapped MAP_SHARED so multiple processes attaching by name observe the
// same bytes.
type mmapBackend struct {
	name string
	path string
	fd   int
	size int

	mu     sync.Mutex
	mapped []byte
	closed bool
}

func openBackend(name string, size int) (backend, error) {
	path := shmPath(name)

	created := true
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o600)
	if err != nil {
		if err != unix.EEXIST {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		created = false
		fd, err = unix.Open(path, unix.O_RDWR, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open existing %s: %w", path, err)
		}
	}

	if created {
		if err := unix.Ftruncate(fd, int64(size)); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("ftruncate %s: %w", path, err)
		}
	} else {
		st := unix.Stat_t{}
		if err := unix.Fstat(fd, &st); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("fstat %s: %w", path, err)
		}
		if int(st.Size) < size {
			if err := unix.Ftruncate(fd, int64(size)); err != nil {
				unix.Close(fd)
				return nil, fmt.Errorf("ftruncate existing %s: %w", path, err)
			}
		}
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	if created {
		for i := range data {
			data[i] = 0
		}
	}

	return &mmapBackend{name: name, path: path, fd: fd, size: size, mapped: data}, nil
}

func (m *mmapBackend) bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapped
}

func (m *mmapBackend) close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	if err := unix.Munmap(m.mapped); err != nil {
		return fmt.Errorf("munmap %s: %w", m.path, err)
	}
	return unix.Close(m.fd)
}

func (m *mmapBackend) unlink() error {
	if err := m.close(); err != nil {
		return err
	}
	if err := unix.Unlink(m.path); err != nil && err != unix.ENOENT {
		return fmt.Errorf("unlink %s: %w", m.path, err)
	}
	return nil
}
