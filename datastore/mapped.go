package datastore

import (
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// newMappedFile creates temporary file in the directory and maps it into memory.
func newMappedFile(dir string, size uint64) (*mappedFile, unsafe.Pointer, error) {
	file, err := os.CreateTemp(dir, "nxcore-*.bin")
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	m := &mappedFile{file: file}
	p, err := m.Resize(size)
	if err != nil {
		_ = m.Close()
		return nil, nil, err
	}
	return m, p, nil
}

// mappedFile is the out-of-core backing of a data store. Elements live in the file mapped into memory, so the
// kernel pages them in and out on demand.
type mappedFile struct {
	file *os.File
	data []byte
}

func (m *mappedFile) Format() string {
	return FormatMapped
}

// Resize changes the size of the file and remaps it. Content of the retained prefix is preserved by the file.
func (m *mappedFile) Resize(size uint64) (unsafe.Pointer, error) {
	if err := m.unmap(); err != nil {
		return nil, err
	}
	if err := m.file.Truncate(int64(size)); err != nil {
		return nil, errors.Wrapf(err, "resizing file %s failed", m.file.Name())
	}
	if size == 0 {
		return nil, nil
	}

	data, err := unix.Mmap(int(m.file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(err, "memory mapping failed")
	}
	m.data = data
	return unsafe.Pointer(&data[0]), nil
}

// Sync flushes mapped pages to the file.
func (m *mappedFile) Sync() error {
	if m.data != nil {
		if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(m.file.Sync())
}

func (m *mappedFile) Close() error {
	err := m.unmap()
	if cErr := m.file.Close(); err == nil {
		err = errors.WithStack(cErr)
	}
	if rErr := os.Remove(m.file.Name()); err == nil && !os.IsNotExist(rErr) {
		err = errors.WithStack(rErr)
	}
	return err
}

func (m *mappedFile) unmap() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	return errors.WithStack(unix.Munmap(data))
}
