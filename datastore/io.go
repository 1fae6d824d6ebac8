package datastore

import (
	"bytes"
	"io"
	"os"
	"unsafe"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"

	"github.com/outofforest/nxcore/result"
	"github.com/outofforest/nxcore/types"
	"github.com/outofforest/photon"
)

// DefaultChunkSize is the default number of elements read at once from binary file.
const DefaultChunkSize = 1_000_000

// ImportFromBinaryFile fills the store with raw little-endian elements read from the file starting at the byte offset.
func ImportFromBinaryFile[T types.Primitive](path string, store AbstractDataStore[T], startByte int64, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	file, err := os.Open(path)
	if err != nil {
		return result.Errorf(result.ErrIO, CodeFileOpen, "Unable to open the specified file. '%s': %s", path, err)
	}
	defer file.Close()

	if _, err := file.Seek(startByte, io.SeekStart); err != nil {
		return result.Errorf(result.ErrIO, CodeFileRead, "Unable to seek to byte %d in file '%s': %s", startByte, path,
			err)
	}

	values := store.Values()
	for offset := 0; offset < len(values); {
		n := min(chunkSize, len(values)-offset)
		if _, err := io.ReadFull(file, bytesOf(values[offset:offset+n])); err != nil {
			return result.Errorf(result.ErrIO, CodeFileRead,
				"Reading %d elements from file '%s' at element %d failed: %s", n, path, offset, err)
		}
		offset += n
	}
	return store.Flush()
}

// Checksum computes hash of the elements stored in the store.
func Checksum[T types.Primitive](store AbstractDataStore[T]) (uint64, error) {
	if store.IsPlaceholder() {
		return 0, errors.New("placeholder store has no content")
	}
	return xxhash.Sum64(bytesOf(store.Values())), nil
}

// Equal reports whether both stores hold bitwise identical elements. Checksums are compared first, matching ones
// are confirmed element by element.
func Equal[T types.Primitive](a, b AbstractDataStore[T]) (bool, error) {
	if a.Size() != b.Size() {
		return false, nil
	}
	ca, err := Checksum(a)
	if err != nil {
		return false, err
	}
	cb, err := Checksum(b)
	if err != nil {
		return false, err
	}
	if ca != cb {
		return false, nil
	}
	return bytes.Equal(bytesOf(a.Values()), bytesOf(b.Values())), nil
}

func bytesOf[T types.Primitive](values []T) []byte {
	if len(values) == 0 {
		return nil
	}
	return photon.SliceFromPointer[byte](unsafe.Pointer(&values[0]), len(values)*int(unsafe.Sizeof(values[0])))
}
