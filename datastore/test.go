package datastore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// NewFactoryForTest creates factory with the memory budget and out-of-core format stored in the test's temporary
// directory.
func NewFactoryForTest(t testing.TB, totalMemory uint64) *Factory {
	f, err := NewFactory(Config{
		TotalMemory: totalMemory,
		MappedDir:   t.TempDir(),
	})
	require.NoError(t, err)
	return f
}
