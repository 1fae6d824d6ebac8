package datastructure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/nxcore/datastore"
)

// NewForTest creates data structure with memory budget, closed when test finishes.
func NewForTest(t testing.TB, totalMemory uint64) *DataStructure {
	ds := New(Config{
		Factory: datastore.NewFactoryForTest(t, totalMemory),
	})
	t.Cleanup(func() {
		require.NoError(t, ds.Close())
	})
	return ds
}
