package test

import (
	"context"
	"sort"
	"testing"

	"golang.org/x/exp/constraints"

	"github.com/outofforest/logger"
)

// NewContext returns context carrying the logger, canceled when test finishes.
func NewContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig)))
	t.Cleanup(cancel)
	return ctx
}

// Sorted returns sorted copy of values.
func Sorted[T constraints.Ordered](values []T) []T {
	sorted := append([]T{}, values...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	return sorted
}

// Sequence returns values from 1 to n.
func Sequence[T constraints.Integer | constraints.Float](n int) []T {
	values := make([]T, 0, n)
	for i := 1; i <= n; i++ {
		values = append(values, T(i))
	}
	return values
}
