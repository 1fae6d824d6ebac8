package datastructure

import (
	"slices"
	"strings"
)

// PathSeparator separates names in the string form of a path.
const PathSeparator = "/"

// DataPath identifies object by the names of all its ancestors. Empty path is the root.
type DataPath []string

// NewDataPath creates path from names.
func NewDataPath(names ...string) DataPath {
	return DataPath(slices.Clone(names))
}

// ParseDataPath parses string form of a path.
func ParseDataPath(s string) DataPath {
	s = strings.Trim(s, PathSeparator)
	if s == "" {
		return DataPath{}
	}
	return strings.Split(s, PathSeparator)
}

// IsRoot reports whether path points to the root.
func (p DataPath) IsRoot() bool {
	return len(p) == 0
}

// Name returns the last name in the path.
func (p DataPath) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns path of the parent.
func (p DataPath) Parent() DataPath {
	if len(p) == 0 {
		return DataPath{}
	}
	return slices.Clone(p[:len(p)-1])
}

// Child returns path of the child.
func (p DataPath) Child(name string) DataPath {
	return append(slices.Clone(p), name)
}

// Equal compares paths.
func (p DataPath) Equal(p2 DataPath) bool {
	return slices.Equal(p, p2)
}

// String returns string form of the path.
func (p DataPath) String() string {
	return strings.Join(p, PathSeparator)
}
