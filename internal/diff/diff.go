// Package diff compares two fingerprint sets and emits the operations
// needed to transform a mirror of the reference tree into the current one.
package diff

import (
	"fmt"

	"github.com/qdoyonnas/treediff/internal/fingerprint"
)

// Op is the kind of a diff operation.
type Op string

const (
	OpCreate Op = "create"
	OpDelete Op = "delete"
	OpCopy   Op = "copy"
)

// Operation is one step of the resynchronization: create, delete, or
// re-copy the entry at Path.
type Operation struct {
	Op   Op     `json:"op"`
	Path string `json:"path"`
}

func (o Operation) String() string {
	return fmt.Sprintf("%s `%s`", o.Op, o.Path)
}

// Compute classifies every path in either set. A path only in the
// reference is a delete; only in the current, a create; in both with
// different chunk sequences (a directory becoming a file counts), a copy;
// identical content yields no operation. Renames are not detected: a moved
// file is always an independent delete plus create.
//
// Output order is fixed for reproducibility: reference paths in sorted
// order (emitting delete and copy), then current-only paths in sorted
// order (emitting create).
func Compute(reference, current *fingerprint.Set) []Operation {
	var operations []Operation

	for _, path := range reference.Paths() {
		ref, _ := reference.Get(path)
		cur, ok := current.Get(path)
		switch {
		case !ok:
			operations = append(operations, Operation{Op: OpDelete, Path: path})
		case !ref.EqualContent(cur):
			operations = append(operations, Operation{Op: OpCopy, Path: path})
		}
	}

	for _, path := range current.Paths() {
		if _, ok := reference.Get(path); !ok {
			operations = append(operations, Operation{Op: OpCreate, Path: path})
		}
	}

	return operations
}
