package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/qdoyonnas/treediff/internal/diff"
)

// RenderOperations writes the human-readable diff, one operation per line.
func RenderOperations(w io.Writer, operations []diff.Operation) {
	for _, op := range operations {
		fmt.Fprintln(w, op)
	}
}

// WriteOperationsJSON writes the diff as a machine-readable JSON array.
func WriteOperationsJSON(path string, operations []diff.Operation) error {
	if operations == nil {
		operations = []diff.Operation{}
	}
	data, err := json.MarshalIndent(operations, "", "  ")
	if err != nil {
		return fmt.Errorf("encode operations: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write operations %s: %w", path, err)
	}
	return nil
}
