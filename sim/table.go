package sim

import (
	"fmt"
	"os"
	"path/filepath"
)

// Table is one shared resource: an append-only backing file guarded by its
// own ReaderWriterLock. Appends happen only while the caller holds write
// access, so they need no lock of their own.
type Table struct {
	ID      int    // 0-indexed
	Name    string // file name, also used in timeline lines
	Path    string
	Lock    *ReaderWriterLock
	Metrics *TableMetrics
}

// TableName returns the file name of the table with the given 1-indexed id.
func TableName(tableID int) string {
	return fmt.Sprintf("tbl%d.txt", tableID)
}

// NewTable creates (or truncates) the backing file for the 0-indexed table id.
func NewTable(dir string, id int) (*Table, error) {
	name := TableName(id + 1)
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: creating table %s: %v", ErrResource, path, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing table %s: %v", ErrResource, path, err)
	}
	return &Table{
		ID:      id,
		Name:    name,
		Path:    path,
		Lock:    NewReaderWriterLock(),
		Metrics: &TableMetrics{},
	}, nil
}

// Append writes one payload line to the backing file. The caller must hold
// write access to the table.
func (t *Table) Append(payload string) error {
	file, err := os.OpenFile(t.Path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrAppend, t.Name, err)
	}
	n, err := fmt.Fprintf(file, "%s\n", payload)
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("%w: writing %s: %v", ErrAppend, t.Name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", ErrAppend, t.Name, err)
	}
	t.Metrics.BytesAppended.Add(int64(n))
	return nil
}
