// Package report implements the reporting sink of a run: append-only tables
// of aggregation changes, KPI snapshots, station positions and per-flow
// summaries, written to SQLite, tab separated files or ClickHouse.
package report

import (
	"fmt"
	"reflect"

	"github.com/fatih/structs"
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes a same-type entry into a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns a slice containing names of all tables
	ListTables() []string

	// Flush flushes all the buffered entries into the backend.
	Flush()

	// Close flushes and releases the backend.
	Close() error
}

func isAllowedKind(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// checkStructFields makes sure an entry is a flat struct of scalar fields.
func checkStructFields(entry any) error {
	if !structs.IsStruct(entry) {
		return fmt.Errorf("entry %T is not a struct", entry)
	}

	for _, f := range structs.Fields(entry) {
		if !f.IsExported() {
			return fmt.Errorf("entry %T: field %s is not exported",
				entry, f.Name())
		}

		if !isAllowedKind(f.Kind()) {
			return fmt.Errorf("entry %T: field %s has unsupported kind %s",
				entry, f.Name(), f.Kind())
		}
	}

	return nil
}
