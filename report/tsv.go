package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/structs"
	"github.com/tebeka/atexit"
)

type tsvTable struct {
	file   *os.File
	writer *bufio.Writer
}

// tsvWriter appends every table to its own tab separated file.
type tsvWriter struct {
	dir    string
	prefix string
	tables map[string]*tsvTable
}

// NewTSVRecorder creates a DataRecorder that appends rows of table t to
// dir/prefix_t.tsv. A header line is written only when the file is new.
func NewTSVRecorder(dir, prefix string) (DataRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	w := &tsvWriter{
		dir:    dir,
		prefix: prefix,
		tables: make(map[string]*tsvTable),
	}

	atexit.Register(func() { w.Flush() })

	return w, nil
}

func (w *tsvWriter) path(tableName string) string {
	name := tableName + ".tsv"
	if w.prefix != "" {
		name = w.prefix + "_" + name
	}

	return filepath.Join(w.dir, name)
}

func (w *tsvWriter) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	f, err := os.OpenFile(w.path(tableName),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		panic(err)
	}

	info, err := f.Stat()
	if err != nil {
		panic(err)
	}

	t := &tsvTable{file: f, writer: bufio.NewWriter(f)}
	if info.Size() == 0 {
		fmt.Fprintln(t.writer, strings.Join(structs.Names(sampleEntry), "\t"))
	}

	w.tables[tableName] = t
}

func (w *tsvWriter) InsertData(tableName string, entry any) {
	t, ok := w.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	values := structs.Values(entry)
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = formatCell(v)
	}

	fmt.Fprintln(t.writer, strings.Join(cells, "\t"))
}

func formatCell(v any) string {
	switch v := v.(type) {
	case float64:
		if math.IsNaN(v) {
			return "NaN"
		}

		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (w *tsvWriter) ListTables() []string {
	tables := make([]string, 0, len(w.tables))
	for name := range w.tables {
		tables = append(tables, name)
	}

	sort.Strings(tables)

	return tables
}

func (w *tsvWriter) Flush() {
	for name, t := range w.tables {
		if err := t.writer.Flush(); err != nil {
			panic(fmt.Errorf("flush %s: %w", name, err))
		}
	}
}

func (w *tsvWriter) Close() error {
	w.Flush()

	var firstErr error
	for _, t := range w.tables {
		if err := t.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	w.tables = make(map[string]*tsvTable)

	return firstErr
}
