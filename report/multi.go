package report

import "sort"

// multiRecorder fans every call out to several recorders.
type multiRecorder struct {
	recorders []DataRecorder
}

// NewMultiRecorder returns a DataRecorder that writes to all the given
// recorders.
func NewMultiRecorder(recorders ...DataRecorder) DataRecorder {
	return &multiRecorder{recorders: recorders}
}

func (m *multiRecorder) CreateTable(tableName string, sampleEntry any) {
	for _, r := range m.recorders {
		r.CreateTable(tableName, sampleEntry)
	}
}

func (m *multiRecorder) InsertData(tableName string, entry any) {
	for _, r := range m.recorders {
		r.InsertData(tableName, entry)
	}
}

func (m *multiRecorder) ListTables() []string {
	seen := make(map[string]bool)
	for _, r := range m.recorders {
		for _, t := range r.ListTables() {
			seen[t] = true
		}
	}

	tables := make([]string, 0, len(seen))
	for t := range seen {
		tables = append(tables, t)
	}

	sort.Strings(tables)

	return tables
}

func (m *multiRecorder) Flush() {
	for _, r := range m.recorders {
		r.Flush()
	}
}

func (m *multiRecorder) Close() error {
	var firstErr error
	for _, r := range m.recorders {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
