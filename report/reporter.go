package report

// AggregationRecorder receives every aggregation change.
type AggregationRecorder interface {
	RecordAggregationChange(row AggregationChange)
}

// KPIRecorder receives periodic KPI snapshots and end-of-run summaries.
type KPIRecorder interface {
	RecordKPISnapshot(row KPISnapshot)
	RecordFlowSummary(row FlowSummary)
}

// PositionRecorder receives periodic station positions.
type PositionRecorder interface {
	RecordPosition(row Position)
}

// Sink accepts every kind of row a run produces.
type Sink interface {
	AggregationRecorder
	KPIRecorder
	PositionRecorder
}

// RowWriter is a Sink that writes rows into a DataRecorder.
type RowWriter struct {
	recorder DataRecorder
}

// NewRowWriter creates the report tables in the recorder.
func NewRowWriter(recorder DataRecorder) *RowWriter {
	recorder.CreateTable(TableAggregationChanges, AggregationChange{})
	recorder.CreateTable(TableKPISnapshots, KPISnapshot{})
	recorder.CreateTable(TablePositions, Position{})
	recorder.CreateTable(TableFlowSummaries, FlowSummary{})

	return &RowWriter{recorder: recorder}
}

// RecordAggregationChange appends an aggregation change row.
func (r *RowWriter) RecordAggregationChange(row AggregationChange) {
	r.recorder.InsertData(TableAggregationChanges, row)
}

// RecordKPISnapshot appends a KPI snapshot row.
func (r *RowWriter) RecordKPISnapshot(row KPISnapshot) {
	r.recorder.InsertData(TableKPISnapshots, row)
}

// RecordPosition appends a position row.
func (r *RowWriter) RecordPosition(row Position) {
	r.recorder.InsertData(TablePositions, row)
}

// RecordFlowSummary appends a flow summary row.
func (r *RowWriter) RecordFlowSummary(row FlowSummary) {
	r.recorder.InsertData(TableFlowSummaries, row)
}

// Flush pushes buffered rows to the backend.
func (r *RowWriter) Flush() {
	r.recorder.Flush()
}

// Close flushes and closes the backend.
func (r *RowWriter) Close() error {
	return r.recorder.Close()
}

// Discard is a Sink that drops every row.
var Discard Sink = discard{}

type discard struct{}

func (discard) RecordAggregationChange(AggregationChange) {}
func (discard) RecordKPISnapshot(KPISnapshot)             {}
func (discard) RecordPosition(Position)                   {}
func (discard) RecordFlowSummary(FlowSummary)             {}
