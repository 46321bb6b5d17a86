package report

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/fatih/structs"
	"github.com/tebeka/atexit"
)

// ClickHouseOptions locates the ClickHouse server.
type ClickHouseOptions struct {
	Host      string
	Port      int
	Database  string
	Username  string
	Password  string
	BatchSize int
}

type clickhouseTable struct {
	structType reflect.Type
	entries    []any
}

type clickhouseRecorder struct {
	conn       clickhouse.Conn
	tables     map[string]*clickhouseTable
	batchSize  int
	entryCount int
}

// NewClickHouseRecorder connects to a ClickHouse server and returns a
// DataRecorder that batches rows into MergeTree tables.
func NewClickHouseRecorder(opts ClickHouseOptions) (DataRecorder, error) {
	if opts.BatchSize == 0 {
		opts.BatchSize = 100000
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", opts.Host, opts.Port)},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		DialTimeout:      10 * time.Second,
		MaxOpenConns:     2,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	r := &clickhouseRecorder{
		conn:      conn,
		tables:    make(map[string]*clickhouseTable),
		batchSize: opts.BatchSize,
	}

	atexit.Register(func() { r.Flush() })

	return r, nil
}

var clickhouseTypes = map[reflect.Kind]string{
	reflect.Bool:    "Bool",
	reflect.Int:     "Int64",
	reflect.Int8:    "Int8",
	reflect.Int16:   "Int16",
	reflect.Int32:   "Int32",
	reflect.Int64:   "Int64",
	reflect.Uint:    "UInt64",
	reflect.Uint8:   "UInt8",
	reflect.Uint16:  "UInt16",
	reflect.Uint32:  "UInt32",
	reflect.Uint64:  "UInt64",
	reflect.Float32: "Float32",
	reflect.Float64: "Float64",
	reflect.String:  "String",
}

// clickhouseCreateTableSQL derives a MergeTree table from the fields of a row
// struct. Rows are ordered by their first column.
func clickhouseCreateTableSQL(tableName string, sampleEntry any) (string, error) {
	if err := checkStructFields(sampleEntry); err != nil {
		return "", err
	}

	fields := structs.Fields(sampleEntry)
	columns := make([]string, 0, len(fields))

	for _, f := range fields {
		columns = append(columns,
			fmt.Sprintf("%s %s", f.Name(), clickhouseTypes[f.Kind()]))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n) ENGINE = MergeTree()\nORDER BY %s",
		tableName, strings.Join(columns, ",\n\t"), fields[0].Name()), nil
}

func (r *clickhouseRecorder) CreateTable(tableName string, sampleEntry any) {
	createSQL, err := clickhouseCreateTableSQL(tableName, sampleEntry)
	if err != nil {
		panic(err)
	}

	err = r.conn.Exec(context.Background(), createSQL)
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	r.tables[tableName] = &clickhouseTable{
		structType: reflect.TypeOf(sampleEntry),
	}
}

func (r *clickhouseRecorder) InsertData(tableName string, entry any) {
	t, ok := r.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != t.structType {
		panic(fmt.Sprintf("table %s expects %s, got %T",
			tableName, t.structType, entry))
	}

	t.entries = append(t.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.Flush()
	}
}

func (r *clickhouseRecorder) ListTables() []string {
	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	sort.Strings(tables)

	return tables
}

func (r *clickhouseRecorder) Flush() {
	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for name, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO "+name)
		if err != nil {
			panic(fmt.Errorf("failed to prepare batch for %s: %w", name, err))
		}

		for _, entry := range t.entries {
			if err := batch.Append(structs.Values(entry)...); err != nil {
				panic(fmt.Errorf("failed to append to %s: %w", name, err))
			}
		}

		if err := batch.Send(); err != nil {
			panic(fmt.Errorf("failed to send batch for %s: %w", name, err))
		}

		t.entries = nil
	}

	r.entryCount = 0
}

func (r *clickhouseRecorder) Close() error {
	r.Flush()
	return r.conn.Close()
}
