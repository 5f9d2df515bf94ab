package invoiceModel

import (
	"context"
	"time"
)

// RawTable is a spreadsheet as loaded from disk: header plus string cells,
// nothing parsed yet.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Record is one invoice row that survived normalization.
type Record struct {
	Row     int //source row index, keeps document keys stable
	Date    time.Time
	Client  string
	Country string
	Amount  float64
	Month   int
	Year    int
}

// Canonical field names every ingested table must map onto.
const (
	FieldDate    = "date"
	FieldClient  = "client"
	FieldCountry = "country"
	FieldAmount  = "amount"
)

func CanonicalFields() []string {
	return []string{FieldDate, FieldClient, FieldCountry, FieldAmount}
}

// ColumnMapping associates canonical field names with column names of an
// uploaded table. Only used at ingestion time.
type ColumnMapping map[string]string

const (
	DocKindRecord  = "record"
	DocKindSummary = "summary"
	DocKindError   = "error"

	SummaryOverall   = "overall"
	SummaryByClient  = "by-client"
	SummaryByCountry = "by-country"
	SummaryByMonth   = "by-month"
)

// Document is one retrievable unit of text plus its tag set. Immutable once
// created; Key is unique within a collection generation.
type Document struct {
	Key  string
	Text string
	Tags map[string]any
}

type RebuildResult struct {
	Generation string
	RowsLoaded int
	RowsValid  int
	Documents  int
}

type QueryResult struct {
	Context         string
	HasRelevantInfo bool
}

type DatasetStatus string

const (
	DatasetStatusIndexed DatasetStatus = "INDEXED"
	DatasetStatusFailed  DatasetStatus = "FAILED"
)

// DatasetInfo is the audit record written after every rebuild.
type DatasetInfo struct {
	Id          string        `json:"id"`
	FileName    string        `json:"file_name"`
	StoredPath  string        `json:"stored_path"`
	Columns     []string      `json:"columns"`
	RowsLoaded  int           `json:"rows_loaded"`
	RowsIndexed int           `json:"rows_indexed"`
	Generation  string        `json:"generation"`
	Status      DatasetStatus `json:"status"`
	CreatedTime time.Time     `json:"created_time"`
}

type DatasetStore interface {
	SaveDataset(ctx context.Context, info DatasetInfo) error
	GetDataset(ctx context.Context, id string) (DatasetInfo, bool)
	LatestDataset(ctx context.Context) (DatasetInfo, bool)
}
