package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string

	// WindowKind represents the kind of time window applied to a series.
	WindowKind string

	// TrendDirection represents the sign of a fitted slope.
	TrendDirection string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All window kinds supported.
const (
	WindowAll   WindowKind = "all" // default
	WindowLastN WindowKind = "last"
	WindowSince WindowKind = "since"
)

// All trend directions.
const (
	TrendRising  TrendDirection = "Rising"
	TrendFalling TrendDirection = "Falling"
	TrendFlat    TrendDirection = "Flat"
)

// BaselinePeriod is the period growth is measured against when present.
const BaselinePeriod = "2000"

// InvalidPlaceholder is shown in place of numbers that cannot be displayed.
const InvalidPlaceholder = "--"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidLastN lists the observation counts accepted by a lastN window.
var ValidLastN = map[int]struct{}{
	5:  {},
	10: {},
	20: {},
	30: {},
}
