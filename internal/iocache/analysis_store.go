package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable  = "macrodash_analysis_runs"
	seriesResultsTable = "macrodash_series_results"
)

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the analysis tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{analysisRunsTable, getCreateAnalysisRunsQuery(backend)},
		{seriesResultsTable, getCreateSeriesResultsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateAnalysisRunsQuery returns the CREATE TABLE query for macrodash_analysis_runs.
func getCreateAnalysisRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(analysisRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_series_processed INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_series_processed INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_series_processed INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateSeriesResultsQuery returns the CREATE TABLE query for macrodash_series_results.
func getCreateSeriesResultsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(seriesResultsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				indicator VARCHAR(64) NOT NULL,
				entity VARCHAR(8) NOT NULL,
				unit VARCHAR(32) NOT NULL,
				window_sel VARCHAR(32) NOT NULL,
				analysis_time DATETIME(6) NOT NULL,
				observations INT NOT NULL,
				start_period VARCHAR(16),
				end_period VARCHAR(16),
				latest_value DOUBLE,
				peak_period VARCHAR(16),
				peak_value DOUBLE,
				growth DOUBLE,
				mean_value DOUBLE,
				median_value DOUBLE,
				std_dev DOUBLE,
				slope DOUBLE,
				intercept DOUBLE,
				r_squared DOUBLE,
				PRIMARY KEY (analysis_id, indicator, entity, unit, window_sel)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id BIGINT NOT NULL,
				indicator TEXT NOT NULL,
				entity TEXT NOT NULL,
				unit TEXT NOT NULL,
				window_sel TEXT NOT NULL,
				analysis_time TIMESTAMPTZ NOT NULL,
				observations INT NOT NULL,
				start_period TEXT,
				end_period TEXT,
				latest_value DOUBLE PRECISION,
				peak_period TEXT,
				peak_value DOUBLE PRECISION,
				growth DOUBLE PRECISION,
				mean_value DOUBLE PRECISION,
				median_value DOUBLE PRECISION,
				std_dev DOUBLE PRECISION,
				slope DOUBLE PRECISION,
				intercept DOUBLE PRECISION,
				r_squared DOUBLE PRECISION,
				PRIMARY KEY (analysis_id, indicator, entity, unit, window_sel)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				analysis_id INTEGER NOT NULL,
				indicator TEXT NOT NULL,
				entity TEXT NOT NULL,
				unit TEXT NOT NULL,
				window_sel TEXT NOT NULL,
				analysis_time TEXT NOT NULL,
				observations INTEGER NOT NULL,
				start_period TEXT,
				end_period TEXT,
				latest_value REAL,
				peak_period TEXT,
				peak_value REAL,
				growth REAL,
				mean_value REAL,
				median_value REAL,
				std_dev REAL,
				slope REAL,
				intercept REAL,
				r_squared REAL,
				PRIMARY KEY (analysis_id, indicator, entity, unit, window_sel)
			);
		`, quotedTableName)
	}
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	runUUID := uuid.NewString()

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES ($1, $2, $3) RETURNING analysis_id`, quotedTableName)
		err = as.db.QueryRow(query, runUUID, startTime, string(configJSON)).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = as.db.Exec(query, runUUID, formatTime(startTime, as.backend), string(configJSON))
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}
	return analysisID, nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalSeries int) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quotedTableName, as.placeholder(1))

	startTime, err := scanTime(as.db.QueryRow(query, analysisID), as.backend)
	if err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_series_processed = %s WHERE analysis_id = %s`,
		quotedTableName, as.placeholder(1), as.placeholder(2), as.placeholder(3), as.placeholder(4))
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalSeries, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}
	return nil
}

// RecordSeriesResult stores the summary, statistics and trend computed for one series.
func (as *AnalysisStoreImpl) RecordSeriesResult(analysisID int64, metrics schema.SeriesMetrics) error {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(seriesResultsTable, as.backend)
	placeholders := make([]any, 19)
	for i := range placeholders {
		placeholders[i] = as.placeholder(i + 1)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (analysis_id, indicator, entity, unit, window_sel, analysis_time, observations,
		                start_period, end_period, latest_value, peak_period, peak_value, growth,
		                mean_value, median_value, std_dev, slope, intercept, r_squared)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
	`, append([]any{quotedTableName}, placeholders...)...)

	rec := seriesResultFromMetrics(analysisID, metrics)
	args := []any{
		rec.AnalysisID, rec.Indicator, rec.Entity, rec.Unit, rec.WindowSel,
		formatTime(rec.AnalysisTime, as.backend), rec.Observations,
		rec.StartPeriod, rec.EndPeriod, rec.LatestValue, rec.PeakPeriod, rec.PeakValue, rec.Growth,
		rec.Mean, rec.Median, rec.StdDev, rec.Slope, rec.Intercept, rec.RSquared,
	}

	if _, err := as.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert series result: %w", err)
	}
	return nil
}

// seriesResultFromMetrics flattens metrics into a row, leaving absent or non-finite values nil.
func seriesResultFromMetrics(analysisID int64, m schema.SeriesMetrics) schema.SeriesResultRecord {
	rec := schema.SeriesResultRecord{
		AnalysisID:   analysisID,
		Indicator:    m.Indicator,
		Entity:       m.Entity,
		Unit:         m.Unit,
		WindowSel:    m.Window,
		AnalysisTime: m.AnalysisTime,
		Observations: int32(m.Observations),
	}
	if s := m.Summary; s != nil {
		rec.StartPeriod = &s.StartPeriod
		rec.EndPeriod = &s.EndPeriod
		rec.LatestValue = schema.FiniteOrNil(s.LatestValue)
		rec.PeakPeriod = &s.Peak.Period
		rec.PeakValue = schema.FiniteOrNil(s.Peak.Value)
		rec.Growth = schema.FiniteOrNil(s.GrowthSinceBaseline)
	}
	if d := m.Stats; d != nil {
		rec.Mean = schema.FiniteOrNil(d.Mean)
		rec.Median = schema.FiniteOrNil(d.Median)
		rec.StdDev = schema.FiniteOrNil(d.StdDev)
	}
	if t := m.Trend; t != nil {
		rec.Slope = schema.FiniteOrNil(t.Slope)
		rec.Intercept = schema.FiniteOrNil(t.Intercept)
		rec.RSquared = schema.FiniteOrNil(t.RSquared)
	}
	return rec
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}

	if as.backend == schema.NoneBackend || as.db == nil {
		return status, nil
	}

	quotedRuns := quoteTableName(analysisRunsTable, as.backend)
	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedRuns)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		row := as.db.QueryRow(fmt.Sprintf("SELECT analysis_id FROM %s ORDER BY analysis_id DESC LIMIT 1", quotedRuns))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		lastRunTime, err := scanTime(as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", quotedRuns)), as.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunTime, err := scanTime(as.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", quotedRuns)), as.backend)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		seriesQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_series_processed), 0) FROM %s", quotedRuns)
		if err := as.db.QueryRow(seriesQuery).Scan(&status.TotalSeriesProcessed); err != nil {
			return status, fmt.Errorf("failed to get total series processed: %w", err)
		}
	}

	for _, table := range []string{analysisRunsTable, seriesResultsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))
		if err := as.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, run_uuid, start_time, end_time, run_duration_ms, total_series_processed, config_params
		FROM %s ORDER BY analysis_id`, quoteTableName(analysisRunsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord

		switch as.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.AnalysisID, &record.RunUUID, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.TotalSeriesProcessed, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
			if record.StartTime, err = time.Parse(time.RFC3339Nano, startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.AnalysisID, &record.RunUUID, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.TotalSeriesProcessed, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan analysis run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}
	return results, nil
}

// GetAllSeriesResults retrieves all recorded series results from the store.
func (as *AnalysisStoreImpl) GetAllSeriesResults() ([]schema.SeriesResultRecord, error) {
	if as.backend == schema.NoneBackend || as.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, indicator, entity, unit, window_sel, analysis_time, observations,
		start_period, end_period, latest_value, peak_period, peak_value, growth,
		mean_value, median_value, std_dev, slope, intercept, r_squared
		FROM %s ORDER BY analysis_id, indicator, entity`, quoteTableName(seriesResultsTable, as.backend))

	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query series results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SeriesResultRecord
	for rows.Next() {
		var r schema.SeriesResultRecord
		var analysisTimeStr string
		var analysisTimeDest any = &r.AnalysisTime
		if as.backend == schema.SQLiteBackend {
			analysisTimeDest = &analysisTimeStr
		}

		if err := rows.Scan(&r.AnalysisID, &r.Indicator, &r.Entity, &r.Unit, &r.WindowSel, analysisTimeDest, &r.Observations,
			&r.StartPeriod, &r.EndPeriod, &r.LatestValue, &r.PeakPeriod, &r.PeakValue, &r.Growth,
			&r.Mean, &r.Median, &r.StdDev, &r.Slope, &r.Intercept, &r.RSquared); err != nil {
			return nil, fmt.Errorf("failed to scan series result: %w", err)
		}
		if as.backend == schema.SQLiteBackend {
			if r.AnalysisTime, err = time.Parse(time.RFC3339Nano, analysisTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse analysis_time: %w", err)
			}
		}

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series results: %w", err)
	}
	return results, nil
}

// placeholder returns the n-th bind parameter for the backend.
func (as *AnalysisStoreImpl) placeholder(n int) string {
	if as.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// scanTime reads a single time column, which SQLite stores as text.
func scanTime(row *sql.Row, backend schema.DatabaseBackend) (time.Time, error) {
	if backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t
	}
}
