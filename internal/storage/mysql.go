package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"regexp"

	"github.com/go-sql-driver/mysql"

	"utest/internal/config"
	"utest/internal/domain"
)

// ErrNoRuns is returned by Load when the history table is empty.
var ErrNoRuns = errors.New("no saved runs")

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// MySQLStorage keeps the history of runs in a MySQL table, one row per run
// with the full report stored as JSON.
type MySQLStorage struct {
	db    *sql.DB
	table string
}

// NewMySQLStorage opens the database described by cfg and makes sure the
// history table exists.
func NewMySQLStorage(cfg *config.Config) (*MySQLStorage, error) {
	dsn, err := mysqlDSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database server: %w", err)
	}
	st, err := NewMySQLStorageDB(db, cfg.DB.Table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}

// NewMySQLStorageDB wraps an open database handle.
func NewMySQLStorageDB(db *sql.DB, table string) (*MySQLStorage, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database server: %w", err)
	}
	st := &MySQLStorage{db: db, table: table}
	if err := st.migrate(); err != nil {
		return nil, err
	}
	return st, nil
}

// mysqlDSN returns the driver DSN for cfg. An explicit DSN wins over the
// individual connection settings. Time parsing is always enabled.
func mysqlDSN(cfg *config.Config) (string, error) {
	var mc *mysql.Config
	if cfg.DB.DSN != "" {
		parsed, err := mysql.ParseDSN(cfg.DB.DSN)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DB.Host, cfg.DB.Port)
		mc.User = cfg.DB.User
		mc.Passwd = cfg.DB.Password
		mc.DBName = cfg.DB.Name
	}
	if mc.DBName == "" {
		return "", errors.New("mysql storage needs a database name")
	}
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}

func (s *MySQLStorage) migrate() error {
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"id BIGINT AUTO_INCREMENT PRIMARY KEY, "+
		"run_id CHAR(36) NOT NULL, "+
		"suite VARCHAR(255) NOT NULL, "+
		"total_cases INT NOT NULL, "+
		"failed_cases INT NOT NULL, "+
		"duration_seconds DOUBLE NOT NULL, "+
		"created_at VARCHAR(64) NOT NULL, "+
		"report LONGTEXT NOT NULL, "+
		"UNIQUE KEY (run_id))", s.table)
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Save inserts the report as a new history row. Saving a report whose run ID
// is already stored replaces it, so resolved marks from the viewer persist.
func (s *MySQLStorage) Save(report *domain.RunReport) error {
	sanitize(report)

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	sum := report.Summary()
	query := fmt.Sprintf("INSERT INTO `%s` (run_id, suite, total_cases, failed_cases, duration_seconds, created_at, report) "+
		"VALUES (?, ?, ?, ?, ?, ?, ?) ON DUPLICATE KEY UPDATE report = VALUES(report)", s.table)
	_, err = s.db.Exec(query, sum.RunID, sum.Suite, sum.TotalCases, sum.FailedCases, sum.DurationSeconds, sum.Timestamp, string(data))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", sum.RunID, err)
	}
	return nil
}

// Load returns the most recently inserted report.
func (s *MySQLStorage) Load() (*domain.RunReport, error) {
	var data string
	query := fmt.Sprintf("SELECT report FROM `%s` ORDER BY id DESC LIMIT 1", s.table)
	err := s.db.QueryRow(query).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("load last run: %w", err)
	}
	var report domain.RunReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}

// History returns up to limit run summaries, newest first.
func (s *MySQLStorage) History(limit int) ([]domain.RunSummary, error) {
	query := fmt.Sprintf("SELECT run_id, suite, total_cases, failed_cases, duration_seconds, created_at "+
		"FROM `%s` ORDER BY id DESC LIMIT ?", s.table)
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []domain.RunSummary
	for rows.Next() {
		var r domain.RunSummary
		if err := rows.Scan(&r.RunID, &r.Suite, &r.TotalCases, &r.FailedCases, &r.DurationSeconds, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database handle.
func (s *MySQLStorage) Close() error {
	return s.db.Close()
}
