package storage

import (
	"os"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utest/internal/config"
	"utest/internal/domain"
)

func sampleReport(runID string) *domain.RunReport {
	return &domain.RunReport{
		Meta: domain.RunMeta{
			RunID:       runID,
			Suite:       "demo",
			TotalCases:  2,
			FailedCases: 1,
			FailedNames: []string{"broken"},
			Timestamp:   "2026-01-02T03:04:05Z",
		},
		Cases: []domain.CaseReport{
			{Index: 0, Name: "ok", Completed: true, Passed: true},
			{Index: 1, Name: "broken", Result: 1, Completed: true, Logs: []domain.LogLine{
				{Level: "error", Message: "\x1b[31mboom\x1b[0m", Fields: map[string]any{"n": float64(1)}},
			}},
		},
	}
}

func jsonConfig(t *testing.T) *config.Config {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	return cfg
}

func TestJSONStorage_SaveLoad(t *testing.T) {
	cfg := jsonConfig(t)
	st := NewJSONStorage(cfg)

	require.NoError(t, st.Save(sampleReport("run-1")))
	assert.FileExists(t, cfg.GetOutputPath())

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "run-1", loaded.Meta.RunID)
	require.Len(t, loaded.Cases, 2)
	assert.Equal(t, "boom", loaded.Cases[1].Logs[0].Message, "escape sequences are stripped")
	assert.Equal(t, map[string]any{"n": float64(1)}, loaded.Cases[1].Logs[0].Fields)

	loaded.Cases[1].Resolved = true
	require.NoError(t, st.Save(loaded))
	again, err := st.Load()
	require.NoError(t, err)
	assert.True(t, again.Cases[1].Resolved)
}

func TestJSONStorage_LoadMissing(t *testing.T) {
	_, err := NewJSONStorage(jsonConfig(t)).Load()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew(t *testing.T) {
	cfg := jsonConfig(t)
	st, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &JSONStorage{}, st)

	cfg.Storage = "s3"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name    string
		db      config.DBConfig
		addr    string
		dbName  string
		wantErr bool
	}{
		{
			name:   "from parts",
			db:     config.DBConfig{Host: "db.local", Port: "3307", User: "ci", Password: "secret", Name: "runs"},
			addr:   "db.local:3307",
			dbName: "runs",
		},
		{
			name:   "explicit dsn wins",
			db:     config.DBConfig{DSN: "u:p@tcp(10.0.0.1:3306)/history", Host: "ignored", Name: "ignored"},
			addr:   "10.0.0.1:3306",
			dbName: "history",
		},
		{name: "missing database", db: config.DBConfig{Host: "h", Port: "1"}, wantErr: true},
		{name: "malformed dsn", db: config.DBConfig{DSN: "not a dsn"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.DB = tt.db
			dsn, err := mysqlDSN(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			parsed, err := mysql.ParseDSN(dsn)
			require.NoError(t, err)
			assert.Equal(t, tt.addr, parsed.Addr)
			assert.Equal(t, tt.dbName, parsed.DBName)
			assert.True(t, parsed.ParseTime)
		})
	}
}

func TestNewMySQLStorageDB_RejectsTableName(t *testing.T) {
	for _, name := range []string{"", "runs; DROP TABLE x", "1runs", strings.Repeat("t", 65)} {
		_, err := NewMySQLStorageDB(nil, name)
		assert.Error(t, err, name)
	}
}

// TestMySQLStorage runs against a real server when UTEST_TEST_MYSQL_DSN is set.
func TestMySQLStorage(t *testing.T) {
	dsn := os.Getenv("UTEST_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("UTEST_TEST_MYSQL_DSN not set")
	}
	cfg := config.New()
	cfg.DB.DSN = dsn
	cfg.DB.Table = "utest_runs_test"

	st, err := NewMySQLStorage(cfg)
	require.NoError(t, err)
	defer st.Close()
	t.Cleanup(func() { _, _ = st.db.Exec("DROP TABLE IF EXISTS `utest_runs_test`") })

	require.NoError(t, st.Save(sampleReport("00000000-0000-0000-0000-000000000001")))
	require.NoError(t, st.Save(sampleReport("00000000-0000-0000-0000-000000000002")))

	last, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "00000000-0000-0000-0000-000000000002", last.Meta.RunID)
	assert.Equal(t, "boom", last.Cases[1].Logs[0].Message)

	history, err := st.History(10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "00000000-0000-0000-0000-000000000002", history[0].RunID)
	assert.Equal(t, 1, history[0].FailedCases)
}
