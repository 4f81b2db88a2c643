package storage

import (
	"fmt"

	"github.com/acarl005/stripansi"

	"utest/internal/config"
	"utest/internal/domain"
)

// Storage persists and loads run reports (e.g. for the fails viewer).
type Storage interface {
	Save(report *domain.RunReport) error
	// Load returns the most recent saved report.
	Load() (*domain.RunReport, error)
	Close() error
}

// JSONStorage stores the last report in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}

// Close implements Storage; there is nothing to release.
func (s *JSONStorage) Close() error {
	return nil
}

// New returns the storage selected by cfg.Storage.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.Storage {
	case config.StorageJSON, "":
		return NewJSONStorage(cfg), nil
	case config.StorageMySQL:
		return NewMySQLStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// sanitize strips terminal escape sequences from captured messages so saved
// reports render the same in the viewer and in a terminal.
func sanitize(report *domain.RunReport) {
	for i := range report.Cases {
		logs := report.Cases[i].Logs
		for j := range logs {
			logs[j].Message = stripansi.Strip(logs[j].Message)
		}
	}
}
