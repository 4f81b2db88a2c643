package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"utest/pkg/logcapture"
	"utest/pkg/unittest"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"project_path"`

	// Output settings
	OutputJSONFile string `yaml:"output_json_file"`
	OutputJSONDir  string `yaml:"output_json_dir"`
	MetricsFile    string `yaml:"metrics_file"`

	// Execution settings
	Suite   string `yaml:"suite"`
	Workers int    `yaml:"workers"`
	Budget  int    `yaml:"budget"`

	// Logging settings
	LogLevel       string `yaml:"log_level"`
	CaseLogLevel   string `yaml:"case_log_level"`
	LogCapacity    int    `yaml:"log_capacity"`
	OverflowPolicy string `yaml:"overflow_policy"`
	Replay         string `yaml:"replay"`

	// Storage settings
	Storage string   `yaml:"storage"`
	DB      DBConfig `yaml:"db"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// DBConfig holds the MySQL connection used by the mysql storage
type DBConfig struct {
	DSN      string `yaml:"dsn"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Table    string `yaml:"table"`
}

// Flags holds command-line flags. A negative Workers means the flag was not set.
type Flags struct {
	ConfigFile  string
	Workers     int
	Suite       string
	NameFilter  string
	LogLevel    string
	LogCapacity int
	Overflow    string
	Replay      string
	Storage     string
	MetricsFile string
	OpenFails   bool
	LiveLogs    bool
	Select      string
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath:    DefaultProjectPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Suite:          DefaultSuite,
		Workers:        DefaultWorkers,
		Budget:         DefaultBudget,
		LogLevel:       DefaultLogLevel,
		CaseLogLevel:   DefaultCaseLogLevel,
		LogCapacity:    DefaultLogCapacity,
		OverflowPolicy: DefaultOverflowPolicy,
		Replay:         DefaultReplay,
		Storage:        DefaultStorage,
		DB: DBConfig{
			Host:  DefaultDBHost,
			Port:  DefaultDBPort,
			User:  DefaultDBUser,
			Table: DefaultDBTable,
		},
		Flags: Flags{Workers: -1},
	}
}

// Load creates a config from defaults, the YAML file, the environment and
// flags, later sources overriding earlier ones.
func Load(flags Flags) (*Config, error) {
	cfg := New()
	if v, ok := os.LookupEnv(envPrefix + "PROJECT_PATH"); ok {
		cfg.ProjectPath = v
	}

	path := flags.ConfigFile
	explicit := path != ""
	if !explicit {
		path = filepath.Join(cfg.ProjectPath, DefaultConfigFile)
	}
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(cfg.ProjectPath, DefaultEnvFile))
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	cfg.ApplyFlags(flags)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path on the config.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays UTEST_* environment variables on the config.
func (c *Config) ApplyEnv() error {
	strs := map[string]*string{
		"PROJECT_PATH":    &c.ProjectPath,
		"OUTPUT_DIR":      &c.OutputJSONDir,
		"OUTPUT_FILE":     &c.OutputJSONFile,
		"METRICS_FILE":    &c.MetricsFile,
		"SUITE":           &c.Suite,
		"LOG_LEVEL":       &c.LogLevel,
		"CASE_LOG_LEVEL":  &c.CaseLogLevel,
		"OVERFLOW_POLICY": &c.OverflowPolicy,
		"REPLAY":          &c.Replay,
		"STORAGE":         &c.Storage,
		"DB_DSN":          &c.DB.DSN,
		"DB_HOST":         &c.DB.Host,
		"DB_PORT":         &c.DB.Port,
		"DB_USERNAME":     &c.DB.User,
		"DB_PASSWORD":     &c.DB.Password,
		"DB_DATABASE":     &c.DB.Name,
		"DB_TABLE":        &c.DB.Table,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"WORKERS":      &c.Workers,
		"BUDGET":       &c.Budget,
		"LOG_CAPACITY": &c.LogCapacity,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}
	return nil
}

// ApplyFlags stores flags and applies the ones that were set.
func (c *Config) ApplyFlags(flags Flags) {
	c.Flags = flags

	if flags.Workers >= 0 {
		c.Workers = flags.Workers
	}
	if flags.Suite != "" {
		c.Suite = flags.Suite
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.LogCapacity > 0 {
		c.LogCapacity = flags.LogCapacity
	}
	if flags.Overflow != "" {
		c.OverflowPolicy = flags.Overflow
	}
	if flags.Replay != "" {
		c.Replay = flags.Replay
	}
	if flags.Storage != "" {
		c.Storage = flags.Storage
	}
	if flags.MetricsFile != "" {
		c.MetricsFile = flags.MetricsFile
	}
}

// Validate checks the values that are parsed later on.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %d", c.Budget)
	}
	if c.LogCapacity < 0 {
		return fmt.Errorf("log capacity must not be negative, got %d", c.LogCapacity)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if _, err := zapcore.ParseLevel(c.CaseLogLevel); err != nil {
		return fmt.Errorf("case log level: %w", err)
	}
	if _, ok := logcapture.ParsePolicy(c.OverflowPolicy); !ok {
		return fmt.Errorf("unknown overflow policy %q", c.OverflowPolicy)
	}
	if _, ok := unittest.ParseSelection(c.Replay); !ok && c.Replay != "none" {
		return fmt.Errorf("unknown replay selection %q", c.Replay)
	}
	if c.Storage != StorageJSON && c.Storage != StorageMySQL {
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	return nil
}

// Level returns the console log level.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// CaseParams returns the parameters new cases are created with.
func (c *Config) CaseParams() unittest.CaseParams {
	prm := unittest.DefaultCaseParams()
	if lvl, err := zapcore.ParseLevel(c.CaseLogLevel); err == nil {
		prm.LogLevel = lvl
	}
	return prm
}

// Policy returns the capture overflow policy.
func (c *Config) Policy() logcapture.Policy {
	p, _ := logcapture.ParsePolicy(c.OverflowPolicy)
	return p
}

// ReplaySelection returns which cases get their logs replayed, and false when
// replay is disabled.
func (c *Config) ReplaySelection() (unittest.Selection, bool) {
	return unittest.ParseSelection(c.Replay)
}

// GetOutputPath returns the full path to the output JSON file (under project so run and fails use the same file).
// Resolves to an absolute path so run and fails always read/write the same file regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
