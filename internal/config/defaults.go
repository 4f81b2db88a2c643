package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultOutputJSONFile is the default output JSON file name
	DefaultOutputJSONFile = "test-results.json"
	// DefaultOutputJSONDir is the default output directory
	DefaultOutputJSONDir = "storage"
	// DefaultConfigFile is looked up in the project path when no --config is given
	DefaultConfigFile = "utest.yaml"
	// DefaultEnvFile is loaded from the project path when present
	DefaultEnvFile = ".env"
	// DefaultWorkers is the default number of worker goroutines
	DefaultWorkers = 4
	// DefaultSuite is the suite run when none is named
	DefaultSuite = "selfcheck"
	// DefaultLogLevel is the level of the console logger
	DefaultLogLevel = "info"
	// DefaultCaseLogLevel is the minimum level captured for each case
	DefaultCaseLogLevel = "debug"
	// DefaultLogCapacity is the per-case capture buffer size in bytes
	DefaultLogCapacity = 64 * 1024
	// DefaultOverflowPolicy is what a full capture buffer does with new entries
	DefaultOverflowPolicy = "drop-newest"
	// DefaultReplay is which cases have their logs replayed after a run
	DefaultReplay = "failed"
	// DefaultBudget is the allocator budget shared by threaded runners
	DefaultBudget = 64
	// DefaultStorage is the report storage kind
	DefaultStorage = StorageJSON

	// DefaultDBHost is the default MySQL host
	DefaultDBHost = "127.0.0.1"
	// DefaultDBPort is the default MySQL port
	DefaultDBPort = "3306"
	// DefaultDBUser is the default MySQL user
	DefaultDBUser = "root"
	// DefaultDBTable is the run history table
	DefaultDBTable = "utest_runs"
)

// Storage kinds
const (
	StorageJSON  = "json"
	StorageMySQL = "mysql"
)

// envPrefix prefixes every environment variable the config reads
const envPrefix = "UTEST_"
