package cli

import "utest/internal/config"

// Flags holds command-line flags
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

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigFile:  f.ConfigFile,
		Workers:     f.Workers,
		Suite:       f.Suite,
		NameFilter:  f.NameFilter,
		LogLevel:    f.LogLevel,
		LogCapacity: f.LogCapacity,
		Overflow:    f.Overflow,
		Replay:      f.Replay,
		Storage:     f.Storage,
		MetricsFile: f.MetricsFile,
		OpenFails:   f.OpenFails,
		LiveLogs:    f.LiveLogs,
		Select:      f.Select,
	}
}
