package config

import "github.com/rs/zerolog"

// GetDefaultProjectConfig obtains a default configuration for a project.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Fuzzing: FuzzingConfig{
			Target:           TargetBinary,
			OperationSet:     OperationSetAll,
			Operations:       []string{},
			TestLimit:        0,
			Timeout:          0,
			Seed:             0,
			MaxInputLength:   128,
			FindingsDatabase: "findings.db",
		},
		Logging: LoggingConfig{
			Level:        zerolog.InfoLevel,
			LogDirectory: "",
			NoColor:      false,
		},
	}
}
