package config

import (
	"encoding/json"
	"os"

	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultProjectConfigFilename describes the default config filename for a given project folder.
const DefaultProjectConfigFilename = "u256diff.json"

// Fuzz targets, each fixing the arity of the operand tuples a campaign generates.
const (
	// TargetBinary fuzzes the two-operand operations.
	TargetBinary = "binary"
	// TargetTernary fuzzes the three-operand modular operations.
	TargetTernary = "ternary"
)

// Named operation sets.
const (
	// OperationSetAll selects every operation matching the target arity.
	OperationSetAll = "all"
	// OperationSetHighValue selects the high-value operations matching the target arity.
	OperationSetHighValue = "high-value"
)

// ProjectConfig describes the configuration of a differential fuzzing project.
type ProjectConfig struct {
	// Fuzzing describes the configuration used in fuzzing campaigns.
	Fuzzing FuzzingConfig `json:"fuzzing"`

	// Logging describes the configuration used for logging to file and console
	Logging LoggingConfig `json:"logging"`
}

// FuzzingConfig describes the configuration options used by the fuzzing.Fuzzer.
type FuzzingConfig struct {
	// Target describes which fuzz target to run, TargetBinary or TargetTernary.
	Target string `json:"target"`

	// OperationSet describes the named set of operations to compare when Operations is empty.
	OperationSet string `json:"operationSet"`

	// Operations optionally lists the operations to compare by mnemonic. Every listed operation must match the arity
	// of Target.
	Operations []string `json:"operations"`

	// TestLimit describes a threshold for the number of inputs to test, after which the campaign will exit. A zero
	// value indicates the test limit should not be enforced.
	TestLimit uint64 `json:"testLimit"`

	// Timeout describes a time in seconds for which the fuzzing operation should run. Providing negative or zero value
	// will result in no timeout.
	Timeout int `json:"timeout"`

	// Seed describes the seed of the random input source. A zero value seeds from the current time.
	Seed int64 `json:"seed"`

	// MaxInputLength describes the largest raw input, in bytes, the random input source generates.
	MaxInputLength int `json:"maxInputLength"`

	// FindingsDatabase describes the path of the database failures are recorded in. If empty, findings are not
	// persisted.
	FindingsDatabase string `json:"findingsDatabase"`
}

// LoggingConfig describes the configuration options for logging to console and file
type LoggingConfig struct {
	// Level describes whether logs of certain severity levels (eg info, warning, etc.) will be emitted or discarded.
	// Increasing level values represent more severe logs
	Level zerolog.Level `json:"level"`

	// LogDirectory describes what directory log files should be outputted in. If empty, no log files are written.
	LogDirectory string `json:"logDirectory"`

	// NoColor indicates whether console output should be colored
	NoColor bool `json:"noColor"`
}

// ReadProjectConfigFromFile reads a JSON-serialized ProjectConfig from a provided file path. Fields missing from the
// file keep their default values.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	projectConfig := GetDefaultProjectConfig()
	err = json.Unmarshal(b, projectConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse project config %s", path)
	}
	return projectConfig, nil
}

// WriteToFile writes the ProjectConfig to a provided file path in a JSON-serialized format.
func (p *ProjectConfig) WriteToFile(path string) error {
	b, err := json.MarshalIndent(p, "", "\t")
	if err != nil {
		return errors.WithStack(err)
	}
	err = os.WriteFile(path, b, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Arity returns the operand arity implied by the fuzz target.
func (c *FuzzingConfig) Arity() (int, error) {
	switch c.Target {
	case TargetBinary:
		return 2, nil
	case TargetTernary:
		return 3, nil
	default:
		return 0, errors.Errorf("unknown fuzz target %q, expected %q or %q", c.Target, TargetBinary, TargetTernary)
	}
}

// ResolveOperations returns the operations a campaign compares. An explicit operation list is validated strictly
// against the target arity, while a named set is filtered down to the operations of that arity.
func (c *FuzzingConfig) ResolveOperations() ([]operations.Operation, error) {
	arity, err := c.Arity()
	if err != nil {
		return nil, err
	}

	var ops []operations.Operation
	if len(c.Operations) > 0 {
		ops, err = operations.ParseAll(c.Operations)
		if err != nil {
			return nil, err
		}
		if err = operations.CheckArity(ops, arity); err != nil {
			return nil, errors.Wrapf(err, "operation list does not match the %s target", c.Target)
		}
		return ops, nil
	}

	switch c.OperationSet {
	case OperationSetAll, "":
		ops = operations.FilterByArity(operations.All(), arity)
	case OperationSetHighValue:
		ops = operations.FilterByArity(operations.HighValueSet(), arity)
	default:
		return nil, errors.Errorf("unknown operation set %q, expected %q or %q", c.OperationSet, OperationSetAll, OperationSetHighValue)
	}
	if len(ops) == 0 {
		return nil, errors.Errorf("operation set %q has no operations for the %s target", c.OperationSet, c.Target)
	}
	return ops, nil
}

// Validate validates that the ProjectConfig meets certain requirements.
func (p *ProjectConfig) Validate() error {
	arity, err := p.Fuzzing.Arity()
	if err != nil {
		return err
	}
	if _, err = p.Fuzzing.ResolveOperations(); err != nil {
		return err
	}
	if p.Fuzzing.MaxInputLength < operands.MinInputLength(arity) {
		return errors.Errorf("max input length must be at least %d bytes for the %s target", operands.MinInputLength(arity), p.Fuzzing.Target)
	}
	if p.Logging.Level < zerolog.TraceLevel || p.Logging.Level > zerolog.Disabled {
		return errors.Errorf("invalid log level %d", p.Logging.Level)
	}
	return nil
}
