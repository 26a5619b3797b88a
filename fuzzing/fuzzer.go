package fuzzing

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/crytic/u256diff/fuzzing/config"
	"github.com/crytic/u256diff/fuzzing/findings"
	"github.com/crytic/u256diff/fuzzing/operations"
	"github.com/crytic/u256diff/fuzzing/oracles"
	"github.com/crytic/u256diff/logging"
	"github.com/crytic/u256diff/logging/colors"
	"github.com/crytic/u256diff/utils"
	"github.com/google/uuid"
	"golang.org/x/net/context"
)

// Fuzzer drives a differential fuzzing campaign: it feeds generated inputs to a Harness until the test limit or
// timeout is reached, it is stopped, or the first Failure is found.
type Fuzzer struct {
	// ctx describes the context for the fuzzing run, used to cancel running operations.
	ctx context.Context
	// ctxCancelFunc describes a function which can be used to cancel the fuzzing operations ctx tracks.
	ctxCancelFunc context.CancelFunc

	// config describes the project configuration which the fuzzing is targeting.
	config config.ProjectConfig

	// id uniquely identifies the campaign.
	id uuid.UUID

	// seed describes the seed the input generator was created with.
	seed int64

	// operations describes the operations compared by the campaign.
	operations []operations.Operation

	// comparator compares the native and foreign oracles.
	comparator *Comparator
	// harness runs each iteration of the campaign.
	harness *Harness
	// metrics represents the metrics for the fuzzing campaign.
	metrics *FuzzerMetrics

	// findings describes the store failures are persisted to, if enabled.
	findings *findings.Store

	// failure describes the failure which stopped the campaign, if any.
	failure *Failure
	// finding describes the persisted record of failure, if any.
	finding *findings.Record

	// logFile describes the file logs are written to, if a log directory is configured.
	logFile io.Closer

	// Events describes the event system for the Fuzzer.
	Events FuzzerEvents

	// Hooks describes the replaceable functions used by the Fuzzer.
	Hooks FuzzerHooks

	// logger describes the Fuzzer's log object that can be used to log important events
	logger *logging.Logger
}

// NewFuzzer returns an instance of a new Fuzzer comparing the provided oracles, or an error if the project
// configuration is invalid.
func NewFuzzer(projectConfig config.ProjectConfig, native oracles.Oracle, foreign oracles.Oracle) (*Fuzzer, error) {
	// Set up the global logger before anything else logs
	logging.GlobalLogger = logging.NewLogger(projectConfig.Logging.Level, true)
	if projectConfig.Logging.NoColor {
		colors.DisableColor()
	}

	var logFile *os.File
	if projectConfig.Logging.LogDirectory != "" {
		var err error
		logFile, err = utils.CreateFile(projectConfig.Logging.LogDirectory, fmt.Sprintf("u256diff-%d.log", time.Now().Unix()))
		if err != nil {
			return nil, err
		}
		logging.GlobalLogger.AddWriter(logFile, logging.UNSTRUCTURED)
	}
	logger := logging.GlobalLogger.NewSubLogger("module", "fuzzer")

	err := projectConfig.Validate()
	if err != nil {
		logger.Error("Invalid configuration", err)
		return nil, err
	}

	arity, err := projectConfig.Fuzzing.Arity()
	if err != nil {
		return nil, err
	}
	ops, err := projectConfig.Fuzzing.ResolveOperations()
	if err != nil {
		return nil, err
	}
	comparator, err := NewComparator(native, foreign, ops, arity)
	if err != nil {
		return nil, err
	}

	fuzzer := &Fuzzer{
		config:     projectConfig,
		id:         uuid.New(),
		operations: ops,
		comparator: comparator,
		harness:    NewHarness(comparator),
		Hooks: FuzzerHooks{
			NewInputGeneratorFunc: defaultNewInputGeneratorFunc,
		},
		logger: logger,
	}
	if logFile != nil {
		fuzzer.logFile = logFile
	}
	return fuzzer, nil
}

// ID returns the campaign identifier.
func (f *Fuzzer) ID() uuid.UUID {
	return f.id
}

// Config returns the project configuration the Fuzzer operates under.
func (f *Fuzzer) Config() config.ProjectConfig {
	return f.config
}

// Seed returns the seed the input generator was created with. It is only set once Start was called.
func (f *Fuzzer) Seed() int64 {
	return f.seed
}

// Operations returns the operations compared by the campaign.
func (f *Fuzzer) Operations() []operations.Operation {
	return f.operations
}

// Harness returns the Harness running the campaign's iterations.
func (f *Fuzzer) Harness() *Harness {
	return f.harness
}

// Metrics returns the metrics of the current or last campaign, or nil if Start was never called.
func (f *Fuzzer) Metrics() *FuzzerMetrics {
	return f.metrics
}

// Failure returns the failure which stopped the campaign, or nil if none was found.
func (f *Fuzzer) Failure() *Failure {
	return f.failure
}

// Finding returns the persisted record of the failure which stopped the campaign, or nil if there is none.
func (f *Fuzzer) Finding() *findings.Record {
	return f.finding
}

// Start runs the fuzzing campaign. It does not return until the campaign stops. A Failure found during the campaign
// is not an error: it is available through Failure once Start returns. Returns an error if one is encountered.
func (f *Fuzzer) Start() error {
	// Create our running context, bounded by the timeout if one is set
	var cancelTimeout context.CancelFunc = func() {}
	f.ctx, f.ctxCancelFunc = context.WithCancel(context.Background())
	if f.config.Fuzzing.Timeout > 0 {
		f.logger.Info("Running with a timeout of ", colors.Bold, f.config.Fuzzing.Timeout, " seconds")
		f.ctx, cancelTimeout = context.WithTimeout(f.ctx, time.Duration(f.config.Fuzzing.Timeout)*time.Second)
	}
	defer cancelTimeout()
	defer f.Stop()

	if f.logFile != nil {
		defer f.logFile.Close()
	}

	// Open the findings database, if enabled
	if f.config.Fuzzing.FindingsDatabase != "" {
		store, err := findings.Open(f.config.Fuzzing.FindingsDatabase)
		if err != nil {
			f.logger.Error("Failed to open the findings database", err)
			return err
		}
		f.findings = store
		defer func() {
			if err := store.Close(); err != nil {
				f.logger.Error("Failed to close the findings database", err)
			}
			f.findings = nil
		}()
	}

	f.seed = f.config.Fuzzing.Seed
	if f.seed == 0 {
		f.seed = time.Now().UnixNano()
	}
	generator, err := f.Hooks.NewInputGeneratorFunc(f, f.seed)
	if err != nil {
		return err
	}

	f.failure, f.finding = nil, nil
	f.metrics = newFuzzerMetrics(f.harness)

	f.logger.Info("Comparing ", colors.Bold, len(f.operations), colors.Reset, " operations over ",
		colors.Bold, f.harness.Arity(), colors.Reset, " operands with seed ", colors.Bold, f.seed)
	err = f.Events.FuzzerStarting.Publish(FuzzerStartingEvent{Fuzzer: f})
	if err != nil {
		return err
	}

	go f.runMetricsPrintLoop()
	err = f.run(generator)

	// Publish a fuzzer stopping event, even if we had an error.
	fuzzerStoppingErr := f.Events.FuzzerStopping.Publish(FuzzerStoppingEvent{Fuzzer: f, Err: err})
	if err == nil {
		err = fuzzerStoppingErr
	}

	f.printResults()
	return err
}

// run feeds inputs to the harness until the campaign is stopped, the test limit is reached, or a failure is found.
func (f *Fuzzer) run(generator InputGenerator) error {
	testLimit := f.config.Fuzzing.TestLimit
	for !utils.CheckContextDone(f.ctx) {
		if testLimit > 0 && f.harness.Executed()+f.harness.Skipped() >= testLimit {
			f.logger.Info("Input test limit reached, halting now")
			return nil
		}

		if failure := f.harness.Execute(generator.GenerateInput()); failure != nil {
			return f.reportFailure(failure)
		}
	}
	return nil
}

// reportFailure records the failure which stops the campaign, persists it if enabled, and publishes it.
func (f *Fuzzer) reportFailure(failure *Failure) error {
	f.failure = failure

	isNew := true
	if f.findings != nil {
		record := failure.Record(f.id.String())
		stored, storedIsNew, err := f.findings.Add(record)
		if err != nil {
			f.logger.Error("Failed to persist the finding", err)
			return err
		}
		f.finding, isNew = &stored, storedIsNew
	}

	return f.Events.FailureFound.Publish(FuzzerFailureFoundEvent{
		Fuzzer:  f,
		Failure: failure,
		Record:  f.finding,
		IsNew:   isNew,
	})
}

// Stop stops a running campaign invoked by the Start method. This method may return before complete operation
// teardown occurs.
func (f *Fuzzer) Stop() {
	if f.ctxCancelFunc != nil {
		f.ctxCancelFunc()
	}
}

// printResults logs the outcome of the campaign.
func (f *Fuzzer) printResults() {
	f.logger.Info("Fuzzer stopped after ", colors.Bold, f.metrics.InputsTested(), colors.Reset, " inputs and ",
		colors.Bold, f.metrics.Comparisons(), colors.Reset, " comparisons")
	if f.failure == nil {
		f.logger.Info(colors.GreenBold, colors.CHECK, " No disagreement found")
		return
	}

	f.logger.Error(colors.RedBold, colors.CROSS, " ", f.failure.Kind, " found", colors.Reset, "\n", f.failure.Report())
	if f.finding != nil {
		f.logger.Info("Recorded as finding ", colors.Bold, f.finding.ID, colors.Reset, " (seen ",
			f.finding.Occurrences, " times), replay it with: replay --finding ", f.finding.ID)
	}
}

// runMetricsPrintLoop prints metrics to the console in a loop until ctx signals a stopped operation.
func (f *Fuzzer) runMetricsPrintLoop() {
	var lastInputs, lastComparisons uint64
	lastPrintedTime := time.Now()
	ticker := time.NewTicker(3 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return
		case <-ticker.C:
		}

		inputs := f.metrics.InputsTested()
		comparisons := f.metrics.Comparisons()
		sinceLastUpdate := time.Since(lastPrintedTime)

		f.logger.Info("fuzz: elapsed: ", f.metrics.Elapsed().Round(time.Second),
			", inputs: ", inputs, " (", Rate(inputs-lastInputs, sinceLastUpdate), "/sec)",
			", comparisons: ", comparisons, " (", Rate(comparisons-lastComparisons, sinceLastUpdate), "/sec)",
			", skipped: ", f.metrics.InputsSkipped())

		lastPrintedTime = time.Now()
		lastInputs = inputs
		lastComparisons = comparisons
	}
}
