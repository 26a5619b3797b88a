package fuzzing

// FuzzerHooks defines the hooks that can be used for the Fuzzer on an API level.
type FuzzerHooks struct {
	// NewInputGeneratorFunc describes the function used to create the InputGenerator of a campaign.
	NewInputGeneratorFunc NewInputGeneratorFunc
}

// NewInputGeneratorFunc creates the InputGenerator a Fuzzer draws raw inputs from.
type NewInputGeneratorFunc func(fuzzer *Fuzzer, seed int64) (InputGenerator, error)

// defaultNewInputGeneratorFunc creates a RandomInputGenerator configured from the fuzzer's project config.
func defaultNewInputGeneratorFunc(fuzzer *Fuzzer, seed int64) (InputGenerator, error) {
	return NewRandomInputGenerator(seed, fuzzer.harness.Arity(), fuzzer.config.Fuzzing.MaxInputLength), nil
}
