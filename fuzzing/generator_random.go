package fuzzing

import (
	"math/rand"
	"sync"

	"github.com/crytic/u256diff/fuzzing/operands"
	"github.com/crytic/u256diff/utils/randomutils"
)

// InputGenerator provides the raw inputs a Fuzzer feeds to its Harness.
type InputGenerator interface {
	// GenerateInput returns the next raw input.
	GenerateInput() []byte
}

// inputShapeFunc reshapes a uniformly random input in place.
type inputShapeFunc func(g *RandomInputGenerator, input []byte)

// RandomInputGenerator generates raw inputs of random length from a seeded source. Besides uniformly random bytes, it
// biases some inputs towards runs of zero and 0xff bytes and towards the encodings of boundary operands, which raw
// random bytes rarely produce.
type RandomInputGenerator struct {
	// randomProvider offers a source of random data.
	randomProvider *rand.Rand
	// randomProviderLock is a lock to offer thread safety to the random number generator.
	randomProviderLock sync.Mutex

	// shapes selects how each generated input is reshaped.
	shapes *randomutils.WeightedRandomChooser[inputShapeFunc]

	// minLength and maxLength bound the length of generated inputs, inclusive.
	minLength int
	maxLength int
}

// NewRandomInputGenerator creates a RandomInputGenerator producing inputs for tuples of the given arity, at most
// maxLength bytes long.
func NewRandomInputGenerator(seed int64, arity int, maxLength int) *RandomInputGenerator {
	minLength := operands.MinInputLength(arity)
	if maxLength < minLength {
		maxLength = minLength
	}
	randomProvider := rand.New(rand.NewSource(seed))

	shapes := randomutils.NewWeightedRandomChooser[inputShapeFunc](randomProvider)
	shapes.AddChoices(
		randomutils.NewWeightedRandomChoice[inputShapeFunc](shapeUniform, 5),
		randomutils.NewWeightedRandomChoice[inputShapeFunc](shapeMostlyZeros, 1),
		randomutils.NewWeightedRandomChoice[inputShapeFunc](shapeMostlyOnes, 1),
		randomutils.NewWeightedRandomChoice[inputShapeFunc](shapeBoundaryOperand, 1),
	)

	return &RandomInputGenerator{
		randomProvider: randomProvider,
		shapes:         shapes,
		minLength:      minLength,
		maxLength:      maxLength,
	}
}

// GenerateInput implements InputGenerator.
func (g *RandomInputGenerator) GenerateInput() []byte {
	g.randomProviderLock.Lock()
	defer g.randomProviderLock.Unlock()

	length := g.minLength + g.randomProvider.Intn(g.maxLength-g.minLength+1)
	input := make([]byte, length)
	g.randomProvider.Read(input)

	// The chooser only fails without weighted choices, and we always add some
	if shape, err := g.shapes.Choose(); err == nil {
		shape(g, input)
	}
	return input
}

// shapeUniform keeps the uniformly random input.
func shapeUniform(g *RandomInputGenerator, input []byte) {}

// shapeMostlyZeros clears most bytes, keeping a few random ones.
func shapeMostlyZeros(g *RandomInputGenerator, input []byte) {
	for i := range input {
		if g.randomProvider.Intn(4) != 0 {
			input[i] = 0x00
		}
	}
}

// shapeMostlyOnes sets most bytes to 0xff, keeping a few random ones.
func shapeMostlyOnes(g *RandomInputGenerator, input []byte) {
	for i := range input {
		if g.randomProvider.Intn(4) != 0 {
			input[i] = 0xff
		}
	}
}

// shapeBoundaryOperand plants the encoding of a boundary operand at a random offset.
func shapeBoundaryOperand(g *RandomInputGenerator, input []byte) {
	boundaries := operands.BoundaryValues()
	encoded := boundaries[g.randomProvider.Intn(len(boundaries))].Bytes32()
	copy(input[g.randomProvider.Intn(len(input)):], encoded[:])
}
