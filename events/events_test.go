package events

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// TestEventPublishingAndSubscribing publishes events through several emitters and checks both emitter-level and
// global handlers receive them.
func TestEventPublishingAndSubscribing(t *testing.T) {
	type iterationEvent struct{ index int }
	type findingEvent struct{ id string }

	iterations := EventEmitter[iterationEvent]{}
	findings := EventEmitter[findingEvent]{}
	otherFindings := EventEmitter[findingEvent]{}

	var iterationCount, findingCount, globalFindingCount, lastIndex int
	iterations.Subscribe(func(event iterationEvent) error {
		iterationCount++
		lastIndex = event.index
		return nil
	})
	findings.Subscribe(func(event findingEvent) error {
		findingCount++
		return nil
	})
	SubscribeAny(func(event findingEvent) error {
		globalFindingCount++
		return nil
	})

	for i := 0; i < 5; i++ {
		assert.NoError(t, iterations.Publish(iterationEvent{index: i}))
	}
	for i := 0; i < 3; i++ {
		assert.NoError(t, findings.Publish(findingEvent{id: "a"}))
	}
	assert.NoError(t, otherFindings.Publish(findingEvent{id: "b"}))

	assert.EqualValues(t, 5, iterationCount)
	assert.EqualValues(t, 4, lastIndex)
	assert.EqualValues(t, 3, findingCount)
	assert.EqualValues(t, 4, globalFindingCount)
}

// TestPublishStopsOnHandlerError verifies the first handler error is returned and later handlers are skipped.
func TestPublishStopsOnHandlerError(t *testing.T) {
	type stopEvent struct{}

	emitter := EventEmitter[stopEvent]{}
	handlerErr := errors.New("store unavailable")
	calledAfter := false
	emitter.Subscribe(func(stopEvent) error {
		return handlerErr
	})
	emitter.Subscribe(func(stopEvent) error {
		calledAfter = true
		return nil
	})

	err := emitter.Publish(stopEvent{})
	assert.ErrorIs(t, err, handlerErr)
	assert.False(t, calledAfter)
}
