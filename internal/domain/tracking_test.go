package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepStates(view TrackingView) map[string]StepState {
	out := make(map[string]StepState, len(view.Steps))
	for _, s := range view.Steps {
		out[s.Name] = s.State
	}
	return out
}

func TestTrackingViewReady(t *testing.T) {
	view := BuildTrackingView(&Order{ID: "ORD-1", Status: OrderStatusReady})
	require.Len(t, view.Steps, 6)

	states := stepStates(view)
	assert.Equal(t, StepCompleted, states[StepNameSubmitted])
	assert.Equal(t, StepCompleted, states[StepNameUnderReview])
	assert.Equal(t, StepCompleted, states[StepNameProcessing])
	assert.Equal(t, StepCurrent, states[StepNameReady])
	assert.Equal(t, StepPending, states[StepNameInDelivery])
	assert.Equal(t, StepPending, states[StepNameDelivered])
	assert.Equal(t, Unassigned, view.AssignedTo)
}

func TestTrackingViewPendingAndCompleted(t *testing.T) {
	pending := stepStates(BuildTrackingView(&Order{Status: OrderStatusPending}))
	assert.Equal(t, StepCurrent, pending[StepNameUnderReview])
	assert.Equal(t, StepPending, pending[StepNameProcessing])

	done := BuildTrackingView(&Order{Status: OrderStatusCompleted, DeliveryMethod: DeliveryMethodDelivery})
	for _, s := range done.Steps[:5] {
		assert.Equal(t, StepCompleted, s.State, s.Name)
	}
	assert.Equal(t, StepCurrent, done.Steps[5].State)
	assert.Equal(t, "Delivered", done.StatusLabel)
}

func TestTrackingViewCancelled(t *testing.T) {
	view := BuildTrackingView(&Order{Status: OrderStatusCancelled})
	assert.True(t, view.Cancelled)
	assert.Equal(t, StepCompleted, view.Steps[0].State)
	for _, s := range view.Steps[1:] {
		assert.Equal(t, StepPending, s.State, s.Name)
	}
}
