package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatusFoldsDelivered(t *testing.T) {
	status, err := ParseOrderStatus(" Delivered ")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, status)

	_, err = ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestOrderStatusDecodesLegacyValues(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":"ORD-1","status":"delivered"}`), &o))
	assert.Equal(t, OrderStatusCompleted, o.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"ORD-2","status":""}`), &o))
	assert.Equal(t, OrderStatusPending, o.Status)
}

func TestClassifyTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     TransitionKind
	}{
		{OrderStatusPending, OrderStatusProcessing, TransitionForward},
		{OrderStatusPending, OrderStatusCompleted, TransitionForward},
		{OrderStatusReady, OrderStatusPending, TransitionBackward},
		{OrderStatusCompleted, OrderStatusInDelivery, TransitionBackward},
		{OrderStatusReady, OrderStatusReady, TransitionUnchanged},
		{OrderStatusProcessing, OrderStatusCancelled, TransitionCancel},
		{OrderStatusCancelled, OrderStatusPending, TransitionReopen},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestSetStatusMaintainsCompletedAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	o := &Order{Status: OrderStatusInDelivery}

	o.SetStatus(OrderStatusCompleted, now)
	require.NotNil(t, o.CompletedAt)
	assert.Equal(t, now, *o.CompletedAt)

	o.SetStatus(OrderStatusCompleted, now.Add(time.Hour))
	assert.Equal(t, now, *o.CompletedAt, "completion time is kept on repeat")

	o.SetStatus(OrderStatusReady, now.Add(2*time.Hour))
	assert.Nil(t, o.CompletedAt)
	assert.Equal(t, now.Add(2*time.Hour), o.UpdatedAt)
}

func TestStatusLabelUsesDeliveryMethod(t *testing.T) {
	delivery := &Order{Status: OrderStatusCompleted, DeliveryMethod: DeliveryMethodDelivery}
	pickup := &Order{Status: OrderStatusCompleted, DeliveryMethod: DeliveryMethodPickup}
	assert.Equal(t, "Delivered", delivery.StatusLabel())
	assert.Equal(t, "Completed", pickup.StatusLabel())
}

func TestAssignmentSnapshot(t *testing.T) {
	o := &Order{}
	o.AssignTo(&Personnel{ID: "p1", Name: "Maria Santos", Phone: "+63 912 345 6790"})
	require.True(t, o.IsAssigned())
	assert.Equal(t, "p1", *o.AssignedPersonnelID)
	assert.Equal(t, "Maria Santos", o.AssignedPersonName)

	o.ClearAssignment()
	assert.False(t, o.IsAssigned())
	assert.Equal(t, Unassigned, o.AssignedPersonName)
	assert.Equal(t, Unassigned, o.AssignedPersonPhone)
}
