package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/docrequest-service/internal/domain"
)

func TestResidentDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, session := f.resident(t, "Ana", "ana@example.com")
	_, other := f.resident(t, "Ben", "ben@example.com")
	f.submit(t, other, domain.DocumentBarangayClearance)

	var ids []string
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusPending, domain.OrderStatusProcessing, domain.OrderStatusInDelivery,
		domain.OrderStatusCompleted, domain.OrderStatusCancelled,
	} {
		order := f.submit(t, session, domain.DocumentBarangayClearance)
		ids = append(ids, order.ID)
		f.now = f.now.Add(time.Minute)
		if status != domain.OrderStatusPending {
			_, err := f.orders.Transition(ctx, adminSession, order.ID, TransitionInput{Status: status})
			require.NoError(t, err)
		}
	}

	dash, err := f.projections.ResidentDashboard(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, OrderStats{Total: 5, Pending: 2, InDelivery: 1, Finished: 1, Cancelled: 1}, dash.Stats)
	require.Len(t, dash.RecentOrders, 3)
	assert.Equal(t, ids[4], dash.RecentOrders[0].ID)
	assert.Equal(t, 9, dash.UnreadCount)

	history, err := f.projections.OrderHistory(ctx, session, domain.OrderFilter{UserID: "someone-else"})
	require.NoError(t, err)
	assert.Len(t, history, 5)
}

func TestAdminProjections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ana, session := f.resident(t, "Ana", "ana@example.com")
	_, ben := f.resident(t, "Ben", "ben@example.com")
	orphan := f.submit(t, session, domain.DocumentBarangayClearance)
	f.now = f.now.Add(time.Minute)
	priced := f.submit(t, ben, domain.DocumentCertificateIndigency)

	_, err := f.orders.Transition(ctx, adminSession, priced.ID, TransitionInput{
		Status: domain.OrderStatusProcessing,
		Price:  moneyPtr(domain.MoneyFromPesos(30)),
	})
	require.NoError(t, err)
	require.NoError(t, f.accounts.DeleteUser(ctx, adminSession, ana.ID))

	dash, err := f.projections.AdminDashboard(ctx, adminSession)
	require.NoError(t, err)
	assert.Equal(t, 1, dash.TotalUsers)
	assert.Equal(t, OrderStats{Total: 2, Pending: 2}, dash.Orders)

	rows, err := f.projections.AdminOrderTable(ctx, adminSession, domain.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, priced.ID, rows[0].OrderID)
	assert.Equal(t, "Ben Reyes", rows[0].OwnerName)
	assert.Equal(t, "₱30.00", rows[0].PriceLabel)
	assert.Equal(t, "Certificate of Indigency", rows[0].DocumentLabel)

	assert.Equal(t, orphan.ID, rows[1].OrderID)
	assert.Equal(t, "Unknown User", rows[1].OwnerName)
	assert.Equal(t, "-", rows[1].PriceLabel)
	assert.Equal(t, "Not Assigned", rows[1].AssignedTo)

	_, err = f.projections.AdminOrderTable(ctx, session, domain.OrderFilter{})
	assert.Error(t, err)
}
