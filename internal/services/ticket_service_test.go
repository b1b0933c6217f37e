package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/booking-backend/internal/models"
)

func newTicketService() (*TicketService, *fakeTicketStore, *fakeScheduleStore) {
	tickets := newFakeTicketStore()
	schedules := newFakeScheduleStore()
	return NewTicketService(tickets, schedules, testLogger()), tickets, schedules
}

func pendingTicket() *models.Ticket {
	return &models.Ticket{
		PassengerID:   uuid.New(),
		SeatPoolID:    uuid.New(),
		Route:         "Dhaka-Chittagong",
		Price:         2940.0,
		TransportType: models.TransportTypeBus,
		IsRefundable:  true,
	}
}

func TestCreateTicket(t *testing.T) {
	svc, _, _ := newTicketService()

	t.Run("Success", func(t *testing.T) {
		ticket := pendingTicket()
		err := svc.CreateTicket(ticket)
		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusPending, ticket.Status)
		assert.NotEqual(t, uuid.Nil, ticket.ID)
	})

	t.Run("Missing Route Rejected", func(t *testing.T) {
		ticket := pendingTicket()
		ticket.Route = ""
		assert.Error(t, svc.CreateTicket(ticket))
	})

	t.Run("Non-Positive Price Rejected", func(t *testing.T) {
		ticket := pendingTicket()
		ticket.Price = 0
		assert.Error(t, svc.CreateTicket(ticket))
	})
}

func TestConfirmTicket(t *testing.T) {
	svc, store, _ := newTicketService()

	t.Run("Success", func(t *testing.T) {
		ticket := pendingTicket()
		require.NoError(t, svc.CreateTicket(ticket))

		payment := &models.Payment{
			ID:     uuid.New(),
			Method: models.PaymentMethodCreditCard,
			Status: models.PaymentStatusCompleted,
		}
		err := svc.ConfirmTicket(ticket, payment, 73.5)
		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusConfirmed, ticket.Status)
		assert.Equal(t, 73.5, ticket.TransactionFee)

		stored, _ := store.GetByID(ticket.ID)
		assert.Equal(t, models.TicketStatusConfirmed, stored.Status)
		require.NotNil(t, stored.PaymentID)
		assert.Equal(t, payment.ID, *stored.PaymentID)
	})

	t.Run("Cancelled Ticket Cannot Confirm", func(t *testing.T) {
		ticket := pendingTicket()
		require.NoError(t, svc.CreateTicket(ticket))
		ticket.Status = models.TicketStatusCancelled

		err := svc.ConfirmTicket(ticket, &models.Payment{ID: uuid.New()}, 0)
		assert.Error(t, err)

		var transitionErr *models.InvalidStateTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})
}

func TestBoardPassenger(t *testing.T) {
	now := time.Date(2026, 3, 15, 9, 45, 0, 0, time.UTC)

	setup := func(t *testing.T, departure time.Time, status models.ScheduleStatus) (*TicketService, *models.Ticket, uuid.UUID) {
		t.Helper()
		svc, store, schedules := newTicketService()

		ticket := pendingTicket()
		require.NoError(t, svc.CreateTicket(ticket))
		require.NoError(t, store.UpdateStatus(ticket.ID, models.TicketStatusPending, models.TicketStatusConfirmed))

		schedule := &models.Schedule{
			ID:            uuid.New(),
			VehicleID:     "BUS-042",
			RouteName:     ticket.Route,
			DepartureTime: departure,
			ArrivalTime:   departure.Add(6 * time.Hour),
			Status:        status,
		}
		schedules.schedules[schedule.ID] = schedule
		return svc, ticket, schedule.ID
	}

	t.Run("Inside Window", func(t *testing.T) {
		svc, ticket, scheduleID := setup(t, now.Add(15*time.Minute), models.ScheduleStatusActive)

		boarded, err := svc.BoardPassenger(ticket.ID, scheduleID, now)
		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusBoarded, boarded.Status)
		require.NotNil(t, boarded.TravelDate)
	})

	t.Run("Too Early", func(t *testing.T) {
		svc, ticket, scheduleID := setup(t, now.Add(2*time.Hour), models.ScheduleStatusActive)

		_, err := svc.BoardPassenger(ticket.ID, scheduleID, now)
		assert.Error(t, err)

		var windowErr *models.BoardingWindowError
		require.ErrorAs(t, err, &windowErr)
		assert.True(t, windowErr.TooEarly)
	})

	t.Run("After Departure", func(t *testing.T) {
		svc, ticket, scheduleID := setup(t, now.Add(-5*time.Minute), models.ScheduleStatusActive)

		_, err := svc.BoardPassenger(ticket.ID, scheduleID, now)
		assert.Error(t, err)

		var windowErr *models.BoardingWindowError
		require.ErrorAs(t, err, &windowErr)
		assert.False(t, windowErr.TooEarly)
	})

	t.Run("Window Boundary At Exactly Thirty Minutes", func(t *testing.T) {
		svc, ticket, scheduleID := setup(t, now.Add(models.BoardingWindow), models.ScheduleStatusActive)

		_, err := svc.BoardPassenger(ticket.ID, scheduleID, now)
		require.NoError(t, err)
	})

	t.Run("Cancelled Schedule Rejects Boarding", func(t *testing.T) {
		svc, ticket, scheduleID := setup(t, now.Add(15*time.Minute), models.ScheduleStatusCancelled)

		_, err := svc.BoardPassenger(ticket.ID, scheduleID, now)
		assert.Error(t, err)
	})

	t.Run("Pending Ticket Cannot Board", func(t *testing.T) {
		svc, _, schedules := newTicketService()

		ticket := pendingTicket()
		require.NoError(t, svc.CreateTicket(ticket))

		schedule := &models.Schedule{
			ID:            uuid.New(),
			DepartureTime: now.Add(15 * time.Minute),
			Status:        models.ScheduleStatusActive,
		}
		schedules.schedules[schedule.ID] = schedule

		_, err := svc.BoardPassenger(ticket.ID, schedule.ID, now)
		assert.Error(t, err)

		var transitionErr *models.InvalidStateTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})
}

func TestCancelTicket(t *testing.T) {
	t.Run("Pending Cancels At Full Refund", func(t *testing.T) {
		svc, _, _ := newTicketService()
		ticket := pendingTicket()
		require.NoError(t, svc.CreateTicket(ticket))

		resp, err := svc.CancelTicket(ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TicketStatusCancelled, resp.Ticket.Status)
		assert.Equal(t, 1.0, resp.RefundPercentage)
	})

	t.Run("Confirmed Cancels At Eighty Percent", func(t *testing.T) {
		svc, store, _ := newTicketService()
		ticket := pendingTicket()
		ticket.TransactionFee = 60.0
		require.NoError(t, svc.CreateTicket(ticket))
		require.NoError(t, store.UpdateStatus(ticket.ID, models.TicketStatusPending, models.TicketStatusConfirmed))

		resp, err := svc.CancelTicket(ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.8, resp.RefundPercentage)
		// The bound covers the price only, never the transaction fee.
		assert.InDelta(t, 2940.0*0.8, resp.MaxRefundAmount, 0.001)
	})

	t.Run("Boarded Cannot Cancel", func(t *testing.T) {
		svc, store, _ := newTicketService()
		ticket := pendingTicket()
		require.NoError(t, svc.CreateTicket(ticket))
		require.NoError(t, store.UpdateStatus(ticket.ID, models.TicketStatusPending, models.TicketStatusConfirmed))
		require.NoError(t, store.UpdateStatus(ticket.ID, models.TicketStatusConfirmed, models.TicketStatusBoarded))

		_, err := svc.CancelTicket(ticket.ID)
		assert.Error(t, err)
	})

	t.Run("Double Cancel Rejected", func(t *testing.T) {
		svc, _, _ := newTicketService()
		ticket := pendingTicket()
		require.NoError(t, svc.CreateTicket(ticket))

		_, err := svc.CancelTicket(ticket.ID)
		require.NoError(t, err)

		_, err = svc.CancelTicket(ticket.ID)
		assert.Error(t, err)

		var transitionErr *models.InvalidStateTransitionError
		assert.ErrorAs(t, err, &transitionErr)
	})
}
