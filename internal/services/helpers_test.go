package services

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smarttransit/booking-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeSeatPoolStore is an in-memory seatPoolStore. Guarded by its own
// mutex so race tests can hammer it from many goroutines.
type fakeSeatPoolStore struct {
	mu     sync.Mutex
	pools  map[uuid.UUID]*models.SeatPool
	failOn string
}

func newFakeSeatPoolStore() *fakeSeatPoolStore {
	return &fakeSeatPoolStore{pools: make(map[uuid.UUID]*models.SeatPool)}
}

func (f *fakeSeatPoolStore) Create(pool *models.SeatPool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "create" {
		return fmt.Errorf("storage down")
	}
	if pool.ID == uuid.Nil {
		pool.ID = uuid.New()
	}
	copied := *pool
	f.pools[pool.ID] = &copied
	return nil
}

func (f *fakeSeatPoolStore) GetByID(poolID uuid.UUID) (*models.SeatPool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "get" {
		return nil, fmt.Errorf("storage down")
	}
	pool, ok := f.pools[poolID]
	if !ok {
		return nil, nil
	}
	copied := *pool
	return &copied, nil
}

func (f *fakeSeatPoolStore) UpdateAvailableSeats(pool *models.SeatPool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "update" {
		return fmt.Errorf("storage down")
	}
	stored, ok := f.pools[pool.ID]
	if !ok {
		return fmt.Errorf("seat pool %s not found", pool.ID)
	}
	if pool.AvailableSeats < 0 || pool.AvailableSeats > stored.TotalSeats {
		return fmt.Errorf("seat pool %s not updated (stale or out of bounds)", pool.ID)
	}
	stored.AvailableSeats = pool.AvailableSeats
	return nil
}

// fakeTicketStore is an in-memory ticketStore
type fakeTicketStore struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*models.Ticket
	failOn  string
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: make(map[uuid.UUID]*models.Ticket)}
}

func (f *fakeTicketStore) Create(ticket *models.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "create" {
		return fmt.Errorf("storage down")
	}
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	if ticket.BookingDate.IsZero() {
		ticket.BookingDate = time.Now()
	}
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketStore) GetByID(ticketID uuid.UUID) (*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return nil, nil
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketStore) ListByPassenger(passengerID uuid.UUID, limit, offset int) ([]*models.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Ticket
	for _, ticket := range f.tickets {
		if ticket.PassengerID == passengerID {
			copied := *ticket
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeTicketStore) UpdateStatus(ticketID uuid.UUID, from, to models.TicketStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != from {
		return &models.InvalidStateTransitionError{
			Entity: "ticket",
			From:   string(from),
			To:     string(to),
		}
	}
	ticket.Status = to
	return nil
}

func (f *fakeTicketStore) UpdatePaymentDetails(ticket *models.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "payment_details" {
		return fmt.Errorf("storage down")
	}
	stored, ok := f.tickets[ticket.ID]
	if !ok {
		return fmt.Errorf("ticket %s not found", ticket.ID)
	}
	stored.PaymentMethod = ticket.PaymentMethod
	stored.PaymentID = ticket.PaymentID
	stored.TransactionFee = ticket.TransactionFee
	stored.Status = ticket.Status
	return nil
}

func (f *fakeTicketStore) MarkBoarded(ticketID uuid.UUID, departure time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[ticketID]
	if !ok || ticket.Status != models.TicketStatusConfirmed {
		return &models.InvalidStateTransitionError{
			Entity: "ticket",
			From:   string(models.TicketStatusConfirmed),
			To:     string(models.TicketStatusBoarded),
		}
	}
	ticket.Status = models.TicketStatusBoarded
	ticket.TravelDate = &departure
	return nil
}

// fakePaymentStore is an in-memory paymentStore
type fakePaymentStore struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*models.Payment
	order    []uuid.UUID
	failOn   string
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: make(map[uuid.UUID]*models.Payment)}
}

func (f *fakePaymentStore) Create(payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "create" {
		return fmt.Errorf("storage down")
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	copied := *payment
	f.payments[payment.ID] = &copied
	f.order = append(f.order, payment.ID)
	return nil
}

func (f *fakePaymentStore) GetByID(paymentID uuid.UUID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.payments[paymentID]
	if !ok {
		return nil, nil
	}
	copied := *payment
	return &copied, nil
}

func (f *fakePaymentStore) GetLatestByTicket(ticketID uuid.UUID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.order) - 1; i >= 0; i-- {
		payment := f.payments[f.order[i]]
		if payment.TicketID == ticketID {
			copied := *payment
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentStore) Update(payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "update" {
		return fmt.Errorf("storage down")
	}
	stored, ok := f.payments[payment.ID]
	if !ok {
		return fmt.Errorf("payment %s not found", payment.ID)
	}
	stored.Status = payment.Status
	stored.RefundedAmount = payment.RefundedAmount
	stored.FailureReason = payment.FailureReason
	stored.TransactionDate = payment.TransactionDate
	return nil
}

// fakeRefundStore is an in-memory refundStore
type fakeRefundStore struct {
	mu      sync.Mutex
	refunds map[uuid.UUID]*models.Refund
}

func newFakeRefundStore() *fakeRefundStore {
	return &fakeRefundStore{refunds: make(map[uuid.UUID]*models.Refund)}
}

func (f *fakeRefundStore) Create(refund *models.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if refund.ID == uuid.Nil {
		refund.ID = uuid.New()
	}
	copied := *refund
	f.refunds[refund.ID] = &copied
	return nil
}

func (f *fakeRefundStore) GetByID(refundID uuid.UUID) (*models.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refund, ok := f.refunds[refundID]
	if !ok {
		return nil, nil
	}
	copied := *refund
	return &copied, nil
}

func (f *fakeRefundStore) ListPending(limit, offset int) ([]*models.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Refund
	for _, refund := range f.refunds {
		if refund.Status == models.RefundStatusPending {
			copied := *refund
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeRefundStore) UpdateStatus(refund *models.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.refunds[refund.ID]
	if !ok {
		return fmt.Errorf("refund %s not found", refund.ID)
	}
	stored.Status = refund.Status
	stored.ProcessedDate = refund.ProcessedDate
	stored.ProcessedByAdminID = refund.ProcessedByAdminID
	stored.RejectionReason = refund.RejectionReason
	return nil
}

// fakeScheduleStore is an in-memory scheduleStore
type fakeScheduleStore struct {
	schedules map[uuid.UUID]*models.Schedule
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{schedules: make(map[uuid.UUID]*models.Schedule)}
}

func (f *fakeScheduleStore) GetByID(scheduleID uuid.UUID) (*models.Schedule, error) {
	schedule, ok := f.schedules[scheduleID]
	if !ok {
		return nil, nil
	}
	copied := *schedule
	return &copied, nil
}

// fakeNotifier counts published events
type fakeNotifier struct {
	mu        sync.Mutex
	confirmed int
	cancelled int
	refunded  int
	failWith  error
}

func (f *fakeNotifier) TicketConfirmed(ticket *models.Ticket, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.confirmed++
	return nil
}

func (f *fakeNotifier) TicketCancelled(ticket *models.Ticket, refundAmount float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.cancelled++
	return nil
}

func (f *fakeNotifier) RefundCompleted(refund *models.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	f.refunded++
	return nil
}

// fakeAuditStore collects recorded audit events
type fakeAuditStore struct {
	mu      sync.Mutex
	actions []string
	failure error
}

func (f *fakeAuditStore) Record(entityType string, entityID uuid.UUID, action string, actorID *uuid.UUID, details interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failure != nil {
		return f.failure
	}
	f.actions = append(f.actions, action)
	return nil
}
