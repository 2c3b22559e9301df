package cashier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billing/backend/internal/application/gateway"
	"github.com/billing/backend/internal/domain/billing"
	"github.com/billing/backend/internal/domain/cashier"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	sessionCollection  = "cash_sessions"
	movementCollection = "cash_movements"
)

// SessionService owns the cash-register session lifecycle. The expected
// balance is always a derived read over the opening float, cash sales and
// manual movements; it is written to the session exactly once, at close.
//
// At most one OPEN session may exist per tenant: opening a second one fails
// with INVALID_STATE.
type SessionService struct {
	sessionRepo  cashier.CashSessionRepository
	movementRepo cashier.CashMovementRepository
	docRepo      billing.DocumentRepository
	calculator   *cashier.BalanceCalculator
	replicator   gateway.RecordReplicator
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// SessionServiceOption is a functional option for configuring SessionService
type SessionServiceOption func(*SessionService)

// WithCashMethods overrides the payment-method labels counted as cash
func WithCashMethods(methods []string) SessionServiceOption {
	return func(s *SessionService) {
		s.calculator = cashier.NewBalanceCalculator(methods)
	}
}

// WithReplicator attaches a remote record replicator
func WithReplicator(replicator gateway.RecordReplicator) SessionServiceOption {
	return func(s *SessionService) {
		s.replicator = replicator
	}
}

// WithEventPublisher attaches a domain event publisher
func WithEventPublisher(publisher shared.EventPublisher) SessionServiceOption {
	return func(s *SessionService) {
		s.publisher = publisher
	}
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessionRepo cashier.CashSessionRepository,
	movementRepo cashier.CashMovementRepository,
	docRepo billing.DocumentRepository,
	logger *zap.Logger,
	opts ...SessionServiceOption,
) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SessionService{
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
		docRepo:      docRepo,
		calculator:   cashier.NewBalanceCalculator(nil),
		replicator:   gateway.NoopReplicator{},
		publisher:    shared.NoopEventPublisher{},
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open starts a new session with the given opening float. Fails with
// INVALID_STATE when the tenant already has an OPEN session.
func (s *SessionService) Open(ctx context.Context, tenantID, userID uuid.UUID, openingBalance decimal.Decimal) (*SessionResponse, error) {
	existing, err := s.sessionRepo.FindOpenForTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("INVALID_STATE", "A cash session is already open for this tenant")
	}

	session, err := cashier.NewCashSession(tenantID, userID, openingBalance)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.publishEvents(ctx, session.GetDomainEvents())
	session.ClearDomainEvents()

	sync := s.replicate(ctx, sessionCollection, tenantID, session.ID, session)
	return toSessionResponse(session, &sync), nil
}

// RecordMovement appends a manual IN/OUT movement to an OPEN session. The
// expected balance is not mutated; it remains a derived read.
func (s *SessionService) RecordMovement(ctx context.Context, tenantID, sessionID uuid.UUID, input MovementInput) (*MovementResponse, error) {
	session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record a movement on a closed session")
	}

	movement, err := cashier.NewCashMovement(tenantID, sessionID, cashier.MovementType(input.Type), input.Amount, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.movementRepo.Save(ctx, movement); err != nil {
		return nil, fmt.Errorf("failed to save movement: %w", err)
	}

	sync := s.replicate(ctx, movementCollection, tenantID, movement.ID, movement)
	return toMovementResponse(movement, &sync), nil
}

// GetExpected recomputes the live expected balance of an OPEN session
func (s *SessionService) GetExpected(ctx context.Context, tenantID, sessionID uuid.UUID) (*ExpectedBalanceResponse, error) {
	session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, shared.NewDomainError("INVALID_STATE", "Session is not open")
	}

	expected, err := s.computeExpected(ctx, session)
	if err != nil {
		return nil, err
	}

	return &ExpectedBalanceResponse{
		SessionID:       session.ID,
		OpeningBalance:  session.OpeningBalance,
		ExpectedBalance: expected,
		ComputedAt:      time.Now(),
	}, nil
}

// Close reconciles and terminates an OPEN session: expected balance is
// recomputed, the counted balance recorded, and the variance derived. This
// is the only write path for those fields.
func (s *SessionService) Close(ctx context.Context, tenantID, sessionID uuid.UUID, actualBalance decimal.Decimal) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsOpen() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cash session is not open")
	}

	expected, err := s.computeExpected(ctx, session)
	if err != nil {
		return nil, err
	}

	if err := session.Close(expected, actualBalance); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save closed session: %w", err)
	}

	s.publishEvents(ctx, session.GetDomainEvents())
	session.ClearDomainEvents()

	sync := s.replicate(ctx, sessionCollection, tenantID, session.ID, session)
	return toSessionResponse(session, &sync), nil
}

// Get returns a single session
func (s *SessionService) Get(ctx context.Context, tenantID, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(session, nil), nil
}

// List returns sessions matching the filter
func (s *SessionService) List(ctx context.Context, tenantID uuid.UUID, filter SessionListFilter) ([]SessionResponse, error) {
	domainFilter := cashier.SessionFilter{Filter: shared.DefaultFilter(), UserID: filter.UserID}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := cashier.SessionStatus(filter.Status)
		domainFilter.Status = &status
	}

	sessions, err := s.sessionRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = *toSessionResponse(&sessions[i], nil)
	}
	return responses, nil
}

// ListMovements returns the movements of a session in creation order
func (s *SessionService) ListMovements(ctx context.Context, tenantID, sessionID uuid.UUID) ([]MovementResponse, error) {
	if _, err := s.sessionRepo.FindByIDForTenant(ctx, tenantID, sessionID); err != nil {
		return nil, err
	}

	movements, err := s.movementRepo.FindBySession(ctx, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = *toMovementResponse(&movements[i], nil)
	}
	return responses, nil
}

func (s *SessionService) computeExpected(ctx context.Context, session *cashier.CashSession) (decimal.Decimal, error) {
	movements, err := s.movementRepo.FindBySession(ctx, session.TenantID, session.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load movements: %w", err)
	}
	documents, err := s.docRepo.FindRevenueSince(ctx, session.TenantID, session.OpenedAt)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load revenue documents: %w", err)
	}
	return s.calculator.ComputeExpected(session, movements, documents), nil
}

func (s *SessionService) replicate(ctx context.Context, collection string, tenantID, recordID uuid.UUID, record any) gateway.SyncStatus {
	sync := gateway.SyncComplete()
	if err := s.replicator.Replicate(ctx, collection, tenantID, recordID, record); err != nil {
		sync = gateway.SyncRemoteFailed()
		s.logger.Warn("remote sync failed, record kept locally",
			zap.String("collection", collection),
			zap.String("tenant_id", tenantID.String()),
			zap.String("record_id", recordID.String()),
			zap.Error(err))
	}
	return sync
}

func (s *SessionService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
