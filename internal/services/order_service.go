package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"

	domain "github.com/spiritmart/api/internal/domain"
	"github.com/spiritmart/api/internal/submission"
)

var (
	errOrderCartRequired   = errors.New("order service: cart service is required")
	errOrderSenderRequired = errors.New("order service: sender is required")
	errOrderClockRequired  = errors.New("order service: clock is required")
)

// ErrOrderInvalidInput indicates the caller supplied invalid input.
var ErrOrderInvalidInput = errors.New("order service: invalid input")

// ErrOrderEmptyCart indicates the session's cart has no lines to submit.
var ErrOrderEmptyCart = errors.New("order service: cart is empty")

// ErrOrderInFlight indicates a submission for the session is already running.
var ErrOrderInFlight = errors.New("order service: submission already in flight")

// ErrOrderRejected indicates the intake endpoint declined the submission.
var ErrOrderRejected = errors.New("order service: submission rejected")

// ErrOrderUnavailable indicates the submission could not be delivered or a
// backend dependency failed. The cart is left untouched for retry.
var ErrOrderUnavailable = errors.New("order service: unavailable")

// SubmissionSender delivers an order payload to the intake endpoint.
type SubmissionSender interface {
	Submit(ctx context.Context, payload submission.Payload) (submission.Result, error)
}

// OrderServiceDeps wires the cart and delivery dependencies for submissions.
type OrderServiceDeps struct {
	Cart        CartService
	Sender      SubmissionSender
	Clock       func() time.Time
	Logger      func(context.Context, string, map[string]any)
	IDGenerator func() string
}

type orderService struct {
	cart     CartService
	sender   SubmissionSender
	now      func() time.Time
	logger   func(context.Context, string, map[string]any)
	newID    func() string
	sanitize *bluemonday.Policy

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewOrderService constructs an OrderService enforcing dependency validation.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Cart == nil {
		return nil, errOrderCartRequired
	}
	if deps.Sender == nil {
		return nil, errOrderSenderRequired
	}
	if deps.Clock == nil {
		return nil, errOrderClockRequired
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}

	return &orderService{
		cart:     deps.Cart,
		sender:   deps.Sender,
		now:      func() time.Time { return deps.Clock().UTC() },
		logger:   logger,
		newID:    idGen,
		sanitize: bluemonday.StrictPolicy(),
		inFlight: make(map[string]struct{}),
	}, nil
}

// Submit delivers the session's cart to the intake endpoint. At most one
// submission per session runs at a time; the cart is cleared only after the
// endpoint acknowledges the order.
func (s *orderService) Submit(ctx context.Context, cmd SubmitOrderCommand) (OrderReceipt, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	if sid == "" {
		return OrderReceipt{}, ErrOrderInvalidInput
	}

	if !s.acquire(sid) {
		return OrderReceipt{}, ErrOrderInFlight
	}
	defer s.release(sid)

	view, err := s.cart.GetCart(ctx, sid)
	if err != nil {
		return OrderReceipt{}, fmt.Errorf("%w: loading cart: %v", ErrOrderUnavailable, err)
	}
	if len(view.Lines) == 0 {
		return OrderReceipt{}, ErrOrderEmptyCart
	}

	attemptID := s.newID()
	payload := s.buildPayload(cmd.Meta, view.Lines)

	s.logger(ctx, "order.submitting", map[string]any{
		"session_id": sid,
		"attempt_id": attemptID,
		"lines":      len(view.Lines),
	})

	result, err := s.sender.Submit(ctx, payload)
	if err != nil {
		if errors.Is(err, submission.ErrRejected) {
			s.logger(ctx, "order.rejected", map[string]any{
				"session_id": sid,
				"attempt_id": attemptID,
				"reason":     result.Error,
			})
			return OrderReceipt{}, fmt.Errorf("%w: %s", ErrOrderRejected, strings.TrimSpace(result.Error))
		}
		s.logger(ctx, "order.delivery_failed", map[string]any{
			"session_id": sid,
			"attempt_id": attemptID,
			"error":      err.Error(),
		})
		return OrderReceipt{}, fmt.Errorf("%w: %v", ErrOrderUnavailable, err)
	}

	rows := result.Rows
	if rows <= 0 {
		rows = len(payload.Items)
	}

	if err := s.cart.ClearCart(ctx, sid); err != nil {
		// The order is already accepted upstream; report success and log
		// the stale cart.
		s.logger(ctx, "order.cart_clear_failed", map[string]any{
			"session_id": sid,
			"attempt_id": attemptID,
			"error":      err.Error(),
		})
	}

	s.logger(ctx, "order.accepted", map[string]any{
		"session_id": sid,
		"attempt_id": attemptID,
		"rows":       rows,
	})
	return OrderReceipt{AttemptID: attemptID, Rows: rows, SubmittedAt: s.now()}, nil
}

func (s *orderService) buildPayload(meta SubmissionMeta, lines []domain.LineItem) submission.Payload {
	state := strings.TrimSpace(meta.State)
	if state == "" && len(lines) > 0 {
		state = lines[0].State
	}

	payload := submission.Payload{
		Meta: submission.Meta{
			Company: s.cleanText(meta.Company),
			Name:    s.cleanText(meta.Name),
			Email:   s.cleanText(meta.Email),
			Notes:   s.cleanText(meta.Notes),
			State:   s.cleanText(state),
		},
		Items: make([]submission.Item, 0, len(lines)),
	}
	for _, line := range lines {
		payload.Items = append(payload.Items, submission.Item{
			State:      line.State,
			School:     line.School,
			DesignID:   line.DesignID,
			DesignName: line.DesignName,
			Style:      line.Style,
			Wholesale:  line.WholesaleUnitPrice.String(),
			MSRP:       line.MSRP.String(),
			Qty:        int(line.Quantity),
		})
	}
	return payload
}

func (s *orderService) cleanText(value string) string {
	return strings.TrimSpace(s.sanitize.Sanitize(value))
}

func (s *orderService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *orderService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, sessionID)
}
