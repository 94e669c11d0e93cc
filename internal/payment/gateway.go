package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Sathwik84/charge-ease-find/internal/models"
)

// Request is one charge submission.
type Request struct {
	Amount  float64
	Method  string
	Details models.PaymentDetails
}

// Result reports the processor's answer. Declined is a business outcome,
// not a transport error; transport failures come back as the error return.
type Result struct {
	TransactionID string
	Declined      bool
	Reason        string
}

// Gateway is the abstract payment boundary.
type Gateway interface {
	Charge(ctx context.Context, req Request) (Result, error)
}

// StubGateway approves every charge after a fixed delay, standing in for a
// real processor integration. declineReason, when set, makes it decline
// instead, which exercises the failure transition.
type StubGateway struct {
	delay         time.Duration
	declineReason string
	logger        *zap.Logger
}

// NewStubGateway builds the stub.
func NewStubGateway(delay time.Duration, logger *zap.Logger) *StubGateway {
	return &StubGateway{delay: delay, logger: logger}
}

// NewDecliningGateway builds a stub that declines every charge.
func NewDecliningGateway(reason string, logger *zap.Logger) *StubGateway {
	return &StubGateway{declineReason: reason, logger: logger}
}

// Charge implements Gateway.
func (g *StubGateway) Charge(ctx context.Context, req Request) (Result, error) {
	if g.delay > 0 {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(g.delay):
		}
	}

	if g.declineReason != "" {
		g.logger.Info("charge declined",
			zap.Float64("amount", req.Amount),
			zap.String("method", req.Method),
			zap.String("reason", g.declineReason),
		)
		return Result{Declined: true, Reason: g.declineReason}, nil
	}

	result := Result{TransactionID: uuid.NewString()}
	g.logger.Info("charge approved",
		zap.Float64("amount", req.Amount),
		zap.String("method", req.Method),
		zap.String("transaction_id", result.TransactionID),
	)
	return result, nil
}
