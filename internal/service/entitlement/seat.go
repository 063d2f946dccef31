// internal/service/entitlement/seat.go
package entitlement

import (
	"context"
	"fmt"

	"propman-service/internal/domain/billing"
	xerrors "propman-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// ReserveSeat allocates one additional-user seat on the actor's active
// subscription and creates the employee record for it. Both effects happen
// in one transaction around a conditional increment pinned to the seat count
// read below; a concurrent reservation makes the increment match zero rows,
// the transaction aborts and the caller gets ErrSeatConflict. No automatic
// retry: under sustained contention the caller decides whether to try again.
func (s *Service) ReserveSeat(ctx context.Context, ownerID int64, req *billing.ReserveSeatRequest) (*billing.Employee, error) {
	sub, err := s.subscriptionRepo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if sub.CurrentUsers >= sub.MaxUsers {
		return nil, xerrors.ErrSeatLimitReached
	}

	role := req.Role
	if role == "" {
		role = "staff"
	}

	emp := &billing.Employee{
		SubscriptionID: sub.ID,
		FullName:       req.FullName,
		Email:          req.Email,
		Role:           role,
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.employeeRepo.CreateWithTx(ctx, tx, emp); err != nil {
		return nil, err
	}

	if err := s.subscriptionRepo.ReserveSeatWithTx(ctx, tx, sub.ID, sub.CurrentUsers); err != nil {
		if xerrors.Is(err, xerrors.ErrSeatConflict) {
			s.logger.Warn("seat reservation lost the race",
				zap.Int64("subscription_id", sub.ID),
				zap.Int("seen_current_users", sub.CurrentUsers))
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("seat reserved",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("employee_id", emp.ID),
		zap.Int("current_users", sub.CurrentUsers+1),
		zap.Int("max_users", sub.MaxUsers))

	return emp, nil
}
