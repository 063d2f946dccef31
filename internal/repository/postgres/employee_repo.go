// internal/repository/postgres/employee_repo.go
package postgres

import (
	"context"
	"fmt"

	"propman-service/internal/domain/billing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmployeeRepository struct {
	db *pgxpool.Pool
}

func NewEmployeeRepository(db *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// CreateWithTx inserts an employee within the seat-reservation transaction,
// so the insert and the seat increment commit or abort together.
func (r *EmployeeRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, emp *billing.Employee) error {
	query := `
		INSERT INTO employees (subscription_id, full_name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := tx.QueryRow(ctx, query, emp.SubscriptionID, emp.FullName, emp.Email, emp.Role).
		Scan(&emp.ID, &emp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

// ListBySubscription retrieves all employees on a subscription
func (r *EmployeeRepository) ListBySubscription(ctx context.Context, subscriptionID int64) ([]billing.Employee, error) {
	query := `
		SELECT id, subscription_id, full_name, email, role, created_at
		FROM employees
		WHERE subscription_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []billing.Employee{}
	for rows.Next() {
		var emp billing.Employee
		if err := rows.Scan(&emp.ID, &emp.SubscriptionID, &emp.FullName, &emp.Email, &emp.Role, &emp.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}
