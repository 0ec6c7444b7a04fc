package handlers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"aliaport-backend/internal/ctxkeys"
)

// appendFirmScope adds a firm_id scope filter to a dynamic WHERE clause.
// colExpr is the SQL column expression to filter on (e.g. "e.firm_id", "f.id").
// If the user has global scope (operator and above), nothing is added.
func appendFirmScope(ctx context.Context, where string, args []interface{}, argIdx int, colExpr string) (string, []interface{}, int) {
	scope := ctxkeys.GetFirmScope(ctx)
	if scope == nil {
		return where, args, argIdx
	}
	where += fmt.Sprintf(" AND %s = ANY($%d)", colExpr, argIdx)
	args = append(args, scope)
	argIdx++
	return where, args, argIdx
}

// checkFirmAccess verifies that the given firmID is within the user's scope.
func checkFirmAccess(ctx context.Context, firmID string) bool {
	scope := ctxkeys.GetFirmScope(ctx)
	if scope == nil {
		return true
	}
	for _, id := range scope {
		if id == firmID {
			return true
		}
	}
	return false
}

// checkEmployeeAccess looks up the employee's firm_id and checks scope.
func checkEmployeeAccess(ctx context.Context, pool *pgxpool.Pool, employeeID string) bool {
	if ctxkeys.IsGlobalScope(ctx) {
		return true
	}
	var firmID string
	err := pool.QueryRow(ctx, "SELECT firm_id::text FROM employees WHERE id = $1", employeeID).Scan(&firmID)
	if err != nil {
		return false
	}
	return checkFirmAccess(ctx, firmID)
}

// checkWorkOrderAccess looks up the work order's firm and checks scope.
func checkWorkOrderAccess(ctx context.Context, pool *pgxpool.Pool, workOrderID string) bool {
	if ctxkeys.IsGlobalScope(ctx) {
		return true
	}
	var firmID string
	err := pool.QueryRow(ctx, "SELECT firm_id::text FROM work_orders WHERE id = $1", workOrderID).Scan(&firmID)
	if err != nil {
		return false
	}
	return checkFirmAccess(ctx, firmID)
}
