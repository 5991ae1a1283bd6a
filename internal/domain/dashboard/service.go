package dashboard

import "context"

type DashboardService interface {
	// GetDashboard gathers every figure concurrently for the caller's organization.
	GetDashboard(ctx context.Context) (DashboardResponse, error)
}
