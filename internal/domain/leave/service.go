package leave

import "context"

type LeaveService interface {
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	UpdateLeaveType(ctx context.Context, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)

	ListMyBalances(ctx context.Context, year *int) ([]BalanceResponse, error)

	Apply(ctx context.Context, req ApplyLeaveRequest) (RequestResponse, error)
	ListMyRequests(ctx context.Context, filter RequestFilter) ([]RequestResponse, int64, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]RequestResponse, int64, error)
	GetRequest(ctx context.Context, id string) (RequestResponse, error)
	Approve(ctx context.Context, id string, req ReviewLeaveRequest) (RequestResponse, error)
	Reject(ctx context.Context, id string, req ReviewLeaveRequest) (RequestResponse, error)
	Cancel(ctx context.Context, id string) (RequestResponse, error)
}
