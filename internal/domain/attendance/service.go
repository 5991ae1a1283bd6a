package attendance

import "context"

type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)
	ListMine(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, int64, error)
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, int64, error)
}
