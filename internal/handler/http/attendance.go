package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmlabs/hrm-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// decodeOptional decodes a JSON body that may be empty.
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckOutRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

func attendanceFilter(r *http.Request) (attendance.AttendanceFilter, error) {
	q := newQueryParams(r)
	filter := attendance.AttendanceFilter{
		EmployeeID: q.String("employee_id"),
		From:       q.String("from"),
		To:         q.String("to"),
		Page:       q.IntOr("page", 1),
		Limit:      q.IntOr("limit", 20),
	}
	return filter, q.Err()
}

func (h *attendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	filter, err := attendanceFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, total, err := h.attendanceService.ListMine(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, response.NewMeta(filter.Page, filter.Limit, total))
}

func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, err := attendanceFilter(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	results, total, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, results, response.NewMeta(filter.Page, filter.Limit, total))
}
