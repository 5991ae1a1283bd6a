package holiday

import (
	"context"
	"errors"
	"time"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/holiday"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
)

type HolidayServiceImpl struct {
	holidayRepo holiday.HolidayRepository
	now         func() time.Time
}

func NewHolidayService(holidayRepo holiday.HolidayRepository) *HolidayServiceImpl {
	return &HolidayServiceImpl{holidayRepo: holidayRepo, now: time.Now}
}

func organizationID(ctx context.Context) (string, error) {
	orgID, err := jwt.OrganizationFromContext(ctx)
	if err != nil {
		return "", user.ErrOrganizationRequired
	}
	return orgID, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.holidayRepo.Create(ctx, req.Holiday(orgID))
	if err != nil {
		if isUniqueViolation(err) {
			return holiday.HolidayResponse{}, holiday.ErrHolidayExists
		}
		return holiday.HolidayResponse{}, err
	}
	return mapToResponse(created), nil
}

// List returns the holidays of year, or of the current year when year is nil.
func (s *HolidayServiceImpl) List(ctx context.Context, year *int) ([]holiday.HolidayResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return nil, err
	}

	y := s.now().Year()
	if year != nil {
		y = *year
	}

	holidays, err := s.holidayRepo.ListByYear(ctx, orgID, y)
	if err != nil {
		return nil, err
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, mapToResponse(h))
	}
	return responses, nil
}

func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	orgID, err := organizationID(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}
	if !validator.IsValidUUID(req.ID) {
		return holiday.HolidayResponse{}, holiday.ErrHolidayNotFound
	}

	current, err := s.holidayRepo.GetByID(ctx, req.ID, orgID)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	req.Apply(&current)

	updated, err := s.holidayRepo.Update(ctx, current)
	if err != nil {
		if isUniqueViolation(err) {
			return holiday.HolidayResponse{}, holiday.ErrHolidayExists
		}
		return holiday.HolidayResponse{}, err
	}
	return mapToResponse(updated), nil
}

func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	orgID, err := organizationID(ctx)
	if err != nil {
		return err
	}
	if !validator.IsValidUUID(id) {
		return holiday.ErrHolidayNotFound
	}
	return s.holidayRepo.Delete(ctx, id, orgID)
}

func mapToResponse(h holiday.Holiday) holiday.HolidayResponse {
	return holiday.HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        h.Date.Format(validator.DateLayout),
		Type:        h.Type,
		IsOptional:  h.IsOptional,
		Description: h.Description,
	}
}

var _ holiday.HolidayService = (*HolidayServiceImpl)(nil)
