package organization

import (
	"context"
	"errors"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5/pgconn"
)

type OrganizationServiceImpl struct {
	organizationRepo organization.OrganizationRepository
}

func NewOrganizationService(organizationRepo organization.OrganizationRepository) organization.OrganizationService {
	return &OrganizationServiceImpl{organizationRepo: organizationRepo}
}

func (s *OrganizationServiceImpl) GetCurrent(ctx context.Context) (organization.OrganizationResponse, error) {
	orgID, err := jwt.OrganizationFromContext(ctx)
	if err != nil {
		return organization.OrganizationResponse{}, user.ErrOrganizationRequired
	}

	o, err := s.organizationRepo.GetByID(ctx, orgID)
	if err != nil {
		return organization.OrganizationResponse{}, err
	}

	return mapToResponse(o), nil
}

func (s *OrganizationServiceImpl) UpdateCurrent(ctx context.Context, req organization.UpdateOrganizationRequest) (organization.OrganizationResponse, error) {
	orgID, err := jwt.OrganizationFromContext(ctx)
	if err != nil {
		return organization.OrganizationResponse{}, user.ErrOrganizationRequired
	}
	if err := req.Validate(); err != nil {
		return organization.OrganizationResponse{}, err
	}
	if req.IsEmpty() {
		return organization.OrganizationResponse{}, organization.ErrNothingToUpdate
	}

	o, err := s.organizationRepo.Update(ctx, orgID, req)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return organization.OrganizationResponse{}, organization.ErrEmailExists
		}
		return organization.OrganizationResponse{}, err
	}

	return mapToResponse(o), nil
}

func mapToResponse(o organization.Organization) organization.OrganizationResponse {
	return organization.OrganizationResponse{
		ID:                 o.ID,
		Name:               o.Name,
		Slug:               o.Slug,
		Email:              o.Email,
		Phone:              o.Phone,
		Address:            o.Address,
		LogoURL:            o.LogoURL,
		SubscriptionPlan:   o.SubscriptionPlan,
		SubscriptionStatus: o.SubscriptionStatus,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}
