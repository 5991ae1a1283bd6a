package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type organizationRepositoryImpl struct {
	db *database.DB
}

func NewOrganizationRepository(db *database.DB) organization.OrganizationRepository {
	return &organizationRepositoryImpl{db: db}
}

const organizationColumns = `id, name, slug, COALESCE(email, ''), phone, address, logo_url, subscription_plan, subscription_status, created_at, updated_at`

func scanOrganization(row pgx.Row) (organization.Organization, error) {
	var o organization.Organization
	var address []byte
	err := row.Scan(
		&o.ID, &o.Name, &o.Slug, &o.Email, &o.Phone, &address, &o.LogoURL,
		&o.SubscriptionPlan, &o.SubscriptionStatus, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return organization.Organization{}, err
	}
	if len(address) > 0 && string(address) != "null" {
		o.Address = &organization.Address{}
		if err := json.Unmarshal(address, o.Address); err != nil {
			return organization.Organization{}, fmt.Errorf("failed to decode organization address: %w", err)
		}
	}
	return o, nil
}

// Create implements organization.OrganizationRepository. An empty email is stored as NULL.
func (r *organizationRepositoryImpl) Create(ctx context.Context, o organization.Organization) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return organization.Organization{}, err
	}

	var address []byte
	if o.Address != nil {
		if address, err = json.Marshal(o.Address); err != nil {
			return organization.Organization{}, fmt.Errorf("failed to encode organization address: %w", err)
		}
	}

	query := `
		INSERT INTO organizations (id, name, slug, email, phone, address, logo_url, subscription_plan, subscription_status, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + organizationColumns

	created, err := scanOrganization(q.QueryRow(ctx, query,
		id.String(), o.Name, o.Slug, o.Email, o.Phone, address, o.LogoURL,
		string(o.SubscriptionPlan), string(o.SubscriptionStatus),
	))
	if err != nil {
		return organization.Organization{}, fmt.Errorf("failed to create organization: %w", err)
	}

	return created, nil
}

// GetByID implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) GetByID(ctx context.Context, id string) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	o, err := scanOrganization(q.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Organization{}, organization.ErrOrganizationNotFound
		}
		return organization.Organization{}, fmt.Errorf("failed to get organization: %w", err)
	}

	return o, nil
}

// Update implements organization.OrganizationRepository.
func (r *organizationRepositoryImpl) Update(ctx context.Context, id string, req organization.UpdateOrganizationRequest) (organization.Organization, error) {
	q := GetQuerier(ctx, r.db)

	var setClauses []string
	var args []interface{}
	set := func(col string, val interface{}) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		set("name", strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		set("email", strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Address != nil {
		address, err := json.Marshal(req.Address)
		if err != nil {
			return organization.Organization{}, fmt.Errorf("failed to encode organization address: %w", err)
		}
		set("address", address)
	}
	if req.LogoURL != nil {
		set("logo_url", *req.LogoURL)
	}
	if len(setClauses) == 0 {
		return organization.Organization{}, organization.ErrNothingToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE organizations SET %s, updated_at = NOW() WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), len(args), organizationColumns,
	)

	o, err := scanOrganization(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Organization{}, organization.ErrOrganizationNotFound
		}
		return organization.Organization{}, fmt.Errorf("failed to update organization %s: %w", id, err)
	}

	return o, nil
}
