package http

import (
	"encoding/json"
	"net/http"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/organization"
	"github.com/hrmlabs/hrm-backend-go/internal/handler/http/response"
)

type OrganizationHandler interface {
	GetCurrent(w http.ResponseWriter, r *http.Request)
	UpdateCurrent(w http.ResponseWriter, r *http.Request)
}

type organizationHandlerImpl struct {
	organizationService organization.OrganizationService
}

func NewOrganizationHandler(organizationService organization.OrganizationService) OrganizationHandler {
	return &organizationHandlerImpl{organizationService: organizationService}
}

func (h *organizationHandlerImpl) GetCurrent(w http.ResponseWriter, r *http.Request) {
	result, err := h.organizationService.GetCurrent(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *organizationHandlerImpl) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	var req organization.UpdateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.organizationService.UpdateCurrent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Organization updated successfully", result)
}
