package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/courierdesk/courierdesk/internal/access"
	"github.com/courierdesk/courierdesk/internal/platform/httpx"
)

// PermissionsHandler exposes the static capability table to administrators.
type PermissionsHandler struct {
	rbac Middleware
}

// NewPermissionsHandler builds PermissionsHandler instance.
func NewPermissionsHandler(rbac Middleware) *PermissionsHandler {
	return &PermissionsHandler{rbac: rbac}
}

// MountRoutes registers permission routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireRoles(access.RoleAdministrator))
		r.Get("/", h.listPermissions)
	})
}

type classificationGrant struct {
	Classification string              `json:"classification"`
	Description    string              `json:"description"`
	Capabilities   []access.Capability `json:"capabilities"`
}

type permissionsResponse struct {
	Capabilities []access.Capability   `json:"capabilities"`
	Grants       []classificationGrant `json:"grants"`
}

// representatives holds one sample actor per classification.
var representatives = []*access.Actor{
	{ID: "-", Role: access.RoleAdministrator},
	{ID: "-", Role: access.RolePartner, HasOwnFleet: true},
	{ID: "-", Role: access.RolePartner},
	{ID: "-", Role: access.RoleDriver, PartnerSubtype: access.SubtypeCourier},
	{ID: "-", Role: access.RoleDriver},
	{ID: "-", Role: access.RoleCustomer},
}

func (h *PermissionsHandler) listPermissions(w http.ResponseWriter, r *http.Request) {
	resp := permissionsResponse{Capabilities: access.AllCapabilities()}
	for _, a := range representatives {
		resp.Grants = append(resp.Grants, classificationGrant{
			Classification: access.KindOf(a).String(),
			Description:    access.DescribeRole(a),
			Capabilities:   access.Capabilities(a),
		})
	}
	httpx.JSON(w, http.StatusOK, resp)
}
