package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sapvaishnav/chatbot-admin/internal/middleware"
	"github.com/sapvaishnav/chatbot-admin/internal/repository"
	"github.com/sapvaishnav/chatbot-admin/pkg/database"
	"github.com/sapvaishnav/chatbot-admin/pkg/logger"
	"github.com/sapvaishnav/chatbot-admin/prometheus"
)

// OrgProfileRequest carries the sparse organization profile update. Absent
// fields leave the stored values untouched.
type OrgProfileRequest struct {
	Name     *string `json:"tenant_name" form:"tenant_name"`
	Contact  *string `json:"tenant_contact" form:"tenant_contact"`
	Email    *string `json:"tenant_emailid" form:"tenant_emailid"`
	Address  *string `json:"tenant_address" form:"tenant_address"`
	City     *string `json:"tenant_city" form:"tenant_city"`
	Country  *string `json:"tenant_country" form:"tenant_country"`
	Postcode *string `json:"tenant_postcode" form:"tenant_postcode"`
	GSTNNo   *string `json:"tenant_gstn_no" form:"tenant_gstn_no"`
	PAN      *string `json:"tenant_pan" form:"tenant_pan"`
}

// GetOrgProfile returns the organization profile of the caller's tenant.
func GetOrgProfile(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("get_profile")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenant, err := repository.GetTenant(database.GetDB(), p.TenantID)
	if err != nil {
		log.Error("Tenant not found", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	return c.JSON(http.StatusOK, tenant)
}

// UpdateOrgProfile applies a partial update to the caller's tenant row.
func UpdateOrgProfile(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenantOperation("update_profile")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req OrgProfileRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	fields := repository.Fields{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Contact != nil {
		fields["contact"] = *req.Contact
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.City != nil {
		fields["city"] = *req.City
	}
	if req.Country != nil {
		fields["country"] = *req.Country
	}
	if req.Postcode != nil {
		fields["postcode"] = *req.Postcode
	}
	if req.GSTNNo != nil {
		fields["gstn_no"] = *req.GSTNNo
	}
	if req.PAN != nil {
		fields["pan"] = *req.PAN
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	rows, err := repository.UpdateTenant(database.GetDB(), p.TenantID, fields)
	if err != nil {
		log.Error("Failed to update tenant profile",
			zap.Uint("tenant_id", p.TenantID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update organization profile"})
	}

	log.Info("Organization profile updated",
		zap.Uint("tenant_id", p.TenantID),
		zap.Int64("rows_affected", rows),
		zap.Int("fields", len(fields)))

	tenant, err := repository.GetTenant(database.GetDB(), p.TenantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Organization profile updated successfully",
		"tenant":  tenant,
	})
}
