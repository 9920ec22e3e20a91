package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sapvaishnav/chatbot-admin/internal/middleware"
	"github.com/sapvaishnav/chatbot-admin/internal/model"
	"github.com/sapvaishnav/chatbot-admin/internal/repository"
	"github.com/sapvaishnav/chatbot-admin/pkg/database"
	"github.com/sapvaishnav/chatbot-admin/pkg/logger"
	"github.com/sapvaishnav/chatbot-admin/prometheus"
)

// ListLeads returns the tenant's live leads joined with their conversation
// details.
func ListLeads(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("list")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	leads, err := repository.LeadsWithConversations(database.GetDB(), p.TenantID)
	if err != nil {
		log.Error("Failed to retrieve leads", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve leads"})
	}

	log.Info("Leads retrieved", zap.Int("count", len(leads)), zap.Uint("tenant_id", p.TenantID))
	return c.JSON(http.StatusOK, echo.Map{"leads": leads})
}

// CreateLead captures a chatbot visitor for the tenant.
func CreateLead(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordLeadOperation("create")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Username    string `json:"username" form:"username"`
		Email       string `json:"email" form:"email"`
		PhoneNumber string `json:"phone_number" form:"phone_number"`
		IP          string `json:"ip" form:"ip"`
		HTTPDetails string `json:"all_http_details" form:"all_http_details"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	now := time.Now()
	lead := model.Lead{
		TenantID:    p.TenantID,
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		IP:          req.IP,
		HTTPDetails: req.HTTPDetails,
		LastActive:  &now,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&lead).Error; err != nil {
		log.Error("Failed to create lead", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create lead"})
	}

	log.Info("Lead captured",
		zap.Uint("user_id", lead.ID),
		zap.String("username", lead.Username),
		zap.Uint("tenant_id", p.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Lead captured successfully.",
		"lead":    lead,
	})
}
