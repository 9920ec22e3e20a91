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

// Dashboard returns the live source and lead counts for the caller's tenant.
func Dashboard(c echo.Context) error {
	log := logger.FromContext(c)

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()
	defer prometheus.TrackDBOperation("query")(time.Now())

	documents, err := repository.CountActive[model.Document](db, p.TenantID)
	if err != nil {
		log.Error("Failed to count documents", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}
	urls, err := repository.CountActive[model.URL](db, p.TenantID)
	if err != nil {
		log.Error("Failed to count urls", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}
	leads, err := repository.CountActive[model.Lead](db, p.TenantID)
	if err != nil {
		log.Error("Failed to count leads", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load dashboard"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tenant_id": p.TenantID,
		"documents": documents,
		"urls":      urls,
		"leads":     leads,
	})
}
