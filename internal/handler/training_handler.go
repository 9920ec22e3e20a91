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

// GetTraining returns the tenant's training configuration.
func GetTraining(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTrainingOperation("get")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	cfg, err := repository.FindActive[model.TrainingConfig](database.GetDB(), p.TenantID, nil)
	if err != nil {
		if repository.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "training configuration not found"})
		}
		log.Error("Failed to load training configuration", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load training configuration"})
	}

	return c.JSON(http.StatusOK, cfg)
}

// SaveTraining upserts the tenant's training configuration.
func SaveTraining(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTrainingOperation("save")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		ChunkingType string `json:"chunking_type" form:"chunking_type"`
		RetrainMode  string `json:"full_retrain_or_only_remaining" form:"full_retrain_or_only_remaining"`
		ChunkSize    int    `json:"chunk_size" form:"chunk_size"`
		Overlap      int    `json:"overlap" form:"overlap"`
		SearchType   string `json:"search_type" form:"search_type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.ChunkingType == "" || req.ChunkSize <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "chunking_type and a positive chunk_size are required"})
	}

	fields := repository.Fields{
		"chunking_type": req.ChunkingType,
		"retrain_mode":  req.RetrainMode,
		"chunk_size":    req.ChunkSize,
		"overlap":       req.Overlap,
		"search_type":   req.SearchType,
		"status":        model.TrainingStatusConfigured,
	}
	fresh := model.TrainingConfig{
		TenantID:     p.TenantID,
		ChunkingType: req.ChunkingType,
		RetrainMode:  req.RetrainMode,
		ChunkSize:    req.ChunkSize,
		Overlap:      req.Overlap,
		SearchType:   req.SearchType,
		Status:       model.TrainingStatusConfigured,
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	cfg, created, err := repository.Upsert(database.GetDB(), p.TenantID, nil, fields, &fresh)
	if err != nil {
		log.Error("Failed to save training configuration", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save training configuration."})
	}

	log.Info("Training configuration saved",
		zap.Uint("tenant_id", p.TenantID),
		zap.Bool("created", created))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{
		"message":  "Training configuration saved successfully.",
		"training": cfg,
	})
}

// StartTraining marks the tenant's training configuration as started. The
// heavy lifting happens in the chatbot runtime; the portal only records the
// transition.
func StartTraining(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTrainingOperation("start")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	rows, err := repository.UpdateFields[model.TrainingConfig](database.GetDB(), p.TenantID, nil,
		repository.Fields{"status": model.TrainingStatusStarted})
	if err != nil {
		log.Error("Failed to start training", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while starting the training"})
	}
	if rows == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "training configuration not found"})
	}

	log.Info("Training started", zap.Uint("tenant_id", p.TenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Training started successfully!"})
}
