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
	"github.com/sapvaishnav/chatbot-admin/pkg/storage"
	"github.com/sapvaishnav/chatbot-admin/prometheus"
)

var uploads = &storage.Store{Root: "uploads"}

// SetUploadStore points the upload handlers at the configured storage root.
func SetUploadStore(s *storage.Store) {
	uploads = s
}

// BotConfigRequest carries the sparse bot configuration update. Avatar and
// workspace background arrive as multipart files, everything else as form
// fields; absent fields keep their stored values.
type BotConfigRequest struct {
	ModelName             *string  `json:"model_name" form:"model_name"`
	ModelKey              *string  `json:"model_key" form:"model_key"`
	Creativity            *float64 `json:"creativity" form:"creativity"`
	Threshold             *float64 `json:"threshold" form:"threshold"`
	BotName               *string  `json:"bot_name" form:"bot_name"`
	ShortTermMemoryLength *int     `json:"short_term_memory_length" form:"short_term_memory_length"`
	MaxMatchingKnowledge  *int     `json:"max_matching_knowledge" form:"max_matching_knowledge"`
	GreetingMessage       *string  `json:"greeting_message" form:"greeting_message"`
	StaticMessage         *string  `json:"static_message" form:"static_message"`
	IntegrationURL        *string  `json:"integration_url" form:"integration_url"`
	IntegrationScript     *string  `json:"integration_script" form:"integration_script"`
}

// GetBotConfig returns the tenant's bot configuration.
func GetBotConfig(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordBotConfigOperation("get")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	cfg, err := repository.FindActive[model.BotConfiguration](database.GetDB(), p.TenantID, nil)
	if err != nil {
		if repository.IsNotFound(err) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "bot configuration not found"})
		}
		log.Error("Failed to load bot configuration", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load bot configuration"})
	}

	return c.JSON(http.StatusOK, cfg)
}

// SaveBotConfig upserts the tenant's bot configuration. The first call
// creates the singleton row; later calls apply only the supplied fields.
func SaveBotConfig(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordBotConfigOperation("save")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req BotConfigRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	fields := repository.Fields{}
	fresh := model.BotConfiguration{TenantID: p.TenantID}
	if req.ModelName != nil {
		fields["model_name"] = *req.ModelName
		fresh.ModelName = *req.ModelName
	}
	if req.ModelKey != nil {
		fields["model_key"] = *req.ModelKey
		fresh.ModelKey = *req.ModelKey
	}
	if req.Creativity != nil {
		fields["creativity"] = *req.Creativity
		fresh.Creativity = *req.Creativity
	}
	if req.Threshold != nil {
		fields["threshold"] = *req.Threshold
		fresh.Threshold = *req.Threshold
	}
	if req.BotName != nil {
		fields["bot_name"] = *req.BotName
		fresh.BotName = *req.BotName
	}
	if req.ShortTermMemoryLength != nil {
		fields["short_term_memory_length"] = *req.ShortTermMemoryLength
		fresh.ShortTermMemoryLength = *req.ShortTermMemoryLength
	}
	if req.MaxMatchingKnowledge != nil {
		fields["max_matching_knowledge"] = *req.MaxMatchingKnowledge
		fresh.MaxMatchingKnowledge = *req.MaxMatchingKnowledge
	}
	if req.GreetingMessage != nil {
		fields["greeting_message"] = *req.GreetingMessage
		fresh.GreetingMessage = *req.GreetingMessage
	}
	if req.StaticMessage != nil {
		fields["static_message"] = *req.StaticMessage
		fresh.StaticMessage = *req.StaticMessage
	}
	if req.IntegrationURL != nil {
		fields["integration_url"] = *req.IntegrationURL
		fresh.IntegrationURL = *req.IntegrationURL
	}
	if req.IntegrationScript != nil {
		fields["integration_script"] = *req.IntegrationScript
		fresh.IntegrationScript = *req.IntegrationScript
	}

	// Avatar and workspace background are optional uploads stored below the
	// tenant's own directory.
	if file, err := c.FormFile("bot_avatar"); err == nil && file != nil {
		path, err := uploads.Save(p.TenantID, storage.CategoryBotConfig, file)
		if err != nil {
			log.Error("Failed to store bot avatar", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store bot avatar"})
		}
		fields["bot_avatar"] = path
		fresh.BotAvatar = path
	}
	if file, err := c.FormFile("workspace_background"); err == nil && file != nil {
		path, err := uploads.Save(p.TenantID, storage.CategoryBotConfig, file)
		if err != nil {
			log.Error("Failed to store workspace background", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store workspace background"})
		}
		fields["bot_workspace"] = path
		fresh.BotWorkspace = path
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	cfg, created, err := repository.Upsert(database.GetDB(), p.TenantID, nil, fields, &fresh)
	if err != nil {
		log.Error("Failed to save bot configuration", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save bot configuration"})
	}

	log.Info("Bot configuration saved",
		zap.Uint("tenant_id", p.TenantID),
		zap.Bool("created", created),
		zap.Int("fields", len(fields)))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{
		"message": "Bot configuration updated successfully!",
		"config":  cfg,
	})
}
