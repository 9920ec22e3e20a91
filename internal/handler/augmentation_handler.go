package handler

import (
	"net/http"
	"strconv"
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

const documentStatusUploaded = "Uploaded"

// GetDataAugmentation returns every augmentation source of the tenant in a
// single payload: documents, urls and the database connection, if any.
func GetDataAugmentation(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAugmentationOperation("all", "list")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	db := database.GetDB()
	defer prometheus.TrackDBOperation("query")(time.Now())

	documents, err := repository.ListActive[model.Document](db, p.TenantID)
	if err != nil {
		log.Error("Failed to list documents", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load data augmentation sources"})
	}

	urls, err := repository.ListActive[model.URL](db, p.TenantID)
	if err != nil {
		log.Error("Failed to list urls", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load data augmentation sources"})
	}

	// The database connection is a singleton and may legitimately be absent.
	var connection *model.DatabaseConnection
	conn, err := repository.FindActive[model.DatabaseConnection](db, p.TenantID, nil)
	switch {
	case err == nil:
		connection = conn
	case !repository.IsNotFound(err):
		log.Error("Failed to load database connection", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load data augmentation sources"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"documents":           documents,
		"urls":                urls,
		"database_connection": connection,
	})
}

// UploadDocument stores a single uploaded file under the tenant directory
// and registers it as an augmentation source. The same name/type pair may
// only be registered once per tenant.
func UploadDocument(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAugmentationOperation("document", "upload")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	file, err := c.FormFile("files")
	if err != nil || file == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No file uploaded."})
	}

	if _, err := uploads.Save(p.TenantID, storage.CategoryAugmentation, file); err != nil {
		log.Error("Failed to store uploaded document",
			zap.Uint("tenant_id", p.TenantID),
			zap.String("file", file.Filename),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to store uploaded document"})
	}

	doc := model.Document{
		TenantID:       p.TenantID,
		DocumentName:   file.Filename,
		DocumentType:   storage.DocumentType(file.Filename),
		DocumentStatus: documentStatusUploaded,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&doc).Error; err != nil {
		// The partial unique index rejects a second live row with the same
		// name and type, including the concurrent-upload race.
		if repository.IsDuplicate(err) {
			log.Warn("Document already exists",
				zap.String("document_name", doc.DocumentName),
				zap.Uint("tenant_id", p.TenantID))
			return c.JSON(http.StatusConflict, echo.Map{
				"error": "Document \"" + doc.DocumentName + "\" already exists and was not uploaded.",
			})
		}
		log.Error("Failed to register document", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error uploading document \"" + doc.DocumentName + "\"."})
	}

	log.Info("Document uploaded",
		zap.Uint("doc_id", doc.ID),
		zap.String("document_name", doc.DocumentName),
		zap.String("document_type", doc.DocumentType),
		zap.Uint("tenant_id", p.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Document \"" + doc.DocumentName + "\" uploaded successfully.",
		"document": doc,
	})
}

// RemoveDocument soft-deletes a document of the caller's tenant. Removing a
// document that is already gone still reports success.
func RemoveDocument(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAugmentationOperation("document", "remove")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid document ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := repository.SoftDelete[model.Document](database.GetDB(), p.TenantID, uint(id)); err != nil {
		log.Error("Failed to remove document", zap.Uint64("doc_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to remove document"})
	}

	log.Info("Document removed", zap.Uint64("doc_id", id), zap.Uint("tenant_id", p.TenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Document removed successfully."})
}

// AddURL registers a web page as an augmentation source if the tenant does
// not already have a live row for the same link.
func AddURL(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAugmentationOperation("url", "add")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		URL    string `json:"url" form:"url"`
		Status string `json:"url_status" form:"url_status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url is required"})
	}
	if req.Status == "" {
		req.Status = "Added"
	}

	url := model.URL{
		TenantID:  p.TenantID,
		URLLink:   req.URL,
		URLStatus: req.Status,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := database.GetDB().Create(&url).Error; err != nil {
		if repository.IsDuplicate(err) {
			log.Warn("URL already exists", zap.String("url", req.URL), zap.Uint("tenant_id", p.TenantID))
			return c.JSON(http.StatusConflict, echo.Map{"error": "URL already exists: \"" + req.URL + "\"."})
		}
		log.Error("Failed to add URL", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Error adding URL \"" + req.URL + "\"."})
	}

	log.Info("URL added",
		zap.Uint("url_id", url.ID),
		zap.String("url", url.URLLink),
		zap.Uint("tenant_id", p.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "URL \"" + url.URLLink + "\" added successfully.",
		"url":     url,
	})
}

// RemoveURL soft-deletes a URL of the caller's tenant.
func RemoveURL(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAugmentationOperation("url", "remove")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid URL ID"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := repository.SoftDelete[model.URL](database.GetDB(), p.TenantID, uint(id)); err != nil {
		log.Error("Failed to remove URL", zap.Uint64("url_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to remove URL"})
	}

	log.Info("URL removed", zap.Uint64("url_id", id), zap.Uint("tenant_id", p.TenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "URL removed successfully."})
}

// SaveDatabaseConnection upserts the tenant's external database credentials.
// One live connection per tenant; saving again overwrites the stored fields.
func SaveDatabaseConnection(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAugmentationOperation("database", "save")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Hostname     string `json:"hostname" form:"hostname"`
		Port         string `json:"port" form:"port"`
		DatabaseName string `json:"databasename" form:"databasename"`
		Username     string `json:"username" form:"username"`
		Password     string `json:"password" form:"password"`
		Status       string `json:"db_status" form:"db_status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.Hostname == "" || req.DatabaseName == "" || req.Username == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hostname, databasename and username are required"})
	}
	if req.Status == "" {
		req.Status = "Configured"
	}

	fields := repository.Fields{
		"hostname":      req.Hostname,
		"port":          req.Port,
		"database_name": req.DatabaseName,
		"username":      req.Username,
		"password":      req.Password,
		"status":        req.Status,
	}
	fresh := model.DatabaseConnection{
		TenantID:     p.TenantID,
		Hostname:     req.Hostname,
		Port:         req.Port,
		DatabaseName: req.DatabaseName,
		Username:     req.Username,
		Password:     req.Password,
		Status:       req.Status,
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	conn, created, err := repository.Upsert(database.GetDB(), p.TenantID, nil, fields, &fresh)
	if err != nil {
		log.Error("Failed to save database connection", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save database connection"})
	}

	log.Info("Database connection saved",
		zap.Uint("tenant_id", p.TenantID),
		zap.String("hostname", conn.Hostname),
		zap.Bool("created", created))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{
		"message":    "Database connection saved successfully.",
		"connection": conn,
	})
}

// RemoveDatabaseConnection soft-deletes the tenant's database connection.
func RemoveDatabaseConnection(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordAugmentationOperation("database", "remove")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	_, err := repository.UpdateFields[model.DatabaseConnection](database.GetDB(), p.TenantID, nil, repository.Fields{"del_flg": 1})
	if err != nil {
		log.Error("Failed to remove database connection", zap.Uint("tenant_id", p.TenantID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to remove database connection"})
	}

	log.Info("Database connection removed", zap.Uint("tenant_id", p.TenantID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Database connection removed successfully."})
}
