package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sapvaishnav/chatbot-admin/internal/middleware"
	"github.com/sapvaishnav/chatbot-admin/pkg/database"
	"github.com/sapvaishnav/chatbot-admin/pkg/storage"
	"github.com/sapvaishnav/chatbot-admin/prometheus"
)

// newTestServer wires the routes the way main does, backed by an in-memory
// database and a throwaway upload directory.
func newTestServer(t *testing.T) (*echo.Echo, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	uploadDir := t.TempDir()
	SetUploadStore(&storage.Store{Root: uploadDir})

	e := echo.New()

	e.GET("/health", HealthCheck)
	auth := e.Group("/auth")
	auth.POST("/login", Login)
	auth.POST("/register", Register)

	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.GET("/dashboard", Dashboard)
	api.GET("/orgprofile", GetOrgProfile)
	api.PUT("/orgprofile", UpdateOrgProfile)
	api.GET("/bot-config", GetBotConfig)
	api.POST("/bot-config", SaveBotConfig)
	api.GET("/leads", ListLeads)
	api.POST("/leads", CreateLead)

	augmentation := api.Group("/data-augmentation")
	augmentation.GET("", GetDataAugmentation)
	augmentation.POST("/documents", UploadDocument)
	augmentation.DELETE("/documents/:id", RemoveDocument)
	augmentation.POST("/urls", AddURL)
	augmentation.DELETE("/urls/:id", RemoveURL)
	augmentation.PUT("/database-connection", SaveDatabaseConnection)
	augmentation.DELETE("/database-connection", RemoveDatabaseConnection)

	api.GET("/training", GetTraining)
	api.POST("/training", SaveTraining)
	api.POST("/training/start", StartTraining)

	return e, uploadDir
}

func doJSON(e *echo.Echo, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates a user with its tenant and returns a usable token.
func registerAndLogin(t *testing.T, e *echo.Echo, username, email string) string {
	t.Helper()

	rec := doJSON(e, http.MethodPost, "/auth/register", "", echo.Map{
		"username": username, "password": "Passw0rd1", "confirm_password": "Passw0rd1", "email": email,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/auth/login", "", echo.Map{
		"username": username, "password": "Passw0rd1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegisterLoginDashboard(t *testing.T) {
	e, _ := newTestServer(t)

	token := registerAndLogin(t, e, "alice", "a@x.com")

	rec := doJSON(e, http.MethodGet, "/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 0, body["documents"])
	assert.EqualValues(t, 0, body["urls"])
	assert.EqualValues(t, 0, body["leads"])
	assert.NotZero(t, body["tenant_id"])

	// Registration above created the only tenant in this database.
	assert.Equal(t, 1.0, testutil.ToFloat64(prometheus.ActiveTenantsGauge))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodGet, "/api/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/dashboard", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register", "", echo.Map{
		"username": "alice", "password": "Passw0rd1", "confirm_password": "Other0rd1", "email": "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/register", "", echo.Map{
		"username": "alice", "password": "weak", "email": "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/register", "", echo.Map{
		"username": "alice", "email": "a@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	e, _ := newTestServer(t)
	registerAndLogin(t, e, "alice", "a@x.com")

	rec := doJSON(e, http.MethodPost, "/auth/register", "", echo.Map{
		"username": "alice", "password": "Passw0rd1", "email": "other@x.com",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	e, _ := newTestServer(t)
	registerAndLogin(t, e, "alice", "a@x.com")

	wrongPassword := doJSON(e, http.MethodPost, "/auth/login", "", echo.Map{
		"username": "alice", "password": "Wrong0rd1",
	})
	unknownUser := doJSON(e, http.MethodPost, "/auth/login", "", echo.Map{
		"username": "nobody", "password": "Passw0rd1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func uploadDocument(t *testing.T, e *echo.Echo, token, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("files", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/data-augmentation/documents", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestDocumentLifecycle(t *testing.T) {
	e, uploadDir := newTestServer(t)
	token := registerAndLogin(t, e, "alice", "a@x.com")

	rec := uploadDocument(t, e, token, "faq.pdf", "%PDF-1.4 fake")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode(t, rec)["document"].(map[string]any)
	assert.Equal(t, "faq.pdf", doc["document_name"])
	assert.Equal(t, "pdf", doc["document_type"])
	assert.Equal(t, "Uploaded", doc["document_status"])

	tenantID := uint64(doc["tenant_id"].(float64))
	stored := filepath.Join(uploadDir, strconv.FormatUint(tenantID, 10), storage.CategoryAugmentation, "faq.pdf")
	_, err := os.Stat(stored)
	assert.NoError(t, err, "uploaded file must land in the tenant directory")

	rec = uploadDocument(t, e, token, "faq.pdf", "%PDF-1.4 fake")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "already exists")

	rec = doJSON(e, http.MethodGet, "/api/data-augmentation", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["documents"], 1)

	docID := strconv.FormatFloat(doc["doc_id"].(float64), 'f', -1, 64)
	rec = doJSON(e, http.MethodDelete, "/api/data-augmentation/documents/"+docID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/data-augmentation", token, nil)
	assert.Len(t, decode(t, rec)["documents"], 0)

	// Removing again is harmless.
	rec = doJSON(e, http.MethodDelete, "/api/data-augmentation/documents/"+docID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestURLLifecycle(t *testing.T) {
	e, _ := newTestServer(t)
	token := registerAndLogin(t, e, "alice", "a@x.com")

	rec := doJSON(e, http.MethodPost, "/api/data-augmentation/urls", token, echo.Map{
		"url": "https://example.com/docs",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	url := decode(t, rec)["url"].(map[string]any)
	assert.Equal(t, "Added", url["url_status"])

	rec = doJSON(e, http.MethodPost, "/api/data-augmentation/urls", token, echo.Map{
		"url": "https://example.com/docs",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/data-augmentation/urls", token, echo.Map{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	urlID := strconv.FormatFloat(url["url_id"].(float64), 'f', -1, 64)
	rec = doJSON(e, http.MethodDelete, "/api/data-augmentation/urls/"+urlID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// The link can be registered again once the old row is gone.
	rec = doJSON(e, http.MethodPost, "/api/data-augmentation/urls", token, echo.Map{
		"url": "https://example.com/docs",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDatabaseConnectionUpsert(t *testing.T) {
	e, _ := newTestServer(t)
	token := registerAndLogin(t, e, "alice", "a@x.com")

	rec := doJSON(e, http.MethodPut, "/api/data-augmentation/database-connection", token, echo.Map{
		"hostname": "db.internal", "port": "5432", "databasename": "crm",
		"username": "reader", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	conn := decode(t, rec)["connection"].(map[string]any)
	assert.Equal(t, "Configured", conn["db_status"])
	assert.NotContains(t, conn, "password", "credentials never leave the server")

	rec = doJSON(e, http.MethodPut, "/api/data-augmentation/database-connection", token, echo.Map{
		"hostname": "db2.internal", "databasename": "crm", "username": "reader",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	conn = decode(t, rec)["connection"].(map[string]any)
	assert.Equal(t, "db2.internal", conn["hostname"])

	rec = doJSON(e, http.MethodPut, "/api/data-augmentation/database-connection", token, echo.Map{
		"hostname": "db.internal",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/data-augmentation/database-connection", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/data-augmentation", token, nil)
	assert.Nil(t, decode(t, rec)["database_connection"])
}

func TestBotConfigUpsert(t *testing.T) {
	e, _ := newTestServer(t)
	token := registerAndLogin(t, e, "alice", "a@x.com")

	rec := doJSON(e, http.MethodGet, "/api/bot-config", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/bot-config", token, echo.Map{
		"model_name": "gpt-4", "model_key": "sk-test", "bot_name": "Helper", "creativity": 0.7,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// A later save with only one field leaves the rest untouched.
	rec = doJSON(e, http.MethodPost, "/api/bot-config", token, echo.Map{
		"bot_name": "Concierge",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/bot-config", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cfg := decode(t, rec)
	assert.Equal(t, "Concierge", cfg["bot_name"])
	assert.Equal(t, "gpt-4", cfg["model_name"])
	assert.Equal(t, 0.7, cfg["creativity"])
}

func TestBotConfigAvatarUpload(t *testing.T) {
	e, uploadDir := newTestServer(t)
	token := registerAndLogin(t, e, "alice", "a@x.com")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("bot_name", "Helper"))
	fw, err := w.CreateFormFile("bot_avatar", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/bot-config", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cfg := decode(t, rec)["config"].(map[string]any)
	assert.Equal(t, "Helper", cfg["bot_name"])
	avatar, _ := cfg["bot_avatar"].(string)
	require.NotEmpty(t, avatar)

	tenantID := uint64(cfg["tenant_id"].(float64))
	assert.Equal(t, filepath.Join(uploadDir, strconv.FormatUint(tenantID, 10), storage.CategoryBotConfig, "avatar.png"), avatar)
	_, err = os.Stat(avatar)
	assert.NoError(t, err, "avatar must land in the tenant directory")

	// The stored path survives later saves that do not resend the file.
	rec = doJSON(e, http.MethodPost, "/api/bot-config", token, echo.Map{"bot_name": "Concierge"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodGet, "/api/bot-config", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, avatar, decode(t, rec)["bot_avatar"])
}

func TestTrainingFlow(t *testing.T) {
	e, _ := newTestServer(t)
	token := registerAndLogin(t, e, "alice", "a@x.com")

	// Starting before anything is configured has nothing to act on.
	rec := doJSON(e, http.MethodPost, "/api/training/start", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/training", token, echo.Map{
		"chunk_size": 512,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/training", token, echo.Map{
		"chunking_type": "semantic", "chunk_size": 512, "overlap": 64, "search_type": "hybrid",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/api/training/start", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/training", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Started", decode(t, rec)["status"])
}

func TestLeadsListing(t *testing.T) {
	e, _ := newTestServer(t)
	token := registerAndLogin(t, e, "alice", "a@x.com")

	rec := doJSON(e, http.MethodPost, "/api/leads", token, echo.Map{
		"username": "visitor", "email": "v@x.com", "phone_number": "12345", "ip": "10.0.0.1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/leads", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	leads := decode(t, rec)["leads"].([]any)
	require.Len(t, leads, 1)
	lead := leads[0].(map[string]any)
	assert.Equal(t, "visitor", lead["username"])
	assert.Nil(t, lead["conversation_id"])
}

func TestOrgProfile(t *testing.T) {
	e, _ := newTestServer(t)
	token := registerAndLogin(t, e, "alice", "a@x.com")

	rec := doJSON(e, http.MethodGet, "/api/orgprofile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tenant := decode(t, rec)
	assert.Equal(t, "alice", tenant["tenant_name"])
	assert.Equal(t, "a@x.com", tenant["tenant_emailid"])
	assert.Len(t, tenant["tenant_key"], 16)

	rec = doJSON(e, http.MethodPut, "/api/orgprofile", token, echo.Map{
		"tenant_city": "Pune", "tenant_contact": "+91 12345",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(e, http.MethodGet, "/api/orgprofile", token, nil)
	tenant = decode(t, rec)
	assert.Equal(t, "Pune", tenant["tenant_city"])
	assert.Equal(t, "+91 12345", tenant["tenant_contact"])
	assert.Equal(t, "alice", tenant["tenant_name"])
}

func TestTenantsDoNotSeeEachOther(t *testing.T) {
	e, _ := newTestServer(t)
	alice := registerAndLogin(t, e, "alice", "a@x.com")
	bob := registerAndLogin(t, e, "bob", "b@x.com")

	rec := doJSON(e, http.MethodPost, "/api/data-augmentation/urls", alice, echo.Map{
		"url": "https://example.com/docs",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	url := decode(t, rec)["url"].(map[string]any)
	urlID := strconv.FormatFloat(url["url_id"].(float64), 'f', -1, 64)

	rec = doJSON(e, http.MethodGet, "/api/data-augmentation", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["urls"], 0)

	// Bob deleting Alice's id is a no-op on her data.
	rec = doJSON(e, http.MethodDelete, "/api/data-augmentation/urls/"+urlID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/data-augmentation", alice, nil)
	assert.Len(t, decode(t, rec)["urls"], 1)
}
