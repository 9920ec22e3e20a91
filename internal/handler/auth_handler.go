package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sapvaishnav/chatbot-admin/internal/auth"
	"github.com/sapvaishnav/chatbot-admin/internal/repository"
	"github.com/sapvaishnav/chatbot-admin/pkg/database"
	"github.com/sapvaishnav/chatbot-admin/pkg/jwtutil"
	"github.com/sapvaishnav/chatbot-admin/pkg/logger"
	"github.com/sapvaishnav/chatbot-admin/prometheus"
)

// Register creates a login user together with its owning tenant.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Username        string `json:"username" form:"username"`
		Password        string `json:"password" form:"password"`
		ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
		Email           string `json:"email" form:"email"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username == "" || req.Password == "" || req.Email == "" {
		log.Error("Invalid registration data",
			zap.String("username", req.Username),
			zap.Bool("password_provided", req.Password != ""))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, password and email are required"})
	}

	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		prometheus.RecordAuthError("password_mismatch")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	svc := auth.Service{DB: database.GetDB()}
	user, tenant, err := svc.Register(req.Username, req.Password, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrInvalidPassword):
			log.Warn("Registration rejected", zap.String("username", req.Username), zap.Error(err))
			prometheus.RecordAuthError("invalid_credentials_format")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, auth.ErrDuplicateUser):
			log.Warn("User already exists", zap.String("username", req.Username))
			prometheus.RecordAuthError("user_already_exists")
			return c.JSON(http.StatusConflict, echo.Map{"error": "username or email already registered"})
		default:
			log.Error("Failed to register user", zap.Error(err))
			prometheus.RecordAuthError("registration_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
		}
	}

	log.Info("User registered",
		zap.String("username", user.Username),
		zap.Uint("tenant_id", tenant.ID))

	// Each registration creates a tenant, so refresh the gauge here.
	if n, err := repository.CountActiveTenants(database.GetDB()); err == nil {
		prometheus.UpdateActiveTenants(n)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful! You can now log in.",
		"user": echo.Map{
			"login_id":  user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"role":      user.Role,
			"tenant_id": user.TenantID,
		},
	})
}

// Login verifies credentials and issues the session token.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	svc := auth.Service{DB: database.GetDB()}
	user, err := svc.Authenticate(req.Username, req.Password)
	if err != nil {
		// The internal reason stays in the logs and metrics; the response
		// is the same for an unknown user and a wrong password.
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			log.Warn("Login for unknown user", zap.String("username", req.Username))
			prometheus.RecordAuthError("user_not_found")
		case errors.Is(err, auth.ErrPasswordMismatch):
			log.Warn("Invalid password", zap.String("username", req.Username))
			prometheus.RecordAuthError("invalid_password")
		default:
			log.Error("Login failed", zap.Error(err))
			prometheus.RecordAuthError("login_failed")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	token, err := jwtutil.GenerateToken(user.Username, user.ID, user.TenantID, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.Uint("tenant_id", user.TenantID))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"login_id":  user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"role":      user.Role,
			"tenant_id": user.TenantID,
		},
	})
}
