package handler

import (
	"net/http"
	"time"

	"github.com/Oscarts/backery2-app-sub002/internal/model"
	"github.com/Oscarts/backery2-app-sub002/internal/tenantscope"
	"github.com/Oscarts/backery2-app-sub002/pkg/database"
	"github.com/Oscarts/backery2-app-sub002/pkg/jwtutil"
	"github.com/Oscarts/backery2-app-sub002/pkg/logger"
	"github.com/Oscarts/backery2-app-sub002/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates a user by email and password. This is the one code
// path that runs with no tenant bound: the email lookup must see users of
// every tenant, since the tenant is only known after the user is found.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Find user by email - a global unique-key lookup
	defer prometheus.TrackDBOperation("query")(time.Now())
	var user model.User
	result := database.GetDB().WithContext(c.Request().Context()).
		Scopes(tenantscope.ByUniqueKey).
		Where("email = ?", req.Email).
		First(&user)
	if result.Error != nil {
		log.Warn("User not found", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Resolve the user's tenant for the token
	var tenant model.Tenant
	if result := database.GetDB().First(&tenant, user.TenantID); result.Error != nil {
		log.Error("Tenant not found for user",
			zap.Uint("user_id", user.ID),
			zap.Uint("tenant_id", user.TenantID))
		prometheus.RecordAuthError("tenant_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !tenant.Active {
		log.Warn("Tenant is inactive", zap.Uint("tenant_id", tenant.ID))
		prometheus.RecordAuthError("tenant_inactive")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "tenant is inactive"})
	}

	tenantID := user.TenantID
	token, err := jwtutil.GenerateToken(user.Email, user.ID, &tenantID, tenant.Name, user.Role)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	prometheus.ActiveTokensGauge.Inc()

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.Uint("tenant_id", tenantID),
		zap.String("tenant_name", tenant.Name))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
		"tenant": map[string]interface{}{
			"id":   tenant.ID,
			"name": tenant.Name,
			"slug": tenant.Slug,
		},
	})
}

// Register creates a user account under an existing tenant. Registration
// happens before authentication, so the tenant is assigned explicitly from
// the resolved slug rather than stamped from a bound context.
func Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		TenantSlug string `json:"tenant_slug"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Email == "" || req.Password == "" || req.TenantSlug == "" {
		log.Warn("Invalid registration data", zap.String("email", req.Email))
		prometheus.RecordAuthError("incomplete_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and tenant_slug are required"})
	}

	// Resolve the tenant the account will belong to
	var tenant model.Tenant
	result := database.GetDB().Where("slug = ? AND active = ?", req.TenantSlug, true).First(&tenant)
	if result.Error != nil {
		log.Warn("Unknown tenant slug", zap.String("slug", req.TenantSlug))
		prometheus.RecordAuthError("unknown_tenant")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown tenant"})
	}

	// Check if user already exists
	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.User
	result = database.GetDB().WithContext(c.Request().Context()).
		Scopes(tenantscope.ByUniqueKey).
		Where("email = ?", req.Email).
		First(&existing)
	if result.Error == nil {
		log.Warn("User already exists", zap.String("email", req.Email))
		prometheus.RecordAuthError("email_already_exists")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		prometheus.RecordAuthError("password_hash_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	user := model.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Name:     req.Name,
		Role:     "member",
		Scope:    tenantscope.Scope{TenantID: tenant.ID},
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().WithContext(c.Request().Context()).Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("user_creation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	log.Info("User registered",
		zap.String("email", user.Email),
		zap.Uint("tenant_id", user.TenantID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": map[string]interface{}{
			"id":        user.ID,
			"email":     user.Email,
			"tenant_id": user.TenantID,
		},
	})
}
