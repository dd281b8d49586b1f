package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/middlewares"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

const (
	accessTTL  = 30 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

type AuthHandler struct {
	JWTSecret string
}

func NewAuthHandler(secret string) *AuthHandler {
	return &AuthHandler{JWTSecret: secret}
}

func (h *AuthHandler) sign(u *models.User, typ string, ttl time.Duration) (string, error) {
	claims := middlewares.Claims{
		Sub:  u.ID,
		Role: u.Role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tk := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tk.SignedString([]byte(h.JWTSecret))
}

/* ====================== DTOs ====================== */

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshReq struct {
	Refresh string `json:"refresh"`
}

/* ====================== Handlers ====================== */

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
	}

	var u models.User
	if err := database.DB.Where("username = ?", username).First(&u).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
			"error": "INVALID_CREDENTIALS", "message": "Invalid credentials.",
		})
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
			"error": "INVALID_CREDENTIALS", "message": "Invalid credentials.",
		})
	}
	if !u.Active {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
			"error": "ACCOUNT_DISABLED", "message": "Account is disabled.",
		})
	}

	access, err := h.sign(&u, "access", accessTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}
	refresh, err := h.sign(&u, "refresh", refreshTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"access":  access,
		"refresh": refresh,
		"user":    u,
	})
}

// POST /auth/logout
// Revocation is best-effort: a bad or missing refresh token still logs
// the caller out from their point of view.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err == nil && req.Refresh != "" {
		if claims, err := middlewares.ParseToken(req.Refresh, h.JWTSecret); err == nil &&
			claims.Type == "refresh" && claims.ID != "" {
			exp := time.Now().Add(refreshTTL)
			if claims.ExpiresAt != nil {
				exp = claims.ExpiresAt.Time
			}
			database.DB.Create(&models.RevokedToken{JTI: claims.ID, ExpiresAt: exp})
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"detail": "Logged out."})
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.Refresh == "" {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
	}

	claims, err := middlewares.ParseToken(req.Refresh, h.JWTSecret)
	if err != nil {
		return err
	}
	if claims.Type != "refresh" {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN"})
	}
	var revoked models.RevokedToken
	if err := database.DB.Where("jti = ?", claims.ID).First(&revoked).Error; err == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "TOKEN_REVOKED"})
	}

	var u models.User
	if err := database.DB.First(&u, claims.Sub).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "INVALID_TOKEN"})
	}
	if !u.Active {
		return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{
			"error": "ACCOUNT_DISABLED", "message": "Account is disabled.",
		})
	}

	access, err := h.sign(&u, "access", accessTTL)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "TOKEN_GEN_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]any{"access": access})
}

// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := c.Get("user_id").(uint)
	var u models.User
	if err := database.DB.First(&u, uid).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": "NOT_FOUND"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, u)
}
