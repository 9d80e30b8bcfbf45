package middleware

import (
	"os"
	"strings"
	"time"

	"costengine/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the identity and tenant scope encoded in an access token.
// TenantID is the zero UUID for tokens minted before multi-tenancy (tests
// that only exercise user/role still validate correctly).
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id,omitempty"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

var jwtSecret = loadJWTSecret()

func loadJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "development-secret-change-me-in-production"
	}
	return []byte(secret)
}

const defaultTokenTTL = 24 * time.Hour

// GenerateToken issues a signed access token for user.
func GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		TenantID: user.TenantID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(defaultTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "pos-system",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken parses and verifies an access token, returning its claims.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}

// AuthMiddleware validates the bearer token and populates the request
// context with user_id, tenant_id, username and role.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(401, models.APIResponse{
				Success: false,
				Message: "Authorization header is required",
				Error:   stringPtr("missing_auth_header"),
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(401, models.APIResponse{
				Success: false,
				Message: "Invalid authorization header format",
				Error:   stringPtr("invalid_auth_format"),
			})
			return
		}

		claims, err := ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(401, models.APIResponse{
				Success: false,
				Message: "Invalid or expired token",
				Error:   stringPtr("invalid_token"),
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("tenant_id", claims.TenantID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole aborts the request unless the authenticated user holds role.
func RequireRole(role string) gin.HandlerFunc {
	return RequireRoles([]string{role})
}

// RequireRoles aborts the request unless the authenticated user holds one of roles.
func RequireRoles(roles []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(403, models.APIResponse{
				Success: false,
				Message: "Role information not found",
				Error:   stringPtr("missing_role"),
			})
			return
		}

		userRole, _ := roleVal.(string)
		for _, allowed := range roles {
			if userRole == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(403, models.APIResponse{
			Success: false,
			Message: "Insufficient permissions",
			Error:   stringPtr("insufficient_permissions"),
		})
	}
}

// GetUserFromContext extracts the identity populated by AuthMiddleware.
func GetUserFromContext(c *gin.Context) (uuid.UUID, string, string, bool) {
	userIDVal, ok1 := c.Get("user_id")
	usernameVal, ok2 := c.Get("username")
	roleVal, ok3 := c.Get("role")
	if !ok1 || !ok2 || !ok3 {
		return uuid.Nil, "", "", false
	}

	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", "", false
	}
	username, _ := usernameVal.(string)
	role, _ := roleVal.(string)
	return userID, username, role, true
}

// GetTenantFromContext extracts the tenant id populated by AuthMiddleware.
func GetTenantFromContext(c *gin.Context) (uuid.UUID, bool) {
	tenantIDVal, ok := c.Get("tenant_id")
	if !ok {
		return uuid.Nil, false
	}
	tenantID, ok := tenantIDVal.(uuid.UUID)
	return tenantID, ok
}

func stringPtr(s string) *string {
	return &s
}
