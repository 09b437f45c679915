package router

import (
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pos-next/internal/authz"
	"github.com/pos-next/internal/cache"
	"github.com/pos-next/internal/config"
	"github.com/pos-next/internal/http/response"
	"github.com/pos-next/internal/logger"
	"github.com/pos-next/internal/repository"
	"github.com/pos-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"
const staffRoleContextKey = "staff_role"

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Encoding",
			"Authorization",
			"Cache-Control",
			"X-Requested-With",
			"X-CSRF-Token",
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	if requestID, ok := value.(string); ok {
		return requestID
	}
	return ""
}

// JWTAuthMiddleware 员工 JWT 鉴权中间件。
// 令牌通过签名校验后还要比对 token_version 与 token_invalid_before，
// 改密、改角色、停用都会使旧令牌立即失效。
func JWTAuthMiddleware(secretKey string, staffRepo repository.StaffRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secretKey == "" {
			response.Unauthorized(c, "jwt secret missing")
			c.Abort()
			return
		}
		if staffRepo == nil {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "authorization header missing")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			response.Unauthorized(c, "authorization header invalid")
			c.Abort()
			return
		}

		tokenString := parts[1]
		parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		claims := &service.JWTClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid || claims.StaffID == 0 {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}

		if cached, hit, cacheErr := cache.GetStaffAuthState(c.Request.Context(), claims.StaffID); cacheErr == nil && hit && cached != nil {
			if !cached.IsActive {
				response.Unauthorized(c, "staff account disabled")
				c.Abort()
				return
			}
			if claims.TokenVersion != cached.TokenVersion || !isIssuedAfterInvalidBeforeUnix(claims.IssuedAt, cached.TokenInvalidBefore) {
				response.Unauthorized(c, "token revoked")
				c.Abort()
				return
			}
			c.Set("staff_id", claims.StaffID)
			c.Set("username", cached.Username)
			c.Set(staffRoleContextKey, cached.Role)
			c.Next()
			return
		}

		staff, err := staffRepo.GetByID(claims.StaffID)
		if err != nil || staff == nil {
			response.Unauthorized(c, "token invalid")
			c.Abort()
			return
		}
		if !staff.IsActive {
			response.Unauthorized(c, "staff account disabled")
			c.Abort()
			return
		}
		if claims.TokenVersion != staff.TokenVersion || !isIssuedAfterInvalidBefore(claims.IssuedAt, staff.TokenInvalidBefore) {
			response.Unauthorized(c, "token revoked")
			c.Abort()
			return
		}
		_ = cache.SetStaffAuthState(c.Request.Context(), cache.BuildStaffAuthState(staff))

		c.Set("staff_id", claims.StaffID)
		c.Set("username", staff.Username)
		c.Set(staffRoleContextKey, staff.Role)
		c.Next()
	}
}

// RBACMiddleware 员工 RBAC 鉴权中间件，按注册路由模板判定
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		staffIDRaw, exists := c.Get("staff_id")
		if !exists {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		var staffID uint
		switch value := staffIDRaw.(type) {
		case uint:
			staffID = value
		case int:
			if value > 0 {
				staffID = uint(value)
			}
		case float64:
			if value > 0 {
				staffID = uint(value)
			}
		}
		if staffID == 0 {
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceStaff(staffID, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Unauthorized(c, "unauthorized")
			c.Abort()
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"staff_id", staffID,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, "forbidden")
			c.Abort()
			return
		}

		c.Next()
	}
}

func isIssuedAfterInvalidBefore(issuedAt *jwt.NumericDate, invalidBefore *time.Time) bool {
	if invalidBefore == nil {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBefore.Unix()
}

func isIssuedAfterInvalidBeforeUnix(issuedAt *jwt.NumericDate, invalidBeforeUnix int64) bool {
	if invalidBeforeUnix <= 0 {
		return true
	}
	if issuedAt == nil {
		return false
	}
	return issuedAt.Time.Unix() >= invalidBeforeUnix
}
