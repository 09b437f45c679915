package service

import (
	"context"
	"errors"
	"time"

	"github.com/pos-next/internal/cache"
	"github.com/pos-next/internal/config"
	"github.com/pos-next/internal/models"
	"github.com/pos-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 员工认证服务
type AuthService struct {
	cfg       *config.Config
	staffRepo repository.StaffRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, staffRepo repository.StaffRepository) *AuthService {
	return &AuthService{
		cfg:       cfg,
		staffRepo: staffRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 校验密码是否符合策略
func (s *AuthService) ValidatePassword(password string) error {
	if s == nil || s.cfg == nil {
		return nil
	}
	return validatePassword(s.cfg.Security.PasswordPolicy, password)
}

// JWTClaims JWT 声明
type JWTClaims struct {
	StaffID      uint   `json:"staff_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(staff *models.Staff) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := JWTClaims{
		StaffID:      staff.ID,
		Username:     staff.Username,
		Role:         staff.Role,
		TokenVersion: staff.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// Login 员工登录
func (s *AuthService) Login(username, password string) (*models.Staff, string, time.Time, error) {
	staff, err := s.staffRepo.GetByUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if staff == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !staff.IsActive {
		return nil, "", time.Time{}, ErrStaffDisabled
	}

	if err := s.VerifyPassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(staff)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	staff.LastLoginAt = &now
	if err := s.staffRepo.Update(staff); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetStaffAuthState(context.Background(), cache.BuildStaffAuthState(staff))

	return staff, token, expiresAt, nil
}

// ChangePassword 修改员工密码并失效既有 Token
func (s *AuthService) ChangePassword(staffID uint, oldPassword, newPassword string) error {
	staff, err := s.staffRepo.GetByID(staffID)
	if err != nil {
		return err
	}
	if staff == nil {
		return ErrStaffNotFound
	}

	if err := s.VerifyPassword(staff.PasswordHash, oldPassword); err != nil {
		return ErrInvalidCredentials
	}

	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	staff.PasswordHash = hashedPassword
	now := time.Now()
	staff.TokenVersion++
	staff.TokenInvalidBefore = &now
	if err := s.staffRepo.Update(staff); err != nil {
		return err
	}
	_ = cache.SetStaffAuthState(context.Background(), cache.BuildStaffAuthState(staff))
	return nil
}
