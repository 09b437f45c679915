package models

import (
	"github.com/pos-next/internal/constants"
	"github.com/pos-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultStaff 初始化默认店长账号
func InitDefaultStaff(username, password string) error {
	var count int64
	DB.Model(&Staff{}).Count(&count)
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	staff := Staff{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  username,
		Role:         constants.StaffRoleManager,
		IsActive:     true,
	}

	if err := DB.Create(&staff).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_staff_created_with_default_password", "username", username)
		logger.Warnw("default_staff_password_change_required", "username", username)
	} else {
		logger.Warnw("default_staff_created", "username", username, "password_hidden", true)
	}

	return nil
}
