package main

import (
	"errors"
	"strings"

	"github.com/anjiri1684/skill_tutor/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errUserNotFound = errors.New("user not found")

func hashPassword(pwd string) (string, error) {
	if len(pwd) < 6 {
		return "", errors.New("password must be at least 6 characters")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// createAdmin creates an active admin, or promotes and resets the user that
// already owns email.
func (cli *commandLine) createAdmin(email, name, pwd string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := hashPassword(pwd)
	if err != nil {
		return err
	}

	var usr models.User
	err = cli.db.Where("email = ?", email).First(&usr).Error
	switch {
	case err == nil:
		return cli.db.Model(&usr).Updates(map[string]interface{}{
			"role":      models.RoleAdmin,
			"password":  hash,
			"is_active": true,
		}).Error
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	usr = models.User{FullName: name, Email: email, Password: hash, Role: models.RoleAdmin, IsActive: true}
	return cli.db.Create(&usr).Error
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	hash, err := hashPassword(pwd)
	if err != nil {
		return err
	}
	res := cli.db.Model(&models.User{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Updates(map[string]interface{}{
			"password":                        hash,
			"reset_password_token":            nil,
			"reset_password_token_expires_at": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errUserNotFound
	}
	return nil
}
