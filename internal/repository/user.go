package repository

import (
	"gorm.io/gorm"

	"github.com/sapvaishnav/chatbot-admin/internal/model"
)

// ActiveUserByUsername returns the live login row for a username. Usernames
// are unique globally among live rows, not per tenant, because login happens
// before any tenant context exists.
func ActiveUserByUsername(db *gorm.DB, username string) (*model.LoginUser, error) {
	var user model.LoginUser
	if err := db.Where("username = ? AND del_flg = 0", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ActiveUserExists reports whether a live user already holds the username or
// the email address.
func ActiveUserExists(db *gorm.DB, username, email string) (bool, error) {
	var n int64
	err := db.Model(&model.LoginUser{}).
		Where("del_flg = 0 AND (username = ? OR email = ?)", username, email).
		Count(&n).Error
	return n > 0, err
}
