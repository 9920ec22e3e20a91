// Package auth implements registration and credential verification for the
// portal. Registration creates the owning tenant and the Admin login row in
// one transaction; verification reports the failure reason through distinct
// errors so callers can log precisely while showing users a single generic
// message.
package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sapvaishnav/chatbot-admin/internal/model"
	"github.com/sapvaishnav/chatbot-admin/internal/repository"
)

const (
	maxUsernameLength = 20
	minPasswordLength = 9

	// RoleAdmin is assigned to the registering user, who owns the tenant.
	RoleAdmin = "Admin"
)

var (
	ErrInvalidUsername  = errors.New("username must be at most 20 characters and contain no whitespace")
	ErrInvalidPassword  = errors.New("password must be at least 9 characters with an uppercase letter, a lowercase letter and a digit")
	ErrDuplicateUser    = errors.New("username or email already registered")
	ErrUserNotFound     = errors.New("no such user")
	ErrPasswordMismatch = errors.New("wrong password")
)

// ValidateUsername rejects usernames longer than 20 characters or containing
// any whitespace.
func ValidateUsername(username string) error {
	if username == "" || len(username) > maxUsernameLength {
		return ErrInvalidUsername
	}
	if strings.IndexFunc(username, unicode.IsSpace) >= 0 {
		return ErrInvalidUsername
	}
	return nil
}

// ValidatePassword rejects passwords shorter than 9 characters or missing an
// uppercase letter, a lowercase letter or a digit.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrInvalidPassword
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrInvalidPassword
	}
	return nil
}

// Service carries the database handle for the auth operations.
type Service struct {
	DB *gorm.DB
}

// Register validates the credentials, creates the owning tenant seeded from
// the user's details and stores the Admin login row with a bcrypt digest.
// Tenant and login row are committed together or not at all.
func (s *Service) Register(username, password, email string) (*model.LoginUser, *model.Tenant, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	exists, err := repository.ActiveUserExists(s.DB, username, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}
	key, err := repository.GenerateTenantKey()
	if err != nil {
		return nil, nil, err
	}

	tenant := model.Tenant{
		Name:      username,
		TenantKey: key,
		Email:     email,
	}
	user := model.LoginUser{
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Role:         RoleAdmin,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		user.TenantID = tenant.ID
		return tx.Create(&user).Error
	})
	if err != nil {
		// A concurrent registration slipping between the existence check
		// and the insert surfaces here as a constraint violation.
		if repository.IsDuplicate(err) {
			return nil, nil, ErrDuplicateUser
		}
		return nil, nil, err
	}
	return &user, &tenant, nil
}

// Authenticate verifies the password for a live user. The returned error
// distinguishes an unknown username from a wrong password; HTTP handlers
// collapse both into one generic message.
func (s *Service) Authenticate(username, password string) (*model.LoginUser, error) {
	user, err := repository.ActiveUserByUsername(s.DB, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrPasswordMismatch
	}
	return user, nil
}
