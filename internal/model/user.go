package model

import "time"

// LoginUser represents a portal login stored in the database. Username and
// email must be unique among live rows only, so both indexes are partial;
// a soft-deleted user frees its username for re-registration.
type LoginUser struct {
	ID           uint      `json:"login_id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"type:varchar(20);not null;uniqueIndex:uq_loginuser_username,where:del_flg = 0"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:uq_loginuser_email,where:del_flg = 0"`
	Role         string    `json:"role" gorm:"type:varchar(20);not null;default:'Admin'"`
	TenantID     uint      `json:"tenant_id" gorm:"index;not null"`
	DelFlg       int       `json:"-" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (LoginUser) TableName() string { return "chatbot_loginuser" }
