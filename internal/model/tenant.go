package model

import "time"

// Tenant represents one customer organization stored in the database.
// Every business row hangs off a tenant id; it is the isolation boundary
// for the whole portal.
type Tenant struct {
	ID            uint      `json:"tenant_id" gorm:"primaryKey"`
	Name          string    `json:"tenant_name" gorm:"type:varchar(100);not null"`
	TenantKey     string    `json:"tenant_key" gorm:"type:varchar(32);uniqueIndex"`
	Address       string    `json:"tenant_address" gorm:"type:varchar(255)"`
	Email         string    `json:"tenant_emailid" gorm:"type:varchar(100)"`
	EmailVerified int       `json:"tenant_emailid_verify" gorm:"not null;default:0"`
	Contact       string    `json:"tenant_contact" gorm:"type:varchar(50)"`
	City          string    `json:"tenant_city" gorm:"type:varchar(100)"`
	Country       string    `json:"tenant_country" gorm:"type:varchar(100)"`
	Postcode      string    `json:"tenant_postcode" gorm:"type:varchar(20)"`
	GSTNNo        string    `json:"tenant_gstn_no" gorm:"type:varchar(50)"`
	PAN           string    `json:"tenant_pan" gorm:"type:varchar(50)"`
	DelFlg        int       `json:"-" gorm:"not null;default:0;index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Tenant) TableName() string { return "chatbot_tenants" }
