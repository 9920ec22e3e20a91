package model

import "time"

// Document is an uploaded file registered as a data-augmentation source.
// The same name/type pair may only exist once per tenant among live rows;
// the partial unique index turns a concurrent double upload into a
// constraint violation instead of a second row.
type Document struct {
	ID             uint      `json:"doc_id" gorm:"primaryKey"`
	TenantID       uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_documents_name_type_tenant,where:del_flg = 0"`
	DocumentName   string    `json:"document_name" gorm:"type:varchar(255);not null;uniqueIndex:uq_documents_name_type_tenant"`
	DocumentType   string    `json:"document_type" gorm:"type:varchar(50);not null;uniqueIndex:uq_documents_name_type_tenant"`
	DocumentStatus string    `json:"document_status" gorm:"type:varchar(50)"`
	DelFlg         int       `json:"-" gorm:"not null;default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Document) TableName() string { return "chatbot_documents" }

// URL is a web page registered as a data-augmentation source.
type URL struct {
	ID        uint      `json:"url_id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_urls_link_tenant,where:del_flg = 0"`
	URLLink   string    `json:"url_link" gorm:"type:varchar(2048);not null;uniqueIndex:uq_urls_link_tenant"`
	URLStatus string    `json:"url_status" gorm:"type:varchar(50)"`
	DelFlg    int       `json:"-" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (URL) TableName() string { return "chatbot_urls" }

// DatabaseConnection holds a tenant's external database credentials used
// for DB-sourced augmentation. One live row per tenant.
type DatabaseConnection struct {
	ID           uint      `json:"connection_id" gorm:"primaryKey"`
	TenantID     uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_dbconn_tenant,where:del_flg = 0"`
	Hostname     string    `json:"hostname" gorm:"type:varchar(255)"`
	Port         string    `json:"port" gorm:"type:varchar(10)"`
	DatabaseName string    `json:"databasename" gorm:"type:varchar(100)"`
	Username     string    `json:"username" gorm:"type:varchar(100)"`
	Password     string    `json:"-" gorm:"type:varchar(255)"`
	Status       string    `json:"db_status" gorm:"type:varchar(50)"`
	DelFlg       int       `json:"-" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (DatabaseConnection) TableName() string { return "chatbot_database_connection" }
