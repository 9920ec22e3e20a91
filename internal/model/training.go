package model

import "time"

// Training status values.
const (
	TrainingStatusConfigured = "Configured"
	TrainingStatusStarted    = "Started"
)

// TrainingConfig holds the knowledge-base training parameters for a tenant.
// One live row per tenant.
type TrainingConfig struct {
	ID           uint      `json:"training_id" gorm:"primaryKey"`
	TenantID     uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_training_tenant,where:del_flg = 0"`
	ChunkingType string    `json:"chunking_type" gorm:"type:varchar(50)"`
	RetrainMode  string    `json:"full_retrain_or_only_remaining" gorm:"type:varchar(50)"`
	ChunkSize    int       `json:"chunk_size" gorm:"not null;default:0"`
	Overlap      int       `json:"overlap" gorm:"not null;default:0"`
	SearchType   string    `json:"search_type" gorm:"type:varchar(50)"`
	Status       string    `json:"status" gorm:"type:varchar(50)"`
	DelFlg       int       `json:"-" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (TrainingConfig) TableName() string { return "chatbot_training" }
