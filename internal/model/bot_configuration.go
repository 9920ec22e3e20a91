package model

import "time"

// BotConfiguration holds the chatbot settings for a tenant. Exactly one
// live row may exist per tenant; the partial unique index enforces the
// singleton while still allowing soft-deleted history rows.
type BotConfiguration struct {
	ID                    uint      `json:"config_id" gorm:"primaryKey"`
	TenantID              uint      `json:"tenant_id" gorm:"not null;uniqueIndex:uq_botconfig_tenant,where:del_flg = 0"`
	ModelName             string    `json:"model_name" gorm:"type:varchar(100)"`
	ModelKey              string    `json:"model_key" gorm:"type:varchar(255)"`
	Creativity            float64   `json:"creativity" gorm:"not null;default:0"`
	Threshold             float64   `json:"threshold" gorm:"not null;default:0"`
	BotName               string    `json:"bot_name" gorm:"type:varchar(100)"`
	BotAvatar             string    `json:"bot_avatar" gorm:"type:varchar(255)"`
	BotWorkspace          string    `json:"bot_workspace" gorm:"type:varchar(255)"`
	ShortTermMemoryLength int       `json:"short_term_memory_length" gorm:"not null;default:0"`
	MaxMatchingKnowledge  int       `json:"max_matching_knowledge" gorm:"not null;default:0"`
	GreetingMessage       string    `json:"greeting_message" gorm:"type:text"`
	StaticMessage         string    `json:"static_message" gorm:"type:text"`
	IntegrationURL        string    `json:"integration_url" gorm:"type:varchar(255)"`
	IntegrationScript     string    `json:"integration_script" gorm:"type:text"`
	DelFlg                int       `json:"-" gorm:"not null;default:0"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func (BotConfiguration) TableName() string { return "chatbot_botconfig" }
