package model

import "time"

// Lead is a chatbot visitor captured for follow-up.
type Lead struct {
	ID          uint       `json:"user_id" gorm:"primaryKey"`
	TenantID    uint       `json:"tenant_id" gorm:"index;not null"`
	Username    string     `json:"username" gorm:"type:varchar(100)"`
	Email       string     `json:"email" gorm:"type:varchar(100)"`
	PhoneNumber string     `json:"phone_number" gorm:"type:varchar(50)"`
	IP          string     `json:"ip" gorm:"type:varchar(64)"`
	HTTPDetails string     `json:"all_http_details" gorm:"type:text"`
	LastActive  *time.Time `json:"last_active"`
	DelFlg      int        `json:"-" gorm:"not null;default:0"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Lead) TableName() string { return "chatbot_lead" }

// Conversation is one chat session held with a lead, possibly handed over
// to a human agent.
type Conversation struct {
	ID            uint       `json:"conversation_id" gorm:"primaryKey"`
	TenantID      uint       `json:"tenant_id" gorm:"index;not null"`
	LeadID        uint       `json:"user_id" gorm:"column:user_id;index;not null"`
	ChatSummary   string     `json:"chat_summary" gorm:"type:text"`
	StartedAt     *time.Time `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at"`
	TransferredAt *time.Time `json:"transferred_at"`
	AgentID       *uint      `json:"agent_id"`
	DelFlg        int        `json:"-" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Conversation) TableName() string { return "chatbot_conversation" }
