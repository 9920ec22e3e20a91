package repository

import (
	"time"

	"gorm.io/gorm"
)

// LeadConversation is one row of the leads listing: a live lead joined with
// its conversation, if the chatbot recorded one. Conversation columns are
// pointers because the join is outer.
type LeadConversation struct {
	ConversationID *uint      `json:"conversation_id"`
	ChatSummary    *string    `json:"chat_summary"`
	StartedAt      *time.Time `json:"started_at"`
	EndedAt        *time.Time `json:"ended_at"`
	TransferredAt  *time.Time `json:"transferred_at"`
	AgentID        *uint      `json:"agent_id"`
	LeadID         uint       `json:"user_id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phone_number"`
	IP             string     `json:"ip"`
	LastActive     *time.Time `json:"last_active"`
}

// LeadsWithConversations returns every live lead of the tenant with its
// conversation details, newest lead first.
func LeadsWithConversations(db *gorm.DB, tenantID uint) ([]LeadConversation, error) {
	var out []LeadConversation
	err := db.Table("chatbot_lead AS l").
		Select("c.id AS conversation_id, c.chat_summary, c.started_at, c.ended_at, c.transferred_at, c.agent_id, " +
			"l.id AS lead_id, l.username, l.email, l.phone_number, l.ip, l.last_active").
		Joins("LEFT JOIN chatbot_conversation c ON c.user_id = l.id AND c.del_flg = 0").
		Where("l.del_flg = 0 AND l.tenant_id = ?", tenantID).
		Order("l.created_at desc").
		Scan(&out).Error
	return out, err
}
