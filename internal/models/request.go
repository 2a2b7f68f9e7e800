package models

import (
	"gorm.io/datatypes"
)

// Request is a seeker-submitted item looking for matching suppliers. The
// contact fields stay hidden from suppliers until they accept a match.
type Request struct {
	BaseModel
	CategoryID      string           `gorm:"type:uuid;not null;index" json:"category_id"`
	Category        *Category        `json:"category,omitempty"`
	Description     string           `gorm:"not null" json:"description"`
	ContactUsername string           `json:"-"`
	ContactPhone    string           `json:"-"`
	ContactEmail    string           `json:"-"`
	Attachments     datatypes.JSON   `gorm:"type:jsonb" json:"attachments,omitempty"`
	Status          ModerationStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	CreatedBy       string           `gorm:"type:uuid;not null;index" json:"created_by"`
}

// Summary is the snapshot carried inside a notification task. It deliberately
// excludes contact details, which are revealed only on acceptance.
func (r *Request) Summary() RequestSummary {
	return RequestSummary{
		RequestID:   r.ID,
		CategoryID:  r.CategoryID,
		Description: r.Description,
	}
}

// RequestSummary is what a supplier sees before accepting.
type RequestSummary struct {
	RequestID   string `json:"request_id"`
	CategoryID  string `json:"category_id"`
	Description string `json:"description"`
}

// ContactInfo is revealed to the supplier once a match is accepted.
type ContactInfo struct {
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

func (r *Request) ContactInfo() ContactInfo {
	return ContactInfo{
		Username: r.ContactUsername,
		Phone:    r.ContactPhone,
		Email:    r.ContactEmail,
	}
}
