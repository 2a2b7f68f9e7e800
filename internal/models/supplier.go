package models

// Supplier is a registered offering that can be matched against requests.
// Exclusively owned by its creating user; admins transition status only.
type Supplier struct {
	BaseModel
	CategoryID      string           `gorm:"type:uuid;not null;index" json:"category_id"`
	Category        *Category        `json:"category,omitempty"`
	CompanyName     string           `gorm:"not null" json:"company_name"`
	Description     string           `json:"description"`
	Status          ModerationStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	RejectionReason string           `json:"rejection_reason,omitempty"`
	CreatedBy       string           `gorm:"type:uuid;not null;index" json:"created_by"`
}
