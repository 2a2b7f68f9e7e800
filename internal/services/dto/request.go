package dto

import "gorm.io/datatypes"

type CreateRequestRequest struct {
	CategoryID      string         `json:"category_id" validate:"required,uuid4"`
	Description     string         `json:"description" validate:"required,min=10,max=4000"`
	ContactUsername string         `json:"contact_username" validate:"max=100"`
	ContactPhone    string         `json:"contact_phone" validate:"max=32"`
	ContactEmail    string         `json:"contact_email" validate:"omitempty,email"`
	Attachments     datatypes.JSON `json:"attachments,omitempty"`
}

type CreateSupplierRequest struct {
	CategoryID  string `json:"category_id" validate:"required,uuid4"`
	CompanyName string `json:"company_name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=4000"`
}
