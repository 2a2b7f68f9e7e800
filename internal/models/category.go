package models

// Category is the taxonomy key both sides of the marketplace are matched on.
type Category struct {
	BaseModel
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
