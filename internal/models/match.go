package models

import "time"

// Match is a candidate pairing between one approved request and one approved
// supplier in the same category. At most one row may exist per
// (request_id, supplier_id) pair; that unique index is the anti-duplication
// invariant the matching engine leans on.
type Match struct {
	BaseModel
	RequestID  string      `gorm:"type:uuid;not null;uniqueIndex:idx_matches_request_supplier" json:"request_id"`
	SupplierID string      `gorm:"type:uuid;not null;uniqueIndex:idx_matches_request_supplier" json:"supplier_id"`
	Request    *Request    `json:"request,omitempty"`
	Supplier   *Supplier   `json:"supplier,omitempty"`
	Status     MatchStatus `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	// NotifiedAt records the first successful delivery; pending matches with a
	// null NotifiedAt are candidates for the reconciliation sweep.
	NotifiedAt *time.Time `json:"notified_at,omitempty"`
}
