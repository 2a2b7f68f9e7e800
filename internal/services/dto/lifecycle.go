package dto

// RejectRequest carries the mandatory reason an admin gives when rejecting a
// request or supplier.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// ApprovalResult is returned to the approving admin. The count may be zero;
// an empty category does not block approval.
type ApprovalResult struct {
	MatchedSupplierCount int `json:"matched_supplier_count"`
}
