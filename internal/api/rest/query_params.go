package rest

// ListConfirmationsQueryParams holds query parameters for GET /api/v1/confirmations
type ListConfirmationsQueryParams struct {
	// Contract may be omitted when a single contract is tracked
	Contract string `form:"contract"`
}
