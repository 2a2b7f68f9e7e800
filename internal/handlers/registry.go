package handlers

// AppHandlers bundles the constructed HTTP handlers for route registration.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	RequestHandler  *RequestHandler
	SupplierHandler *SupplierHandler
	MatchHandler    *MatchHandler
	AdminHandler    *AdminHandler
}
