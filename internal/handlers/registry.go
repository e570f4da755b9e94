package handlers

// AppHandlers bundles all HTTP handlers for route registration.
type AppHandlers struct {
	AuthHandler *AuthHandler
	UserHandler *UserHandler
	LeadHandler *LeadHandler
	TagHandler  *TagHandler
}
