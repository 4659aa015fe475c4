// Package common contains shared constants and errors used across
// the Kanban server components.
package common

// Request headers carrying transport credentials.
const (
	AuthorizationHeaderName = "Authorization"
	UsernameHeaderName      = "Username"
	BearerPrefix            = "Bearer "
)

// DefaultOrganization is assigned to users registering without one.
const DefaultOrganization = "Hacktiv8"
