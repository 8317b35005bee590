package service

// Identity is the authenticated caller taken from the access token
type Identity struct {
	UserID         uint
	Role           string
	OrganizationID uint
}
