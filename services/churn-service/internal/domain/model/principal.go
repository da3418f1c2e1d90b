package model

// Principal is an authenticated dashboard user.
type Principal struct {
	Username string
	Roles    []string
}
