package models

// User is the part of an account this server reads: who it is and which
// version they prefer. PreferredVersionID is zero when unset.
type User struct {
	ID                 string
	UserName           string
	PreferredVersionID int64
}
