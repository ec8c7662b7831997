package models

// User represents a registered account that can initiate events and request
// participation in events of other users
type User struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}
