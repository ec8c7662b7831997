package dto

// NewUserRequest is the admin payload for registering an account
type NewUserRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=250"`
	Email string `json:"email" binding:"required,email,max=254"`
}

// UserResponse is the full account view
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserShortResponse identifies an account inside event views
type UserShortResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserListResponse is a page of accounts
type UserListResponse struct {
	Users          []UserResponse `json:"users"`
	PaginationInfo PaginationInfo `json:"pagination"`
}
