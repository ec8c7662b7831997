package dto

// NewCategoryRequest is the admin payload for creating or renaming a category
type NewCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// CategoryResponse is the wire view of a category
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
