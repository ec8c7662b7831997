package dto

// NewCompilationRequest is the admin payload for creating a compilation
type NewCompilationRequest struct {
	Title    string  `json:"title" binding:"required,min=1,max=120"`
	Pinned   bool    `json:"pinned"`
	EventIDs []int64 `json:"events"`
}

// CompilationResponse is the wire view of a compilation
type CompilationResponse struct {
	ID     int64                `json:"id"`
	Title  string               `json:"title"`
	Pinned bool                 `json:"pinned"`
	Events []EventShortResponse `json:"events"`
}

// CompilationListResponse is a page of compilations
type CompilationListResponse struct {
	Compilations   []CompilationResponse `json:"compilations"`
	PaginationInfo PaginationInfo        `json:"pagination"`
}
