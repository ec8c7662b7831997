package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds every repository of the application
type Repositories struct {
	Events       *EventRepository
	Requests     *RequestRepository
	Comments     *CommentRepository
	Categories   *CategoryRepository
	Users        *UserRepository
	Compilations *CompilationRepository
}

// NewRepositories creates all repositories over a shared connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Events:       NewEventRepository(db),
		Requests:     NewRequestRepository(db),
		Comments:     NewCommentRepository(db),
		Categories:   NewCategoryRepository(db),
		Users:        NewUserRepository(db),
		Compilations: NewCompilationRepository(db),
	}
}
