package domain

import "context"

// ListFilter narrows and pages a quiz listing. Limit is clamped to [1,100]
// and Offset to >= 0 by the repository.
type ListFilter struct {
	BookID string
	Limit  int
	Offset int
}

// QuizRepository is the sole owner of the quizzes collection. No other
// component reads or writes the backing store directly, and no other service
// is permitted to write to it (by convention; nothing enforces this in code).
type QuizRepository interface {
	// Create persists the quiz, assigns its identifier and returns it.
	Create(ctx context.Context, quiz *Quiz) (string, error)
	// GetByID returns the quiz or nil when no such quiz exists.
	GetByID(ctx context.Context, id string) (*Quiz, error)
	// List returns quiz records newest-first by creation time.
	List(ctx context.Context, filter ListFilter) ([]*Quiz, error)
	// Delete removes the quiz and reports whether it existed. Deleting an
	// absent quiz is not an error at this boundary.
	Delete(ctx context.Context, id string) (bool, error)
	// Ping checks connectivity to the backing store.
	Ping(ctx context.Context) error
}

// ContentFetcher retrieves source content for a book when the generation
// request carries none.
type ContentFetcher interface {
	FetchContent(ctx context.Context, bookID string) (string, error)
}
