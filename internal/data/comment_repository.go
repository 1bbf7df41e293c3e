package data

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLCommentRepository is a concrete implementation of the CommentRepository interface using sqlx.
type SQLCommentRepository struct {
	db *sqlx.DB
}

// NewSQLCommentRepository creates a new SQLCommentRepository.
func NewSQLCommentRepository(db *sqlx.DB) *SQLCommentRepository {
	return &SQLCommentRepository{db: db}
}

// CreateComment inserts a new comment and fills in its generated id.
func (r *SQLCommentRepository) CreateComment(ctx context.Context, comment *Comment) error {
	query := `INSERT INTO comments (post_id, author_id, text) VALUES (:post_id, :author_id, :text)`
	res, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("failed to execute create comment query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetCommentsByPostID retrieves all comments for a post, oldest first,
// with each commenter's display name and email joined in. The email is
// only used to derive the Gravatar URL, never rendered.
func (r *SQLCommentRepository) GetCommentsByPostID(ctx context.Context, postID int64) ([]*Comment, error) {
	var comments []*Comment
	query := `SELECT c.id, c.post_id, c.author_id, c.text, u.name AS author_name, u.email AS author_email
	          FROM comments c JOIN users u ON u.id = c.author_id
	          WHERE c.post_id = ?
	          ORDER BY c.id`
	if err := r.db.SelectContext(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("failed to get comments by post id: %w", err)
	}
	return comments, nil
}

// CountCommentsByPostID returns how many comments a post has.
func (r *SQLCommentRepository) CountCommentsByPostID(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID); err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
