package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLPostRepository is a concrete implementation of the PostRepository interface using sqlx.
type SQLPostRepository struct {
	db *sqlx.DB
}

// NewSQLPostRepository creates a new SQLPostRepository.
func NewSQLPostRepository(db *sqlx.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

// CreatePost inserts a new post and fills in its generated id.
// A UNIQUE violation on the title column is returned as ErrDuplicateTitle.
func (r *SQLPostRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url)
	          VALUES (:author_id, :title, :subtitle, :date, :body, :img_url)`
	res, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("failed to execute create post query: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get new post id: %w", err)
	}
	post.ID = id
	return nil
}

// GetPostByID retrieves a single post and its author's display name.
func (r *SQLPostRepository) GetPostByID(ctx context.Context, id int64) (*Post, error) {
	var post Post
	query := `SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, u.name AS author_name
	          FROM blog_posts p JOIN users u ON u.id = p.author_id
	          WHERE p.id = ?`
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return &post, nil
}

// GetAllPosts retrieves all posts in insertion order.
func (r *SQLPostRepository) GetAllPosts(ctx context.Context) ([]*Post, error) {
	var posts []*Post
	query := `SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, u.name AS author_name
	          FROM blog_posts p JOIN users u ON u.id = p.author_id
	          ORDER BY p.id`
	if err := r.db.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}

// UpdatePost updates the mutable fields of an existing post.
// The author and original date columns are deliberately left untouched.
func (r *SQLPostRepository) UpdatePost(ctx context.Context, post *Post) error {
	query := `UPDATE blog_posts SET title = :title, subtitle = :subtitle, body = :body, img_url = :img_url WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post and its comments in a single transaction.
// The comments are deleted explicitly so referential integrity holds even
// when the connection's foreign_keys pragma is off.
func (r *SQLPostRepository) DeletePost(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete post comments: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete transaction: %w", err)
	}
	return nil
}
