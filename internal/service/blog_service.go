package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"go-blog-app/internal/data"
)

// postDateFormat is the display format stamped onto new posts, e.g. "April 05, 2024".
const postDateFormat = "January 02, 2006"

// PostRepository defines the interface for database operations on posts.
type PostRepository interface {
	CreatePost(ctx context.Context, post *data.Post) error
	GetPostByID(ctx context.Context, id int64) (*data.Post, error)
	GetAllPosts(ctx context.Context) ([]*data.Post, error)
	UpdatePost(ctx context.Context, post *data.Post) error
	DeletePost(ctx context.Context, id int64) error
}

// CommentRepository defines the interface for database operations on comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *data.Comment) error
	GetCommentsByPostID(ctx context.Context, postID int64) ([]*data.Comment, error)
}

// PostInput carries the mutable fields of a post through create and edit.
type PostInput struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

// BlogServicer defines the interface for interacting with posts and comments.
type BlogServicer interface {
	ListPosts(ctx context.Context) ([]*data.Post, error)
	GetPost(ctx context.Context, id int64) (*data.Post, []*data.Comment, error)
	CreatePost(ctx context.Context, input PostInput, authorID int64) (*data.Post, error)
	UpdatePost(ctx context.Context, id int64, input PostInput) (*data.Post, error)
	DeletePost(ctx context.Context, id int64) error
	AddComment(ctx context.Context, postID, authorID int64, text string) (*data.Comment, error)
}

// BlogService provides business logic for managing posts and comments.
type BlogService struct {
	posts     PostRepository
	comments  CommentRepository
	sanitizer *bluemonday.Policy
	stripper  *bluemonday.Policy
	markdown  goldmark.Markdown

	// now is replaceable in tests to pin the stamped date.
	now func() time.Time
}

// NewBlogService creates a new BlogService with the given repositories.
func NewBlogService(posts PostRepository, comments CommentRepository) *BlogService {
	return &BlogService{
		posts:    posts,
		comments: comments,
		// UGCPolicy allows basic formatting like links, lists and bold while
		// stripping out dangerous HTML from rendered post bodies.
		sanitizer: bluemonday.UGCPolicy(),
		// Comments are plain text; StrictPolicy removes all markup.
		stripper: bluemonday.StrictPolicy(),
		markdown: goldmark.New(),
		now:      time.Now,
	}
}

// ListPosts retrieves all posts in insertion order.
func (s *BlogService) ListPosts(ctx context.Context) ([]*data.Post, error) {
	return s.posts.GetAllPosts(ctx)
}

// GetPost retrieves a single post and its comments, with the post body
// rendered to sanitized HTML for display. The stored body stays opaque text.
func (s *BlogService) GetPost(ctx context.Context, id int64) (*data.Post, []*data.Comment, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	post.HTMLBody, err = s.renderBody(post.Body)
	if err != nil {
		return nil, nil, err
	}

	comments, err := s.comments.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

// CreatePost handles the creation of a new blog post. The publication date is
// stamped once, here, from the server clock; title uniqueness is enforced by
// the store and surfaces as data.ErrDuplicateTitle.
func (s *BlogService) CreatePost(ctx context.Context, input PostInput, authorID int64) (*data.Post, error) {
	post := &data.Post{
		AuthorID: authorID,
		Title:    input.Title,
		Subtitle: input.Subtitle,
		Date:     s.now().Format(postDateFormat),
		Body:     input.Body,
		ImgURL:   input.ImgURL,
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost handles the logic for editing an existing post. Only title,
// subtitle, image and body change; the author and original date are preserved.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, input PostInput) (*data.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = input.Title
	post.Subtitle = input.Subtitle
	post.ImgURL = input.ImgURL
	post.Body = input.Body

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost handles the deletion of a post and, with it, all of its comments.
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	return s.posts.DeletePost(ctx, id)
}

// AddComment persists a comment linked to both the post and its author.
// The text is stripped of any markup before it is stored.
func (s *BlogService) AddComment(ctx context.Context, postID, authorID int64, text string) (*data.Comment, error) {
	// Reject comments on posts that do not exist rather than relying on the
	// foreign key to fail.
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &data.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     s.stripper.Sanitize(text),
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// renderBody converts a stored post body from markdown to sanitized HTML.
func (s *BlogService) renderBody(body string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("failed to render post body: %w", err)
	}
	return template.HTML(s.sanitizer.SanitizeBytes(buf.Bytes())), nil
}
