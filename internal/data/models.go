package data

import (
	"crypto/md5"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Role values stored on users. The first registered account becomes the
// administrator; everyone after is a regular user.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents a registered account.
type User struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// Post represents a single blog post in the database.
// Date is a display string stamped at creation time and immutable after.
type Post struct {
	ID       int64  `db:"id"`
	AuthorID int64  `db:"author_id"`
	Title    string `db:"title"`
	Subtitle string `db:"subtitle"`
	Date     string `db:"date"`
	Body     string `db:"body"`
	ImgURL   string `db:"img_url"`

	AuthorName string        `db:"author_name"`
	HTMLBody   template.HTML `db:"-"`
}

// Comment represents a reader comment attached to a post.
type Comment struct {
	ID       int64  `db:"id"`
	PostID   int64  `db:"post_id"`
	AuthorID int64  `db:"author_id"`
	Text     string `db:"text"`

	AuthorName  string `db:"author_name"`
	AuthorEmail string `db:"author_email"`
}

// GravatarURL returns the Gravatar avatar for the commenter's email.
// Gravatar hashes the trimmed, lowercased address with md5.
func (c *Comment) GravatarURL() string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(c.AuthorEmail))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=retro&s=100", sum)
}
