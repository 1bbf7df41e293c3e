//go:build integration

package data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates a new in-memory SQLite database with the application
// schema and returns the repositories plus a teardown function to be deferred.
func setupTestDB(t *testing.T) (*SQLUserRepository, *SQLPostRepository, *SQLCommentRepository, func()) {
	t.Helper()

	// Use a non-shared in-memory database for complete test isolation. Each
	// sqlite connection to this DSN gets its own database, so the pool must
	// stay on a single connection.
	dsn := "file::memory:"
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE blog_posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id INTEGER NOT NULL REFERENCES users (id),
		title TEXT NOT NULL UNIQUE,
		subtitle TEXT NOT NULL,
		date TEXT NOT NULL,
		body TEXT NOT NULL,
		img_url TEXT NOT NULL
	);
	CREATE TABLE comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL REFERENCES blog_posts (id) ON DELETE CASCADE,
		author_id INTEGER NOT NULL REFERENCES users (id),
		text TEXT NOT NULL
	);`
	db.MustExec(schema)

	teardown := func() {
		db.Close()
	}

	return NewSQLUserRepository(db), NewSQLPostRepository(db), NewSQLCommentRepository(db), teardown
}

// seedUser registers an account; the store assigns the role, so the first
// seeded user of a test is the admin.
func seedUser(t *testing.T, users *SQLUserRepository, email string) *User {
	t.Helper()
	user := &User{Email: email, Name: "Tester", PasswordHash: "x"}
	if err := users.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedPost(t *testing.T, posts *SQLPostRepository, authorID int64, title string) *Post {
	t.Helper()
	post := &Post{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "sub",
		Date:     "April 05, 2024",
		Body:     "body",
		ImgURL:   "https://example.com/img.jpg",
	}
	if err := posts.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	users, _, _, teardown := setupTestDB(t)
	defer teardown()

	first := seedUser(t, users, "a@x.com")

	dup := &User{Email: "a@x.com", Name: "Other", PasswordHash: "y"}
	err := users.CreateUser(context.Background(), dup)
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}

	// The existing account must be unchanged.
	got, err := users.GetUserByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != first.ID || got.Name != "Tester" || got.Role != RoleAdmin {
		t.Errorf("existing account changed after duplicate registration: %+v", got)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	users, _, _, teardown := setupTestDB(t)
	defer teardown()

	if _, err := users.GetUserByEmail(context.Background(), "nobody@x.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestUserRepository_CountUsers(t *testing.T) {
	users, _, _, teardown := setupTestDB(t)
	defer teardown()

	count, err := users.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("want 0 users, got %d", count)
	}

	seedUser(t, users, "a@x.com")
	count, err = users.CountUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("want 1 user, got %d", count)
	}
}

func TestUserRepository_FirstAccountGetsAdminRole(t *testing.T) {
	users, _, _, teardown := setupTestDB(t)
	defer teardown()

	first := seedUser(t, users, "a@x.com")
	if first.Role != RoleAdmin {
		t.Errorf("want first account role %q, got %q", RoleAdmin, first.Role)
	}

	second := seedUser(t, users, "b@x.com")
	if second.Role != RoleUser {
		t.Errorf("want second account role %q, got %q", RoleUser, second.Role)
	}
}

func TestUserRepository_ConcurrentRegistrationsSingleAdmin(t *testing.T) {
	users, _, _, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	// All registrations race against an empty table; the role is decided
	// inside the insert, so exactly one of them may claim the admin role.
	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := &User{Email: fmt.Sprintf("u%d@x.com", i), Name: "Tester", PasswordHash: "x"}
			errs <- users.CreateUser(ctx, user)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent registration failed: %v", err)
		}
	}

	admins := 0
	for i := 0; i < n; i++ {
		user, err := users.GetUserByEmail(ctx, fmt.Sprintf("u%d@x.com", i))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Role == RoleAdmin {
			admins++
		}
	}
	if admins != 1 {
		t.Errorf("%d accounts hold the admin role; want exactly 1", admins)
	}
}

func TestPostRepository_DuplicateTitle(t *testing.T) {
	users, posts, _, teardown := setupTestDB(t)
	defer teardown()

	author := seedUser(t, users, "a@x.com")
	seedPost(t, posts, author.ID, "Dup")

	second := &Post{AuthorID: author.ID, Title: "Dup", Subtitle: "s", Date: "April 06, 2024", Body: "b", ImgURL: "i"}
	if err := posts.CreatePost(context.Background(), second); !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("want ErrDuplicateTitle, got %v", err)
	}

	all, err := posts.GetAllPosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("want exactly 1 post with that title, got %d posts", len(all))
	}
}

func TestPostRepository_UpdatePreservesAuthorAndDate(t *testing.T) {
	users, posts, _, teardown := setupTestDB(t)
	defer teardown()

	author := seedUser(t, users, "a@x.com")
	post := seedPost(t, posts, author.ID, "Original")

	post.Title = "Changed"
	post.Subtitle = "new sub"
	post.Body = "new body"
	post.ImgURL = "https://example.com/new.jpg"
	if err := posts.UpdatePost(context.Background(), post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := posts.GetPostByID(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Changed" || got.Subtitle != "new sub" || got.Body != "new body" {
		t.Errorf("mutable fields not updated: %+v", got)
	}
	if got.AuthorID != author.ID {
		t.Errorf("author changed on update: want %d, got %d", author.ID, got.AuthorID)
	}
	if got.Date != "April 05, 2024" {
		t.Errorf("date changed on update: got %q", got.Date)
	}
}

func TestPostRepository_UpdateNotFound(t *testing.T) {
	_, posts, _, teardown := setupTestDB(t)
	defer teardown()

	missing := &Post{ID: 999, Title: "t", Subtitle: "s", Body: "b", ImgURL: "i"}
	if err := posts.UpdatePost(context.Background(), missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	users, posts, comments, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	author := seedUser(t, users, "a@x.com")
	commenter := seedUser(t, users, "b@x.com")
	doomed := seedPost(t, posts, author.ID, "Doomed")
	kept := seedPost(t, posts, author.ID, "Kept")

	for i := 0; i < 3; i++ {
		if err := comments.CreateComment(ctx, &Comment{PostID: doomed.ID, AuthorID: commenter.ID, Text: "nice"}); err != nil {
			t.Fatalf("failed to seed comment: %v", err)
		}
	}
	if err := comments.CreateComment(ctx, &Comment{PostID: kept.ID, AuthorID: commenter.ID, Text: "also nice"}); err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}

	if err := posts.DeletePost(ctx, doomed.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := comments.CountCommentsByPostID(ctx, doomed.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("want 0 comments for deleted post, got %d", count)
	}

	// The other post and its comments are untouched.
	if _, err := posts.GetPostByID(ctx, kept.ID); err != nil {
		t.Errorf("surviving post no longer retrievable: %v", err)
	}
	count, err = comments.CountCommentsByPostID(ctx, kept.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("want 1 comment for surviving post, got %d", count)
	}
}

func TestPostRepository_DeleteNotFound(t *testing.T) {
	_, posts, _, teardown := setupTestDB(t)
	defer teardown()

	if err := posts.DeletePost(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestCommentRepository_JoinsAuthorName(t *testing.T) {
	users, posts, comments, teardown := setupTestDB(t)
	defer teardown()

	ctx := context.Background()
	author := seedUser(t, users, "a@x.com")
	post := seedPost(t, posts, author.ID, "Post")

	if err := comments.CreateComment(ctx, &Comment{PostID: post.ID, AuthorID: author.ID, Text: "first"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := comments.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want 1 comment, got %d", len(got))
	}
	if got[0].AuthorName != "Tester" {
		t.Errorf("want author name 'Tester', got %q", got[0].AuthorName)
	}
	if got[0].AuthorEmail != "a@x.com" {
		t.Errorf("want author email 'a@x.com', got %q", got[0].AuthorEmail)
	}
}

func TestComment_GravatarURL(t *testing.T) {
	a := &Comment{AuthorEmail: "a@x.com"}
	b := &Comment{AuthorEmail: "  A@X.COM  "}

	if !strings.HasPrefix(a.GravatarURL(), "https://www.gravatar.com/avatar/") {
		t.Errorf("unexpected avatar URL: %q", a.GravatarURL())
	}
	// Gravatar addresses are matched case-insensitively with surrounding
	// whitespace ignored, so both spellings must map to the same avatar.
	if a.GravatarURL() != b.GravatarURL() {
		t.Errorf("same email yields different avatars: %q vs %q", a.GravatarURL(), b.GravatarURL())
	}
}
