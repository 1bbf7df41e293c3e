package handler

import (
	"errors"
	"fmt"
	"net/http"

	"go-blog-app/internal/data"
	"go-blog-app/internal/logger"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/service"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
)

// BlogHandler holds the dependencies for the post and comment handlers.
type BlogHandler struct {
	blogService service.BlogServicer
	view        *view.View
	sessions    session.Manager
	log         logger.Logger
}

// NewBlogHandler creates a new BlogHandler with the given dependencies.
func NewBlogHandler(bs service.BlogServicer, v *view.View, sm session.Manager, log logger.Logger) *BlogHandler {
	return &BlogHandler{
		blogService: bs,
		view:        v,
		sessions:    sm,
		log:         log,
	}
}

// homeHandler renders the list of all posts.
func (h *BlogHandler) homeHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	posts, err := h.blogService.ListPosts(r.Context())
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to retrieve posts", Code: http.StatusInternalServerError}
	}

	pageData := baseData(r, h.sessions)
	pageData["Posts"] = posts
	if err := h.view.Render(w, "index.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render home page", Code: http.StatusInternalServerError}
	}
	return nil
}

// showPostHandler renders a single post with its comments.
func (h *BlogHandler) showPostHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := postID(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
	}

	post, comments, err := h.blogService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to retrieve post", Code: http.StatusInternalServerError}
	}

	pageData := baseData(r, h.sessions)
	pageData["Post"] = post
	pageData["Comments"] = comments
	if err := h.view.Render(w, "post.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post", Code: http.StatusInternalServerError}
	}
	return nil
}

// addCommentHandler appends a comment to a post. Unauthenticated submitters
// are sent to the login page; no comment row is created for them.
func (h *BlogHandler) addCommentHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := postID(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
	}

	userInfo := middleware.GetUserInfo(r.Context())
	if !userInfo.IsAuthenticated() {
		h.sessions.Put(r.Context(), flashKey, "You need to login or register to comment.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil
	}

	if _, err := h.blogService.AddComment(r.Context(), id, userInfo.ID, r.FormValue("comment")); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to add comment", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusFound)
	return nil
}

// aboutHandler renders the static about page.
func (h *BlogHandler) aboutHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	if err := h.view.Render(w, "about.html", baseData(r, h.sessions)); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render about page", Code: http.StatusInternalServerError}
	}
	return nil
}

// newPostFormHandler displays the create-post form.
func (h *BlogHandler) newPostFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pageData := baseData(r, h.sessions)
	pageData["IsEdit"] = false
	if err := h.view.Render(w, "make-post.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post form", Code: http.StatusInternalServerError}
	}
	return nil
}

// createPostHandler creates a new post authored by the current admin.
func (h *BlogHandler) createPostHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userInfo := middleware.GetUserInfo(r.Context())
	input := postInputFromForm(r)

	if _, err := h.blogService.CreatePost(r.Context(), input, userInfo.ID); err != nil {
		if errors.Is(err, data.ErrDuplicateTitle) {
			h.sessions.Put(r.Context(), flashKey, "A post with that title already exists, pick another one.")
			http.Redirect(w, r, "/new-post", http.StatusFound)
			return nil
		}
		return &middleware.AppError{Error: err, Message: "Failed to create post", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// editPostFormHandler displays the edit form pre-filled with the post's fields.
func (h *BlogHandler) editPostFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := postID(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
	}

	post, _, err := h.blogService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to retrieve post", Code: http.StatusInternalServerError}
	}

	pageData := baseData(r, h.sessions)
	pageData["IsEdit"] = true
	pageData["Post"] = post
	if err := h.view.Render(w, "make-post.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render post form", Code: http.StatusInternalServerError}
	}
	return nil
}

// updatePostHandler applies edits to a post's mutable fields.
func (h *BlogHandler) updatePostHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := postID(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
	}

	if _, err := h.blogService.UpdatePost(r.Context(), id, postInputFromForm(r)); err != nil {
		switch {
		case errors.Is(err, data.ErrNotFound):
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		case errors.Is(err, data.ErrDuplicateTitle):
			h.sessions.Put(r.Context(), flashKey, "A post with that title already exists, pick another one.")
			http.Redirect(w, r, fmt.Sprintf("/edit-post/%d", id), http.StatusFound)
			return nil
		default:
			return &middleware.AppError{Error: err, Message: "Failed to update post", Code: http.StatusInternalServerError}
		}
	}

	http.Redirect(w, r, fmt.Sprintf("/post/%d", id), http.StatusFound)
	return nil
}

// deletePostHandler removes a post and all of its comments.
func (h *BlogHandler) deletePostHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := postID(r)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
	}

	if err := h.blogService.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return &middleware.AppError{Error: err, Message: "Post not found", Code: http.StatusNotFound}
		}
		return &middleware.AppError{Error: err, Message: "Failed to delete post", Code: http.StatusInternalServerError}
	}

	http.Redirect(w, r, "/", http.StatusFound)
	return nil
}

// postInputFromForm collects the mutable post fields from the submitted form.
func postInputFromForm(r *http.Request) service.PostInput {
	return service.PostInput{
		Title:    r.FormValue("title"),
		Subtitle: r.FormValue("subtitle"),
		ImgURL:   r.FormValue("img_url"),
		Body:     r.FormValue("body"),
	}
}
