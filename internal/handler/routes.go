package handler

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
)

// NewRouter creates and configures a new chi router. The session middleware
// runs first so the authorizer can resolve the current identity; the
// authorizer runs for every route so the admin guard lives in one place.
func NewRouter(
	blogHandler *BlogHandler,
	authHandler *AuthHandler,
	contactHandler *ContactHandler,
	seoHandler *SeoHandler,
	authzMiddleware func(http.Handler) http.Handler,
	errorMiddleware func(middleware.AppHandler) http.Handler,
	sessionManager session.Manager,
	staticFS fs.FS,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Use(sessionManager.LoadAndSave)
	r.Use(authzMiddleware)

	// Public pages
	r.Method(http.MethodGet, "/", errorMiddleware(blogHandler.homeHandler))
	r.Method(http.MethodGet, "/about", errorMiddleware(blogHandler.aboutHandler))
	r.Method(http.MethodGet, "/post/{id}", errorMiddleware(blogHandler.showPostHandler))
	r.Method(http.MethodPost, "/post/{id}", errorMiddleware(blogHandler.addCommentHandler))

	// Account routes
	r.Method(http.MethodGet, "/register", errorMiddleware(authHandler.registerFormHandler))
	r.Method(http.MethodPost, "/register", errorMiddleware(authHandler.registerHandler))
	r.Method(http.MethodGet, "/login", errorMiddleware(authHandler.loginFormHandler))
	r.Method(http.MethodPost, "/login", errorMiddleware(authHandler.loginHandler))
	r.Method(http.MethodGet, "/logout", errorMiddleware(authHandler.logoutHandler))

	// Contact form
	r.Method(http.MethodGet, "/contact", errorMiddleware(contactHandler.contactFormHandler))
	r.Method(http.MethodPost, "/contact", errorMiddleware(contactHandler.sendContactHandler))

	// Admin-only routes; the authorizer denies everyone without the admin role.
	r.Method(http.MethodGet, "/new-post", errorMiddleware(blogHandler.newPostFormHandler))
	r.Method(http.MethodPost, "/new-post", errorMiddleware(blogHandler.createPostHandler))
	r.Method(http.MethodGet, "/edit-post/{id}", errorMiddleware(blogHandler.editPostFormHandler))
	r.Method(http.MethodPost, "/edit-post/{id}", errorMiddleware(blogHandler.updatePostHandler))
	r.Method(http.MethodGet, "/delete/{id}", errorMiddleware(blogHandler.deletePostHandler))

	// SEO endpoints
	r.Get("/robots.txt", seoHandler.robotsHandler)
	r.Get("/sitemap.xml", seoHandler.sitemapHandler)

	// Embedded static assets
	r.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	return r
}
