package handler

import (
	"net/http"

	"go-blog-app/internal/logger"
	"go-blog-app/internal/mail"
	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
	"go-blog-app/internal/view"
)

// ContactHandler holds the dependencies for the contact-form handlers.
type ContactHandler struct {
	mailer   mail.Sender
	view     *view.View
	sessions session.Manager
	log      logger.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(m mail.Sender, v *view.View, sm session.Manager, log logger.Logger) *ContactHandler {
	return &ContactHandler{mailer: m, view: v, sessions: sm, log: log}
}

// contactFormHandler displays the contact form.
func (h *ContactHandler) contactFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pageData := baseData(r, h.sessions)
	pageData["Sent"] = false
	if err := h.view.Render(w, "contact.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render contact page", Code: http.StatusInternalServerError}
	}
	return nil
}

// sendContactHandler emails the submitted message to the site operator.
// Only authenticated visitors may send; a transport failure fails the whole
// request so the form never falsely reports success.
func (h *ContactHandler) sendContactHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	userInfo := middleware.GetUserInfo(r.Context())
	if !userInfo.IsAuthenticated() {
		h.sessions.Put(r.Context(), flashKey, "You need to login or register to send a message.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil
	}

	msg := mail.Message{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
		Phone: r.FormValue("phone"),
		Body:  r.FormValue("message"),
	}
	if err := h.mailer.Send(r.Context(), msg); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to send your message", Code: http.StatusBadGateway}
	}

	pageData := baseData(r, h.sessions)
	pageData["Sent"] = true
	if err := h.view.Render(w, "contact.html", pageData); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render contact page", Code: http.StatusInternalServerError}
	}
	return nil
}
