package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"go-blog-app/internal/middleware"
	"go-blog-app/internal/session"
)

// flashKey is the session key for one-shot advisory messages shown on the
// next rendered page.
const flashKey = "flash"

// baseData builds the template data every page needs: the current identity
// and any pending flash message (popped, so it shows exactly once).
func baseData(r *http.Request, sm session.Manager) map[string]interface{} {
	return map[string]interface{}{
		"UserInfo": middleware.GetUserInfo(r.Context()),
		"Flash":    sm.PopString(r.Context(), flashKey),
	}
}

// postID parses the {id} route parameter.
func postID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
