package handler

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"go-blog-app/internal/service"
)

const sitemapDateFormat = "2006-01-02"

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	blogService service.BlogServicer
	baseURL     string
}

// NewSeoHandler creates a new SeoHandler. baseURL is the site's public
// address, without a trailing slash.
func NewSeoHandler(bs service.BlogServicer, baseURL string) *SeoHandler {
	return &SeoHandler{blogService: bs, baseURL: baseURL}
}

// robotsHandler serves a static robots.txt file.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates and serves a dynamic sitemap.xml.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blogService.ListPosts(r.Context())
	if err != nil {
		http.Error(w, "Failed to retrieve posts for sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(posts)),
	}

	for i, post := range posts {
		entry := sitemapURL{Loc: fmt.Sprintf("%s/post/%d", h.baseURL, post.ID)}
		// The publication date is stored as a display string; skip lastmod
		// when it does not parse back.
		if t, err := time.Parse("January 02, 2006", post.Date); err == nil {
			entry.LastMod = t.Format(sitemapDateFormat)
		}
		sitemap.URLs[i] = entry
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		http.Error(w, "Failed to generate sitemap XML", http.StatusInternalServerError)
		return
	}
}
