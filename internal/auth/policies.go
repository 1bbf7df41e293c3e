package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"

	"go-blog-app/internal/logger"
)

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
//
// Roles form a chain: admin inherits user, user inherits anonymous. Admin-only
// paths appear solely as admin policy rows, so the guard lives in one place and
// every other identity is denied before any handler runs.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	policies := [][]string{
		// Anyone can read the blog and reach the public forms. POST on
		// /post/{id} and /contact is allowed through here so the handlers can
		// redirect unauthenticated submitters to the login page instead of
		// answering with a bare 403.
		{"anonymous", "/", "GET"},
		{"anonymous", "/post/*", "*"},
		{"anonymous", "/about", "GET"},
		{"anonymous", "/contact", "*"},
		{"anonymous", "/register", "*"},
		{"anonymous", "/login", "*"},
		{"anonymous", "/logout", "GET"},
		{"anonymous", "/static/*", "GET"},
		{"anonymous", "/robots.txt", "GET"},
		{"anonymous", "/sitemap.xml", "GET"},

		// Only the admin role may create, edit or delete posts.
		{"admin", "/new-post", "*"},
		{"admin", "/edit-post/*", "*"},
		{"admin", "/delete/*", "GET"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Role inheritance: user -> anonymous, admin -> user.
	groupings := [][2]string{
		{"user", "anonymous"},
		{"admin", "user"},
	}
	for _, g := range groupings {
		if has, _ := e.HasRoleForUser(g[0], g[1]); !has {
			if _, err := e.AddRoleForUser(g[0], g[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role %q -> %q", g[0], g[1]))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
