package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/whatsons/members-api/config"
	"github.com/whatsons/members-api/models"
	"github.com/whatsons/members-api/storage"
)

// CtxUser is the context key the authenticated user is stored under.
const CtxUser = "user"

// SessionAuth resolves the session cookie to a user and injects it into the
// request context. Expired or unknown sessions get 401.
func SessionAuth(cfg *config.Config, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.Session.CookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		sess, err := store.GetSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		user, err := store.GetUser(sess.UserID)
		if err != nil {
			// Session outlived the user row; treat as logged out.
			store.DeleteSession(token)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		c.Set(CtxUser, *user)
		c.Next()
	}
}

// RequireAdmin blocks routes reserved for admins. Runs after SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		u := v.(models.User)
		if !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next()
	}
}

// RequireApproved blocks participation routes until an admin has approved
// the account. Admins are implicitly approved.
func RequireApproved() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		u := v.(models.User)
		if !u.IsApproved {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Account pending approval"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user injected by SessionAuth.
func CurrentUser(c *gin.Context) models.User {
	return c.MustGet(CtxUser).(models.User)
}
