package middlewares

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trust-assembly/headline-engine/server/auth"
	"github.com/trust-assembly/headline-engine/store"
	. "github.com/trust-assembly/headline-engine/utils/flag"
)

var (
	// verifier validates identity tokens for protected routes. Before using
	// any middleware, make sure Setup has been called.
	verifier auth.IdentityVerifier

	// entityStore resolves verified identities to users.
	entityStore *store.Store
)

// Setup initializes all package scoped state the middlewares need. This
// function must be called before any middleware is used.
func Setup(identityVerifier auth.IdentityVerifier, s *store.Store) {
	verifier = identityVerifier
	entityStore = s
}

// VerifyToken runs a raw token through the configured verifier. Handlers that
// accept tokens in request bodies use this instead of the header middleware.
func VerifyToken(ctx context.Context, token string) (*auth.TokenPayload, error) {
	return verifier.Verify(ctx, token)
}

// Identity fetches the identity token from the "token" header, verifies it
// and resolves the linked user. On success the request carries the user's id
// in the "sub" header; on any failure the request is aborted with 401.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Development escape hatch, identical to passing a verified token for
		// whatever user id is already in the "sub" header.
		if ByPassAuth {
			c.Next()
			return
		}

		token := c.GetHeader("token")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: missing token"})
			return
		}

		payload, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		user, err := entityStore.GetUserByIdentity("google", payload.Subject)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		// Successfully verified; downstream handlers read the user id from
		// the "sub" header.
		c.Request.Header.Del("token")
		c.Request.Header.Set("sub", user.Id)
		c.Next()
	}
}
