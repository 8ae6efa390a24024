package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type subjectKey struct{}

// WithSubject returns a copy of ctx carrying the logged-in operator.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFrom returns the operator stored by SessionAuth.
func SubjectFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok && s != ""
}

// SessionAuth lets a request through only with a live session token from
// this issuer. The operator it belongs to is available via SubjectFrom.
func SessionAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		claims, err := Parse(strings.TrimSpace(token), signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			return
		}
		c.Request = c.Request.WithContext(WithSubject(c.Request.Context(), claims.Subject))
		c.Next()
	}
}
