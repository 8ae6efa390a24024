package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParse(t *testing.T) {
	s, err := Issue("admin", "roster", "k", time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.WithinDuration(t, time.Now().Add(time.Minute), s.ExpiresAt, 2*time.Second)

	claims, err := Parse(s.Token, "k", "roster")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
}

func TestParseRejects(t *testing.T) {
	s, err := Issue("admin", "roster", "k", time.Minute)
	require.NoError(t, err)

	_, err = Parse(s.Token, "other-key", "roster")
	assert.Error(t, err)

	_, err = Parse(s.Token, "k", "someone-else")
	assert.Error(t, err)

	expired, err := Issue("admin", "roster", "k", -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired.Token, "k", "roster")
	assert.Error(t, err)
}

func TestSessionAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", SessionAuth("k", "roster"), func(c *gin.Context) {
		subject, ok := SubjectFrom(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, subject)
	})

	s, err := Issue("admin", "roster", "k", time.Minute)
	require.NoError(t, err)

	other, err := Issue("admin", "someone-else", "k", time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"missing", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"garbage", "Bearer abc", http.StatusUnauthorized, ""},
		{"foreign issuer", "Bearer " + other.Token, http.StatusUnauthorized, ""},
		{"valid", "Bearer " + s.Token, http.StatusOK, "admin"},
		{"lowercase scheme", "bearer " + s.Token, http.StatusOK, "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestSubjectFrom(t *testing.T) {
	_, ok := SubjectFrom(context.Background())
	assert.False(t, ok)

	subject, ok := SubjectFrom(WithSubject(context.Background(), "admin"))
	assert.True(t, ok)
	assert.Equal(t, "admin", subject)
}
