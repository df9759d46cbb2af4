package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer goodtoken", "goodtoken", true},
		{"bearer goodtoken", "goodtoken", true},
		{"  Bearer   spaced  ", "spaced", true},
		{"", "", false},
		{"BadHeader", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer ", "", false},
		{"Bearer two parts", "", false},
	}
	for _, tc := range cases {
		tok, ok := BearerToken(tc.header)
		require.Equal(t, tc.ok, ok, tc.header)
		require.Equal(t, tc.token, tok, tc.header)
	}
}

func TestSubject(t *testing.T) {
	g := gin.New()
	var got []string
	g.GET("/", func(c *gin.Context) {
		got = append(got, Subject(c))
		c.Set(ClaimsKey, "not-a-map")
		got = append(got, Subject(c))
		c.Set(ClaimsKey, map[string]interface{}{"sub": "user1"})
		got = append(got, Subject(c))
		c.Status(http.StatusOK)
	})
	g.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"", "", "user1"}, got)
}
