package ginutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestQueryLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"limit=10", 10},
		{"limit=abc", 0},
		{"limit=-3", 0},
		{"limit=5000", 100},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/gallery?"+tt.query, nil)
			assert.Equal(t, tt.want, QueryLimit(c, "limit", 100))
		})
	}
}
