package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formContext(t *testing.T, body string) formReader {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodPut, "/api/listings/abc", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return formReader{c: c, maxBytes: 1 << 20}
}

func TestFormReader_DraftCheckbox(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		unchanged bool
		want      bool
	}{
		{"off publishes", "draft=off", false, false},
		{"false publishes", "draft=false", false, false},
		{"on keeps draft", "draft=on", false, true},
		{"true keeps draft", "draft=true", false, true},
		{"absent leaves it", "title_es=Casa", true, false},
		{"garbage leaves it", "draft=maybe", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formContext(t, tt.body).bool("draft")
			if tt.unchanged {
				assert.True(t, got.IsUnchanged(), got.String())
				return
			}
			v, ok := got.Get()
			require.True(t, ok, got.String())
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestFormReader_ClearFlag(t *testing.T) {
	f := formContext(t, "tagline_es=Hola&tagline_es_clear_flag=true&tagline_en=Hi")
	assert.True(t, f.clearable("tagline_es").IsCleared())
	assert.Equal(t, "Hi", f.clearable("tagline_en").Or(""))
	assert.True(t, f.clearable("tagline_fr").IsUnchanged())
}
