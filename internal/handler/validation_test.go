package handler

import (
	"testing"

	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidators_HTTPURL(t *testing.T) {
	require.NoError(t, RegisterValidators())

	tests := []struct {
		url   string
		valid bool
	}{
		{"https://getyourdepa.com/listings/casa", true},
		{"http://example.com", true},
		{"ftp://example.com/file", false},
		{"javascript:alert(1)", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(domain.ShortenRequest{LongURL: tt.url})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
