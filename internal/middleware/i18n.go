package middleware

import (
	"github.com/getyourdepa/depa-cms/pkg/i18n"
	"github.com/gin-gonic/gin"
)

const (
	localeKey = "locale"
	bundleKey = "i18n_bundle"
)

// I18n detects the preferred language from Accept-Language and stores it,
// together with bundle, in the gin context.
func I18n(bundle *i18n.Bundle) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
		c.Set(localeKey, locale)
		c.Set(bundleKey, bundle)
		c.Header("Content-Language", string(locale))
		c.Next()
	}
}

// GetLocale returns the locale set by I18n.
func GetLocale(c *gin.Context) i18n.Locale {
	if v, exists := c.Get(localeKey); exists {
		if locale, ok := v.(i18n.Locale); ok {
			return locale
		}
	}
	return i18n.DefaultLocale
}

var fallbackBundle = i18n.Default()

// T translates key for the request's locale.
func T(c *gin.Context, key string, args ...interface{}) string {
	bundle := fallbackBundle
	if v, exists := c.Get(bundleKey); exists {
		if b, ok := v.(*i18n.Bundle); ok {
			bundle = b
		}
	}
	return bundle.T(GetLocale(c), key, args...)
}
