package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Locale is a supported interface language.
type Locale string

const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

// DefaultLocale is used when Accept-Language names nothing we support.
const DefaultLocale = LocaleES

// Bundle holds message catalogs keyed by locale.
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[Locale]map[string]string
	fallback Locale
}

// NewBundle creates an empty bundle that falls back to fallback.
func NewBundle(fallback Locale) *Bundle {
	return &Bundle{
		catalogs: make(map[Locale]map[string]string),
		fallback: fallback,
	}
}

// Default returns a bundle preloaded with the built-in catalogs.
func Default() *Bundle {
	b := NewBundle(DefaultLocale)
	for locale, msgs := range DefaultMessages() {
		b.LoadMessages(locale, msgs)
	}
	return b
}

// LoadDir merges every <locale>.json file in dir into the bundle.
func (b *Bundle) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read i18n dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var msgs map[string]string
		if err := json.Unmarshal(data, &msgs); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		b.LoadMessages(Locale(strings.TrimSuffix(entry.Name(), ".json")), msgs)
	}

	return nil
}

// LoadMessages merges messages into the catalog for locale.
func (b *Bundle) LoadMessages(locale Locale, messages map[string]string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	catalog, ok := b.catalogs[locale]
	if !ok {
		catalog = make(map[string]string, len(messages))
		b.catalogs[locale] = catalog
	}
	for k, v := range messages {
		catalog[k] = v
	}
}

// T translates key for locale, then for the fallback locale, and finally
// returns the key itself.
func (b *Bundle) T(locale Locale, key string, args ...interface{}) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msg, ok := b.lookup(locale, key)
	if !ok && locale != b.fallback {
		msg, ok = b.lookup(b.fallback, key)
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func (b *Bundle) lookup(locale Locale, key string) (string, bool) {
	msgs, ok := b.catalogs[locale]
	if !ok {
		return "", false
	}
	msg, ok := msgs[key]
	return msg, ok
}

// ParseAcceptLanguage returns the first supported locale named in header.
// Quality values are ignored; order wins.
func ParseAcceptLanguage(header string) Locale {
	for _, part := range strings.Split(header, ",") {
		lang := strings.ToLower(strings.TrimSpace(strings.SplitN(part, ";", 2)[0]))
		switch {
		case strings.HasPrefix(lang, "es"):
			return LocaleES
		case strings.HasPrefix(lang, "en"):
			return LocaleEN
		}
	}
	return DefaultLocale
}
