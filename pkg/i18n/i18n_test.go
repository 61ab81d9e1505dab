package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   Locale
	}{
		{"", LocaleES},
		{"es", LocaleES},
		{"es-MX,es;q=0.9,en-US;q=0.8", LocaleES},
		{"en-US,en;q=0.9", LocaleEN},
		{"fr-FR,fr;q=0.9", LocaleES}, // unsupported → fallback
		{"fr-FR, en;q=0.5", LocaleEN},
		{"EN", LocaleEN},
	}

	for _, tt := range tests {
		got := ParseAcceptLanguage(tt.header)
		if got != tt.want {
			t.Errorf("ParseAcceptLanguage(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestBundleTranslation(t *testing.T) {
	b := Default()

	if got := b.T(LocaleES, "auth.token_missing"); got != "No autorizado: Token no proporcionado." {
		t.Errorf("es token_missing = %q", got)
	}
	if got := b.T(LocaleEN, "auth.forbidden"); got != "Forbidden: You do not have permission for this operation." {
		t.Errorf("en forbidden = %q", got)
	}

	// Unknown locale falls back to Spanish
	if got := b.T(Locale("de"), "auth.token_invalid"); got != "No autorizado: Token inválido o expirado." {
		t.Errorf("fallback = %q", got)
	}

	if got := b.T(LocaleEN, "unknown.key"); got != "unknown.key" {
		t.Errorf("unknown key = %q, want key itself", got)
	}

	if got := b.T(LocaleEN, "rate_limit.exceeded", 30); got != "Rate limit exceeded. Try again in 30 seconds." {
		t.Errorf("rate_limit with args = %q", got)
	}
}

func TestLoadDirOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"auth.forbidden":"Nope."}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}

	b := Default()
	if err := b.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if got := b.T(LocaleEN, "auth.forbidden"); got != "Nope." {
		t.Errorf("override = %q", got)
	}
	if got := b.T(LocaleEN, "auth.token_missing"); got != "Unauthorized: No token provided." {
		t.Errorf("untouched key = %q", got)
	}
}
