package normalize

import (
	"testing"
	"time"

	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Depto. en Renta – Zona Sur", "depto-en-renta-zona-sur"},
		{"", ""},
		{"Casa en Mérida, Yucatán", "casa-en-merida-yucatan"},
		{"  --Niño   Ñandú--  ", "nino-nandu"},
		{"Precio: $1,000,000!", "precio-1000000"},
		{"a - - b", "a-b"},
		{"¿Qué?", "que"},
		{"Depto\u00a0en Renta", "depto-en-renta"},
		{"Casa\u2003Grande", "casa-grande"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.title))
		})
	}
}

func TestSlug_Deterministic(t *testing.T) {
	title := "Departamento de Lujo en Polanco"
	assert.Equal(t, Slug(title), Slug(title))
}

func TestZoneSlug(t *testing.T) {
	assert.Equal(t, "/zones/zona-sur", ZoneSlug("Zona Sur"))
	assert.Equal(t, "/zones/", ZoneSlug(""))
}

func TestIsEmptyHTML(t *testing.T) {
	empty := []string{"", "   ", "<p></p>", "<p>&nbsp;</p>", "<p><br></p>", "<div>\n  <span> </span></div>"}
	for _, s := range empty {
		assert.True(t, IsEmptyHTML(s), s)
	}
	filled := []string{"hola", "<p>hola</p>", "<p>&amp;</p>", "<ul><li>uno</li></ul>"}
	for _, s := range filled {
		assert.False(t, IsEmptyHTML(s), s)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-05-01T10:30:00Z", "2024-05-01T10:30", "2024-05-01T10:30:00", "2024-05-01"} {
		got, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, 2024, got.Year())
		assert.Equal(t, time.May, got.Month())
	}
	_, ok := ParseDate("not a date")
	assert.False(t, ok)
}

func TestParseBool(t *testing.T) {
	v, ok := ParseBool("on")
	assert.True(t, v)
	assert.True(t, ok)
	v, ok = ParseBool("false")
	assert.False(t, v)
	assert.True(t, ok)
	_, ok = ParseBool("maybe")
	assert.False(t, ok)
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2", 2},
		{" 3 ", 3},
		{"2.9", 2},
		{"", 0},
		{"dos", 0},
		{"-3", 0},
		{"1e30", 0},
		{"9999999999999999999999", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCount(tt.in))
		})
	}
}

func TestNewPost_Defaults(t *testing.T) {
	post := NewPost(domain.PostInput{}, fixedNow)

	assert.True(t, post.Draft)
	assert.NotNil(t, post.Categories)
	assert.Empty(t, post.Categories)
	assert.Equal(t, fixedNow, post.PubDate)
	assert.Equal(t, map[string]string{"es": "", "en": ""}, post.Slug)
	require.Contains(t, post.Translations, "es")
	require.Contains(t, post.Translations, "en")
	assert.Equal(t, domain.Translation{}, post.Translations["es"])
}

func TestNewPost_EmptyRichTextIsOmitted(t *testing.T) {
	in := domain.PostInput{
		Text: map[string]domain.TextInput{
			"es": {
				Title:   patch.Set("Hola Mundo"),
				Content: patch.Set("<p>&nbsp;</p>"),
				Excerpt: patch.Set("<p>Resumen</p>"),
			},
		},
		Categories: patch.Set([]string{"noticias"}),
		PubDate:    patch.Set("2024-01-02"),
		Draft:      patch.Set(false),
	}

	post := NewPost(in, fixedNow)

	assert.Equal(t, "", post.Translations["es"].Content)
	assert.Equal(t, "<p>Resumen</p>", post.Translations["es"].Excerpt)
	assert.Equal(t, "hola-mundo", post.Slug["es"])
	assert.Equal(t, "", post.Slug["en"])
	assert.False(t, post.Draft)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), post.PubDate)
}

func TestNewPost_InvalidDateDefaultsToNow(t *testing.T) {
	post := NewPost(domain.PostInput{PubDate: patch.Set("garbage")}, fixedNow)
	assert.Equal(t, fixedNow, post.PubDate)
}

func TestPostPatch_OnlySubmittedFields(t *testing.T) {
	p := PostPatch(domain.PostInput{Draft: patch.Set(false)})

	require.Equal(t, 1, p.Len())
	op, ok := p.Lookup("draft")
	require.True(t, ok)
	assert.Equal(t, false, op.Value)
	assert.NoError(t, p.Validate())
}

func TestPostPatch_EmptyContentBecomesDelete(t *testing.T) {
	p := PostPatch(domain.PostInput{
		Text: map[string]domain.TextInput{
			"es": {Content: patch.Set("<p>&nbsp;</p>")},
		},
	})

	op, ok := p.Lookup("translations.es.content")
	require.True(t, ok)
	assert.True(t, op.Delete)
	assert.Nil(t, op.Value)
}

func TestPostPatch_TitleRederivesSlug(t *testing.T) {
	p := PostPatch(domain.PostInput{
		Text: map[string]domain.TextInput{
			"en": {Title: patch.Set("Apartment for Rent")},
			"es": {Title: patch.Cleared[string]()},
		},
		PubDate: patch.Set("invalid"),
	})

	require.NoError(t, p.Validate())
	op, _ := p.Lookup("slug.en")
	assert.Equal(t, "apartment-for-rent", op.Value)
	op, _ = p.Lookup("slug.es")
	assert.Equal(t, "", op.Value)
	_, ok := p.Lookup("pubDate")
	assert.False(t, ok)
	_, ok = p.Lookup("slug")
	assert.False(t, ok)
}

func TestNewListing_Defaults(t *testing.T) {
	in := domain.ListingInput{
		Price:    patch.Set("1000000"),
		Bedrooms: patch.Set("2"),
		Area:     patch.Set("not-a-number"),
	}

	l := NewListing(in, fixedNow)

	assert.Equal(t, 1000000.0, l.Price)
	assert.Equal(t, 2, l.Bedrooms)
	assert.Equal(t, 0.0, l.Area)
	assert.Equal(t, "MXN", l.Currency)
	assert.Equal(t, "departamento", l.PropertyType)
	assert.Equal(t, "venta", l.Status)
	assert.NotNil(t, l.Amenities)
	assert.True(t, l.Draft)
}

func TestListingPatch(t *testing.T) {
	p := ListingPatch(domain.ListingInput{
		Price:     patch.Set("2500000.50"),
		Bathrooms: patch.Set("2"),
		Currency:  patch.Set(""),
		Address:   patch.Cleared[string](),
		ZoneID:    patch.Set("zone-1"),
		Amenities: patch.Cleared[[]string](),
		Text: map[string]domain.TextInput{
			"es": {Description: patch.Set("<p></p>")},
		},
	})

	require.NoError(t, p.Validate())

	op, _ := p.Lookup("price")
	assert.Equal(t, 2500000.50, op.Value)
	op, _ = p.Lookup("bathrooms")
	assert.Equal(t, 2, op.Value)
	op, _ = p.Lookup("currency")
	assert.Equal(t, "MXN", op.Value)
	op, _ = p.Lookup("address")
	assert.True(t, op.Delete)
	op, _ = p.Lookup("zoneId")
	assert.Equal(t, "zone-1", op.Value)
	op, _ = p.Lookup("amenities")
	assert.Equal(t, []string{}, op.Value)
	op, _ = p.Lookup("translations.es.description")
	assert.True(t, op.Delete)
	_, ok := p.Lookup("price.es")
	assert.False(t, ok)
}

func TestNewZone(t *testing.T) {
	z := NewZone(domain.ZoneInput{
		Text: map[string]domain.TextInput{
			"es": {Title: patch.Set("Zona Sur"), Description: patch.Set("<p>Sur</p>")},
			"en": {Title: patch.Set("South Zone")},
		},
	}, fixedNow)

	assert.Equal(t, "/zones/zona-sur", z.Slug)
	assert.Equal(t, "<p>Sur</p>", z.Translations["es"].Description)
	assert.Equal(t, "South Zone", z.Translations["en"].Title)
}

func TestZonePatch_EnglishTitleKeepsSlug(t *testing.T) {
	p := ZonePatch(domain.ZoneInput{
		Text: map[string]domain.TextInput{
			"en": {Title: patch.Set("North")},
		},
	})

	require.Equal(t, 1, p.Len())
	_, ok := p.Lookup("slug")
	assert.False(t, ok)

	p = ZonePatch(domain.ZoneInput{
		Text: map[string]domain.TextInput{
			"es": {Title: patch.Set("Zona Norte")},
		},
	})
	op, ok := p.Lookup("slug")
	require.True(t, ok)
	assert.Equal(t, "/zones/zona-norte", op.Value)
}

func TestCoverName(t *testing.T) {
	assert.Equal(t, "sin-titulo", CoverName(nil))
	assert.Equal(t, "casa-azul", CoverName(map[string]domain.TextInput{"es": {Title: patch.Set("Casa Azul")}}))
}
