package normalize

import (
	"time"

	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/patch"
)

// untitled names cover images of records created without a Spanish title.
const untitled = "sin-titulo"

type bodyFields struct {
	content     bool
	description bool
	excerpt     bool
}

var (
	postBody    = bodyFields{content: true, excerpt: true}
	listingBody = bodyFields{description: true}
	zoneBody    = bodyFields{description: true, excerpt: true}
)

// NewPost builds the stored form of a new blog post.
func NewPost(in domain.PostInput, now time.Time) *domain.Post {
	return &domain.Post{
		Base:       newBase(in.Text, postBody, in.PubDate, now),
		Slug:       localeSlugs(in.Text),
		Categories: nonNil(in.Categories.Or(nil)),
		Draft:      in.Draft.Or(true),
	}
}

// PostPatch builds the partial update for a submitted post. Only submitted
// fields appear in the patch.
func PostPatch(in domain.PostInput) *patch.Patch {
	p := patch.New()
	for _, loc := range domain.Locales {
		t := in.Text[loc]
		applyTitle(p, loc, t.Title, "slug."+loc, Slug)
		applyBody(p, loc, t, postBody)
	}
	applyList(p, "categories", in.Categories)
	applyDate(p, in.PubDate)
	patch.Apply(p, "draft", in.Draft)
	return p
}

// NewListing builds the stored form of a new listing.
func NewListing(in domain.ListingInput, now time.Time) *domain.Listing {
	return &domain.Listing{
		Base:         newBase(in.Text, listingBody, in.PubDate, now),
		Slug:         localeSlugs(in.Text),
		Price:        ParseNumber(in.Price.Or("")),
		Currency:     withDefault(in.Currency.Or(""), domain.DefaultCurrency),
		Area:         ParseNumber(in.Area.Or("")),
		Bedrooms:     ParseCount(in.Bedrooms.Or("")),
		Bathrooms:    ParseCount(in.Bathrooms.Or("")),
		Parking:      ParseCount(in.Parking.Or("")),
		PropertyType: withDefault(in.PropertyType.Or(""), domain.DefaultPropertyType),
		Status:       withDefault(in.Status.Or(""), domain.DefaultStatus),
		Address:      in.Address.Or(""),
		Amenities:    nonNil(in.Amenities.Or(nil)),
		ZoneID:       in.ZoneID.Or(""),
		Draft:        in.Draft.Or(true),
	}
}

// ListingPatch builds the partial update for a submitted listing.
func ListingPatch(in domain.ListingInput) *patch.Patch {
	p := patch.New()
	for _, loc := range domain.Locales {
		t := in.Text[loc]
		applyTitle(p, loc, t.Title, "slug."+loc, Slug)
		applyBody(p, loc, t, listingBody)
	}

	applyNumber(p, "price", in.Price, ParseNumber)
	applyNumber(p, "area", in.Area, ParseNumber)
	applyNumber(p, "bedrooms", in.Bedrooms, ParseCount)
	applyNumber(p, "bathrooms", in.Bathrooms, ParseCount)
	applyNumber(p, "parking", in.Parking, ParseCount)

	applyDefaulted(p, "currency", in.Currency, domain.DefaultCurrency)
	applyDefaulted(p, "propertyType", in.PropertyType, domain.DefaultPropertyType)
	applyDefaulted(p, "status", in.Status, domain.DefaultStatus)

	applyOptional(p, "address", in.Address)
	applyOptional(p, "zoneId", in.ZoneID)
	applyList(p, "amenities", in.Amenities)
	applyDate(p, in.PubDate)
	patch.Apply(p, "draft", in.Draft)
	return p
}

// NewZone builds the stored form of a new zone.
func NewZone(in domain.ZoneInput, now time.Time) *domain.Zone {
	return &domain.Zone{
		Base: newBase(in.Text, zoneBody, in.PubDate, now),
		Slug: ZoneSlug(in.Text[domain.LocaleES].Title.Or("")),
	}
}

// ZonePatch builds the partial update for a submitted zone. Only the Spanish
// title drives the zone path.
func ZonePatch(in domain.ZoneInput) *patch.Patch {
	p := patch.New()
	for _, loc := range domain.Locales {
		t := in.Text[loc]
		if loc == domain.LocaleES {
			applyTitle(p, loc, t.Title, "slug", ZoneSlug)
		} else {
			applyTitle(p, loc, t.Title, "", nil)
		}
		applyBody(p, loc, t, zoneBody)
	}
	applyDate(p, in.PubDate)
	return p
}

// CoverName returns the base name for a cover image uploaded at creation.
func CoverName(text map[string]domain.TextInput) string {
	if s := Slug(text[domain.LocaleES].Title.Or("")); s != "" {
		return s
	}
	return untitled
}

func newBase(text map[string]domain.TextInput, body bodyFields, pubDate patch.Field[string], now time.Time) domain.Base {
	translations := make(map[string]domain.Translation, len(domain.Locales))
	for _, loc := range domain.Locales {
		t := text[loc]
		tr := domain.Translation{Title: t.Title.Or("")}
		if body.content {
			tr.Content = richText(t.Content)
		}
		if body.description {
			tr.Description = richText(t.Description)
		}
		if body.excerpt {
			tr.Excerpt = richText(t.Excerpt)
		}
		translations[loc] = tr
	}

	date := now.UTC()
	if t, ok := ParseDate(pubDate.Or("")); ok {
		date = t
	}

	return domain.Base{Translations: translations, PubDate: date}
}

func localeSlugs(text map[string]domain.TextInput) map[string]string {
	slugs := make(map[string]string, len(domain.Locales))
	for _, loc := range domain.Locales {
		slugs[loc] = Slug(text[loc].Title.Or(""))
	}
	return slugs
}

// richText returns the markup, or "" when it has no visible text.
func richText(f patch.Field[string]) string {
	v, ok := f.Get()
	if !ok || IsEmptyHTML(v) {
		return ""
	}
	return v
}

// applyTitle writes the title and re-derives the slug at slugPath. A cleared
// title stores "" and an empty slug.
func applyTitle(p *patch.Patch, loc string, f patch.Field[string], slugPath string, derive func(string) string) {
	if f.IsUnchanged() {
		return
	}
	title := f.Or("")
	p.Set("translations."+loc+".title", title)
	if slugPath != "" {
		p.Set(slugPath, derive(title))
	}
}

func applyBody(p *patch.Patch, loc string, t domain.TextInput, body bodyFields) {
	prefix := "translations." + loc + "."
	if body.content {
		applyRichText(p, prefix+"content", t.Content)
	}
	if body.description {
		applyRichText(p, prefix+"description", t.Description)
	}
	if body.excerpt {
		applyRichText(p, prefix+"excerpt", t.Excerpt)
	}
}

// applyRichText deletes the field when it is cleared or submitted empty.
func applyRichText(p *patch.Patch, path string, f patch.Field[string]) {
	switch {
	case f.IsUnchanged():
	case f.IsCleared():
		p.Delete(path)
	default:
		if v := richText(f); v != "" {
			p.Set(path, v)
		} else {
			p.Delete(path)
		}
	}
}

// applyDate writes pubDate only for a parsable submitted date.
func applyDate(p *patch.Patch, f patch.Field[string]) {
	if t, ok := ParseDate(f.Or("")); ok {
		p.Set("pubDate", t)
	}
}

// applyList writes the list; clearing stores an empty list.
func applyList(p *patch.Patch, path string, f patch.Field[[]string]) {
	if f.IsUnchanged() {
		return
	}
	p.Set(path, nonNil(f.Or(nil)))
}

func applyNumber[N int | float64](p *patch.Patch, path string, f patch.Field[string], parse func(string) N) {
	if f.IsUnchanged() {
		return
	}
	p.Set(path, parse(f.Or("")))
}

func applyDefaulted(p *patch.Patch, path string, f patch.Field[string], def string) {
	if f.IsUnchanged() {
		return
	}
	p.Set(path, withDefault(f.Or(""), def))
}

// applyOptional deletes the field when it is cleared or submitted blank.
func applyOptional(p *patch.Patch, path string, f patch.Field[string]) {
	if v, ok := f.Get(); ok && v != "" {
		p.Set(path, v)
		return
	}
	if !f.IsUnchanged() {
		p.Delete(path)
	}
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
