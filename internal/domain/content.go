package domain

import (
	"time"

	"github.com/getyourdepa/depa-cms/internal/patch"
)

// Content locales
const (
	LocaleES = "es"
	LocaleEN = "en"
)

// Locales lists the supported content locales in slug order.
var Locales = []string{LocaleES, LocaleEN}

// Collections
const (
	CollectionPosts      = "posts"
	CollectionListings   = "listings"
	CollectionZones      = "zones"
	CollectionShortLinks = "shortlinks"
)

// Listing defaults
const (
	DefaultCurrency     = "MXN"
	DefaultPropertyType = "departamento"
	DefaultStatus       = "venta"
	ZoneSlugPrefix      = "/zones/"
)

// Translation holds the per-locale text of a content record. Rich-text
// fields are omitted when empty.
type Translation struct {
	Title       string `json:"title" firestore:"title" bson:"title"`
	Content     string `json:"content,omitempty" firestore:"content,omitempty" bson:"content,omitempty"`
	Description string `json:"description,omitempty" firestore:"description,omitempty" bson:"description,omitempty"`
	Excerpt     string `json:"excerpt,omitempty" firestore:"excerpt,omitempty" bson:"excerpt,omitempty"`
}

// Record is implemented by every content record kind.
type Record interface {
	GetID() string
	SetID(id string)
	GetCoverImage() string
	SetCoverImage(url string)
}

// Base carries the fields shared by posts, listings and zones. ID is
// assigned by the store and never persisted inside the document.
type Base struct {
	ID           string                 `json:"id" firestore:"-" bson:"-"`
	Translations map[string]Translation `json:"translations" firestore:"translations" bson:"translations"`
	PubDate      time.Time              `json:"pubDate" firestore:"pubDate" bson:"pubDate"`
	CoverImage   string                 `json:"coverImage,omitempty" firestore:"coverImage,omitempty" bson:"coverImage,omitempty"`
}

func (b *Base) GetID() string          { return b.ID }
func (b *Base) SetID(id string)        { b.ID = id }
func (b *Base) GetCoverImage() string  { return b.CoverImage }
func (b *Base) SetCoverImage(u string) { b.CoverImage = u }

// Post is a blog article.
type Post struct {
	Base       `bson:",inline"`
	Slug       map[string]string `json:"slug" firestore:"slug" bson:"slug"`
	Categories []string          `json:"categories" firestore:"categories" bson:"categories"`
	Draft      bool              `json:"draft" firestore:"draft" bson:"draft"`
}

// Listing is a property for sale or rent.
type Listing struct {
	Base         `bson:",inline"`
	Slug         map[string]string `json:"slug" firestore:"slug" bson:"slug"`
	Price        float64           `json:"price" firestore:"price" bson:"price"`
	Currency     string            `json:"currency" firestore:"currency" bson:"currency"`
	Area         float64           `json:"area" firestore:"area" bson:"area"`
	Bedrooms     int               `json:"bedrooms" firestore:"bedrooms" bson:"bedrooms"`
	Bathrooms    int               `json:"bathrooms" firestore:"bathrooms" bson:"bathrooms"`
	Parking      int               `json:"parking" firestore:"parking" bson:"parking"`
	PropertyType string            `json:"propertyType" firestore:"propertyType" bson:"propertyType"`
	Status       string            `json:"status" firestore:"status" bson:"status"`
	Address      string            `json:"address,omitempty" firestore:"address,omitempty" bson:"address,omitempty"`
	Amenities    []string          `json:"amenities" firestore:"amenities" bson:"amenities"`
	ZoneID       string            `json:"zoneId,omitempty" firestore:"zoneId,omitempty" bson:"zoneId,omitempty"`
	Draft        bool              `json:"draft" firestore:"draft" bson:"draft"`
}

// Zone is a geographic area landing page. Its slug is a single site path.
type Zone struct {
	Base `bson:",inline"`
	Slug string `json:"slug" firestore:"slug" bson:"slug"`
}

// Upload is binary file data received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Input is implemented by every content input kind.
type Input interface {
	CoverField() patch.Field[Upload]
	Texts() map[string]TextInput
}

// CoverInput is the cover image part of a content input: Set uploads a new
// image, Cleared removes the current one.
type CoverInput struct {
	Cover patch.Field[Upload]
}

func (c CoverInput) CoverField() patch.Field[Upload] { return c.Cover }

// TextInput is the submitted text of one locale.
type TextInput struct {
	Title       patch.Field[string]
	Content     patch.Field[string]
	Description patch.Field[string]
	Excerpt     patch.Field[string]
}

// PostInput is a submitted blog post, keyed by locale.
type PostInput struct {
	CoverInput
	Text       map[string]TextInput
	Categories patch.Field[[]string]
	PubDate    patch.Field[string]
	Draft      patch.Field[bool]
}

// ListingInput is a submitted listing. Numeric fields hold raw form text.
type ListingInput struct {
	CoverInput
	Text         map[string]TextInput
	Price        patch.Field[string]
	Currency     patch.Field[string]
	Area         patch.Field[string]
	Bedrooms     patch.Field[string]
	Bathrooms    patch.Field[string]
	Parking      patch.Field[string]
	PropertyType patch.Field[string]
	Status       patch.Field[string]
	Address      patch.Field[string]
	Amenities    patch.Field[[]string]
	ZoneID       patch.Field[string]
	PubDate      patch.Field[string]
	Draft        patch.Field[bool]
}

// ZoneInput is a submitted zone.
type ZoneInput struct {
	CoverInput
	Text    map[string]TextInput
	PubDate patch.Field[string]
}

func (in PostInput) Texts() map[string]TextInput    { return in.Text }
func (in ListingInput) Texts() map[string]TextInput { return in.Text }
func (in ZoneInput) Texts() map[string]TextInput    { return in.Text }
