package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/getyourdepa/depa-cms/internal/common"
	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/normalize"
	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/gin-gonic/gin"
)

const (
	coverFileField  = "coverImageFile"
	clearFlagSuffix = "_clear_flag"
)

// errUploadTooLarge is mapped to 413.
var errUploadTooLarge = fmt.Errorf("%w: upload too large", common.ErrInvalidInput)

// formReader turns a submitted form into tri-state fields. A field that was
// not submitted stays Unchanged.
type formReader struct {
	c        *gin.Context
	maxBytes int64
}

func (f formReader) text(name string) patch.Field[string] {
	v, ok := f.c.GetPostForm(name)
	if !ok {
		return patch.Unchanged[string]()
	}
	return patch.Set(v)
}

// clearable is text() that also honours "<name>_clear_flag=true".
func (f formReader) clearable(name string) patch.Field[string] {
	if f.flag(name + clearFlagSuffix) {
		return patch.Cleared[string]()
	}
	return f.text(name)
}

func (f formReader) flag(name string) bool {
	return strings.EqualFold(strings.TrimSpace(f.c.PostForm(name)), "true")
}

func (f formReader) bool(name string) patch.Field[bool] {
	v, ok := f.c.GetPostForm(name)
	if !ok {
		return patch.Unchanged[bool]()
	}
	b, valid := normalize.ParseBool(v)
	if !valid {
		return patch.Unchanged[bool]()
	}
	return patch.Set(b)
}

// commaList reads a single comma separated value.
func (f formReader) commaList(name string) patch.Field[[]string] {
	v, ok := f.c.GetPostForm(name)
	if !ok {
		return patch.Unchanged[[]string]()
	}
	return patch.Set(normalize.SplitList(v))
}

// list reads a repeated field; each value may also be comma separated.
func (f formReader) list(name string) patch.Field[[]string] {
	values, ok := f.c.GetPostFormArray(name)
	if !ok {
		return patch.Unchanged[[]string]()
	}
	out := []string{}
	for _, v := range values {
		out = append(out, normalize.SplitList(v)...)
	}
	return patch.Set(out)
}

func (f formReader) texts() map[string]domain.TextInput {
	out := make(map[string]domain.TextInput, len(domain.Locales))
	for _, loc := range domain.Locales {
		out[loc] = domain.TextInput{
			Title:       f.text("title_" + loc),
			Content:     f.text("content_" + loc),
			Description: f.text("description_" + loc),
			Excerpt:     f.text("excerpt_" + loc),
		}
	}
	return out
}

// cover reads coverImageFile, or the coverImage clear flag when no file
// was sent.
func (f formReader) cover() (domain.CoverInput, error) {
	up, ok, err := f.file(coverFileField)
	if err != nil {
		return domain.CoverInput{}, err
	}
	switch {
	case ok:
		return domain.CoverInput{Cover: patch.Set(up)}, nil
	case f.flag("coverImage" + clearFlagSuffix):
		return domain.CoverInput{Cover: patch.Cleared[domain.Upload]()}, nil
	}
	return domain.CoverInput{}, nil
}

// file reads an uploaded file. ok is false when the field is absent or empty.
func (f formReader) file(name string) (domain.Upload, bool, error) {
	fh, err := f.c.FormFile(name)
	if err != nil || fh == nil || fh.Size == 0 {
		return domain.Upload{}, false, nil
	}
	if f.maxBytes > 0 && fh.Size > f.maxBytes {
		return domain.Upload{}, false, errUploadTooLarge
	}
	data, err := readFile(fh)
	if err != nil {
		return domain.Upload{}, false, err
	}
	return domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, true, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	return io.ReadAll(src)
}

func parsePostForm(f formReader) (domain.PostInput, error) {
	cover, err := f.cover()
	if err != nil {
		return domain.PostInput{}, err
	}
	return domain.PostInput{
		CoverInput: cover,
		Text:       f.texts(),
		Categories: f.commaList("categories"),
		PubDate:    f.text("pubDate"),
		Draft:      f.bool("draft"),
	}, nil
}

func parseListingForm(f formReader) (domain.ListingInput, error) {
	cover, err := f.cover()
	if err != nil {
		return domain.ListingInput{}, err
	}
	return domain.ListingInput{
		CoverInput:   cover,
		Text:         f.texts(),
		Price:        f.text("price"),
		Currency:     f.text("currency"),
		Area:         f.text("area"),
		Bedrooms:     f.text("bedrooms"),
		Bathrooms:    f.text("bathrooms"),
		Parking:      f.text("parking"),
		PropertyType: f.text("propertyType"),
		Status:       f.text("status"),
		Address:      f.clearable("address"),
		Amenities:    f.list("amenities"),
		ZoneID:       f.clearable("zoneId"),
		PubDate:      f.text("pubDate"),
		Draft:        f.bool("draft"),
	}, nil
}

func parseZoneForm(f formReader) (domain.ZoneInput, error) {
	cover, err := f.cover()
	if err != nil {
		return domain.ZoneInput{}, err
	}
	return domain.ZoneInput{
		CoverInput: cover,
		Text:       f.texts(),
		PubDate:    f.text("pubDate"),
	}, nil
}
