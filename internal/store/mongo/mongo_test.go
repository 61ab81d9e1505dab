package mongo

import (
	"testing"

	"github.com/getyourdepa/depa-cms/internal/domain"
	"github.com/getyourdepa/depa-cms/internal/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUpdateDocument(t *testing.T) {
	p := patch.New().
		Set("draft", false).
		Set("slug.es", "hola").
		Delete("coverImage").
		Delete("translations.en.excerpt")

	doc := UpdateDocument(p)

	assert.Equal(t, bson.M{"draft": false, "slug.es": "hola"}, doc["$set"])
	assert.Equal(t, bson.M{"coverImage": "", "translations.en.excerpt": ""}, doc["$unset"])
}

func TestUpdateDocument_OnlyUnset(t *testing.T) {
	doc := UpdateDocument(patch.New().Delete("zoneId"))

	assert.NotContains(t, doc, "$set")
	assert.Contains(t, doc, "$unset")
}

func TestToDocument_InlinesBaseAndSkipsID(t *testing.T) {
	l := &domain.Listing{Price: 1000000, Bedrooms: 2}
	l.ID = "ignored"
	l.Translations = map[string]domain.Translation{"es": {Title: "Casa"}}

	m, err := toDocument(l)
	require.NoError(t, err)

	assert.NotContains(t, m, "id")
	assert.NotContains(t, m, "base")
	assert.Contains(t, m, "translations")
	assert.Equal(t, 1000000.0, m["price"])
}

func TestSnapshot_DataTo(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"_id": "abc", "price": 5.0, "bedrooms": 3})
	require.NoError(t, err)

	var l domain.Listing
	require.NoError(t, snapshot{id: "abc", raw: raw}.DataTo(&l))
	assert.Equal(t, 5.0, l.Price)
	assert.Equal(t, 3, l.Bedrooms)
	assert.Empty(t, l.ID)
}
