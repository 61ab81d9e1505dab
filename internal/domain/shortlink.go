package domain

import "time"

// ShortLink maps a random key to a target URL. The key is the document id.
type ShortLink struct {
	Key       string    `json:"key" firestore:"-" bson:"-"`
	LongURL   string    `json:"longUrl" firestore:"longUrl" bson:"longUrl"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt" bson:"createdAt"`
}

// ShortenRequest is the body of POST /api/shorten.
type ShortenRequest struct {
	LongURL string `json:"longUrl" binding:"required,httpurl"`
}

// ShortenResponse is returned for a created short link.
type ShortenResponse struct {
	Success  bool   `json:"success"`
	ShortURL string `json:"shortUrl"`
	Key      string `json:"key"`
}
