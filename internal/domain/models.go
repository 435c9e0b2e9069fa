package domain

import (
	"time"
)

// URLRecord represents a shortened URL with its metadata. The durable store
// holds the authoritative copy; cache entries are a projection of it.
type URLRecord struct {
	Code      string    `json:"code"`
	LongURL   string    `json:"longUrl"`
	ShortURL  string    `json:"shortUrl"`
	Clicks    int64     `json:"clicks"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the record's expiration horizon has passed.
func (r *URLRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// ShortenRequest represents the request to create a short URL
type ShortenRequest struct {
	LongURL string `json:"longUrl"`
}
