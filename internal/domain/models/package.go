package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Package is a pre-curated multi-day tour product.
type Package struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`

	DestinationCity    string `json:"destination_city"`
	DestinationCountry string `json:"destination_country"`

	DurationDays   int `json:"duration_days"`
	DurationNights int `json:"duration_nights"`

	StartingPriceCents  int64 `json:"starting_price_cents"`
	PricePerPersonCents int64 `json:"price_per_person_cents"`

	Highlights json.RawMessage `json:"highlights,omitempty"`
	Inclusions json.RawMessage `json:"inclusions,omitempty"`
	Exclusions json.RawMessage `json:"exclusions,omitempty"`
	Itinerary  json.RawMessage `json:"itinerary,omitempty"`

	HotelName   string `json:"hotel_name,omitempty"`
	HotelRating int    `json:"hotel_rating,omitempty"`
	RoomType    string `json:"room_type,omitempty"`

	IsActive       bool   `json:"is_active"`
	AvailableFrom  string `json:"available_from,omitempty"`
	AvailableUntil string `json:"available_until,omitempty"`
	MaxCapacity    int    `json:"max_capacity,omitempty"`
	MinBooking     int    `json:"min_booking"`

	FeaturedImage string          `json:"featured_image,omitempty"`
	GalleryImages json.RawMessage `json:"gallery_images,omitempty"`

	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`

	ViewCount    int `json:"view_count"`
	BookingCount int `json:"booking_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Package) Destination() string {
	return fmt.Sprintf("%s, %s", p.DestinationCity, p.DestinationCountry)
}

func (p Package) Duration() string {
	return fmt.Sprintf("%d Days / %d Nights", p.DurationDays, p.DurationNights)
}
