package model

import "time"

// Rental types: a property is let as a whole or room by room.
const (
	RentalEntire = "entire"
	RentalUnits  = "units"
)

// Unit types for room-by-room rentals.
const (
	UnitPrivate = "private"
	UnitShared  = "shared"
)

// Price units accepted on a listing.
const (
	PricePerDay   = "/day"
	PricePerMonth = "/month"
)

// PropertyTypes enumerates the accepted building types.
var PropertyTypes = map[string]bool{
	"apartment": true,
	"house":     true,
	"condo":     true,
}

type Unit struct {
	ID         int64  `json:"id"`
	PropertyID int64  `json:"-"`
	Type       string `json:"type"`
	Quantity   int    `json:"quantity"`
}

type Property struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Type          string     `json:"type"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	Latitude      *float64   `json:"latitude,omitempty"`
	Longitude     *float64   `json:"longitude,omitempty"`
	Bedrooms      int        `json:"bedrooms"`
	Bathrooms     int        `json:"bathrooms"`
	HasLivingRoom bool       `json:"hasLivingRoom"`
	RentalType    string     `json:"rentalType"`
	Amenities     []string   `json:"amenities"`
	ImageURLs     []string   `json:"imageUrls"`
	Price         float64    `json:"price"`
	PriceUnit     string     `json:"priceUnit"`
	AvailableFrom time.Time  `json:"availableFrom"`
	AvailableTo   *time.Time `json:"availableTo,omitempty"`
	ContactName   string     `json:"contactName"`
	ContactEmail  string     `json:"contactEmail"`
	ContactPhone  string     `json:"contactPhone"`
	ShowEmail     bool       `json:"showEmail"`
	ShowPhone     bool       `json:"showPhone"`
	OwnerID       int64      `json:"ownerId"`
	Owner         *Owner     `json:"owner,omitempty"`
	Units         []Unit     `json:"units,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}
