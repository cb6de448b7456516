package entity

import "time"

// MaxHouseImages caps the gallery size per listing.
const MaxHouseImages = 10

type House struct {
	ID             int64
	Title          string
	Description    string
	Price          int64 // minor units
	Location       string
	PropertyType   PropertyType
	Intent         Intent
	Status         HouseStatus
	Rooms          int32
	Bedrooms       int32
	SwimmingPool   bool
	PrivateParking bool
	PropertySize   float64
	LandSize       float64
	ImageURLs      []string
	ViewCount      int64
	PostedBy       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ---- //

// PosterSummary is the public slice of the user who posted a listing.
type PosterSummary struct {
	ID        int64
	FirstName string
	LastName  string
	AvatarURL string
	Phone     string
}

// HouseDetail is the detail projection: the house, who posted it, the
// engagement counts, and the viewer's own flags when known.
type HouseDetail struct {
	House          House
	Poster         PosterSummary
	BookmarkCount  int64
	InterestCount  int64
	ViewerBookmark bool
	ViewerInterest bool
}

type HouseFilter struct {
	Statuses      []HouseStatus
	PropertyTypes []PropertyType
	Intents       []Intent
	Location      string
	Size          int32
	Offset        int32
}

type NewHouse struct {
	ID             int64
	Title          string
	Description    string
	Price          int64
	Location       string
	PropertyType   PropertyType
	Intent         Intent
	Status         HouseStatus
	Rooms          int32
	Bedrooms       int32
	SwimmingPool   bool
	PrivateParking bool
	PropertySize   float64
	LandSize       float64
	ImageURLs      []string
	PostedBy       int64
}

type PatchHouse struct {
	ID             int64
	Title          string
	Description    string
	Price          int64
	Location       string
	PropertyType   PropertyType
	Intent         Intent
	Status         HouseStatus
	Rooms          int32
	Bedrooms       int32
	SwimmingPool   bool
	PrivateParking bool
	PropertySize   float64
	LandSize       float64
	ImageURLs      []string
}
