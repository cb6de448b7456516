package inbound

import (
	"net/http"
	"time"

	"github.com/serikimmo/serik/internal/listing/entity"
)

type HouseRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Price          int64    `json:"price"`
	Location       string   `json:"location"`
	PropertyType   string   `json:"property_type"`
	Intent         string   `json:"intent"`
	Status         string   `json:"status,omitempty"`
	Rooms          int32    `json:"rooms"`
	Bedrooms       int32    `json:"bedrooms"`
	SwimmingPool   bool     `json:"swimming_pool"`
	PrivateParking bool     `json:"private_parking"`
	PropertySize   float64  `json:"property_size"`
	LandSize       float64  `json:"land_size"`
	ImageURLs      []string `json:"image_urls"`
}

type HouseCreateResponse struct {
	ID int64 `json:"id,string"`
}

func (HouseCreateResponse) StatusCode() int {
	return http.StatusCreated
}

func (HouseCreateResponse) Message() string {
	return "Listing created."
}

type HouseResponse struct {
	ID             int64     `json:"id,string"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Price          int64     `json:"price"`
	Location       string    `json:"location"`
	PropertyType   string    `json:"property_type"`
	Intent         string    `json:"intent"`
	Status         string    `json:"status"`
	Rooms          int32     `json:"rooms"`
	Bedrooms       int32     `json:"bedrooms"`
	SwimmingPool   bool      `json:"swimming_pool"`
	PrivateParking bool      `json:"private_parking"`
	PropertySize   float64   `json:"property_size"`
	LandSize       float64   `json:"land_size"`
	ImageURLs      []string  `json:"image_urls"`
	ViewCount      int64     `json:"view_count"`
	PostedBy       int64     `json:"posted_by,string"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toHouseResponse(h entity.House) HouseResponse {
	return HouseResponse{
		ID:             h.ID,
		Title:          h.Title,
		Description:    h.Description,
		Price:          h.Price,
		Location:       h.Location,
		PropertyType:   string(h.PropertyType),
		Intent:         string(h.Intent),
		Status:         string(h.Status),
		Rooms:          h.Rooms,
		Bedrooms:       h.Bedrooms,
		SwimmingPool:   h.SwimmingPool,
		PrivateParking: h.PrivateParking,
		PropertySize:   h.PropertySize,
		LandSize:       h.LandSize,
		ImageURLs:      h.ImageURLs,
		ViewCount:      h.ViewCount,
		PostedBy:       h.PostedBy,
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.UpdatedAt,
	}
}

type PosterResponse struct {
	ID        int64  `json:"id,string"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type HouseDetailResponse struct {
	HouseResponse

	Poster         PosterResponse `json:"poster"`
	BookmarkCount  int64          `json:"bookmark_count"`
	InterestCount  int64          `json:"interest_count"`
	ViewerBookmark bool           `json:"viewer_bookmark"`
	ViewerInterest bool           `json:"viewer_interest"`
}

type HouseListResponse struct {
	Houses []HouseResponse `json:"houses"`

	page  int32
	size  int32
	total int64
}

func (h HouseListResponse) Meta() map[string]any {
	return map[string]any{
		"page":  h.page,
		"size":  h.size,
		"total": h.total,
	}
}

type ToggleResponse struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

type ViewIncrementResponse struct{}

func (ViewIncrementResponse) Message() string {
	return "View recorded."
}

type ImageUploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

func (ImageUploadResponse) StatusCode() int {
	return http.StatusCreated
}

type ImageDeleteResponse struct{}

func (ImageDeleteResponse) Message() string {
	return "Image deleted."
}

type TempImageSweepResponse struct {
	Deleted int `json:"deleted"`
}
