package inbound

import (
	"context"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/listing/usecase"
	"github.com/serikimmo/serik/internal/pkg/router"
)

type uc interface {
	HouseCreate(ctx context.Context, in usecase.HouseCreateInput) (*usecase.HouseCreateOutput, error)
	HouseUpdate(ctx context.Context, in usecase.HouseUpdateInput) error
	HouseDelete(ctx context.Context, in usecase.HouseDeleteInput) error
	HouseDetail(ctx context.Context, in usecase.HouseDetailInput) (*entity.HouseDetail, error)
	HouseList(ctx context.Context, in usecase.HouseListInput) (*usecase.HouseListOutput, error)

	BookmarkToggle(ctx context.Context, in usecase.BookmarkToggleInput) (*usecase.BookmarkToggleOutput, error)
	InterestToggle(ctx context.Context, in usecase.InterestToggleInput) (*usecase.InterestToggleOutput, error)
	ViewIncrement(ctx context.Context, in usecase.ViewIncrementInput) error

	ImageUpload(ctx context.Context, in usecase.ImageUploadInput) (*usecase.ImageUploadOutput, error)
	ImageDelete(ctx context.Context, in usecase.ImageDeleteInput) error
	TempImageSweep(ctx context.Context) (*usecase.TempImageSweepOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Catalogue (public)
	r.GET("/api/v1/houses", end.HouseList)
	r.GET("/api/v1/houses/:id", end.HouseDetail)

	// Listing management (need authenticated & authorization)
	r.POST("/api/v1/houses", end.HouseCreate)
	r.PUT("/api/v1/houses/:id", end.HouseUpdate)
	r.DELETE("/api/v1/houses/:id", end.HouseDelete)

	// Engagement (need authenticated)
	r.POST("/api/v1/houses/:id/bookmark", end.BookmarkToggle)
	r.POST("/api/v1/houses/:id/interest", end.InterestToggle)
	r.POST("/api/v1/houses/:id/view", end.ViewIncrement)

	// Images (need authenticated & authorization)
	r.POST("/api/v1/houses/images", end.ImageUpload)
	r.DELETE("/api/v1/houses/images", end.ImageDelete)
	r.POST("/api/v1/houses/images/sweep", end.TempImageSweep)
}
