package inbound

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/serikimmo/serik/internal/listing/usecase"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the property catalogue.
type HTTPEndpoint struct {
	uc uc
}

// HouseList returns a filtered page of listings.
// @Summary List houses
// @Description Returns listings filtered by status, property type, intent and location search.
// @Tags Listing
// @Produce json
// @Param status query []string false "Status filter"
// @Param type query []string false "Property type filter"
// @Param intent query []string false "Intent filter"
// @Param location query string false "Location search"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} router.successResponse{data=HouseListResponse} "Listings"
// @Router /api/v1/houses [get]
func (h *HTTPEndpoint) HouseList(r *router.Request) (any, error) {
	page, _ := r.GetQueryInt32("page")
	size, _ := r.GetQueryInt32("size")

	resp, err := h.uc.HouseList(r.Context(), usecase.HouseListInput{
		Statuses:      r.GetQueries("status"),
		PropertyTypes: r.GetQueries("type"),
		Intents:       r.GetQueries("intent"),
		Location:      r.GetQuery("location"),
		Page:          page,
		Size:          size,
	})
	if err != nil {
		return nil, err
	}

	houses := make([]HouseResponse, 0, len(resp.Houses))
	for _, house := range resp.Houses {
		houses = append(houses, toHouseResponse(house))
	}

	return HouseListResponse{
		Houses: houses,
		page:   resp.Page,
		size:   resp.Size,
		total:  resp.Total,
	}, nil
}

// HouseDetail returns one listing with poster and engagement info.
// @Summary House detail
// @Description Returns the listing, the poster summary, engagement counts and the viewer's own flags.
// @Tags Listing
// @Produce json
// @Param id path int true "House ID"
// @Success 200 {object} router.successResponse{data=HouseDetailResponse} "Listing detail"
// @Failure 404 {object} router.errorResponse "Listing not found"
// @Router /api/v1/houses/{id} [get]
func (h *HTTPEndpoint) HouseDetail(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	detail, err := h.uc.HouseDetail(r.Context(), usecase.HouseDetailInput{ID: id})
	if err != nil {
		return nil, err
	}

	return HouseDetailResponse{
		HouseResponse: toHouseResponse(detail.House),
		Poster: PosterResponse{
			ID:        detail.Poster.ID,
			FirstName: detail.Poster.FirstName,
			LastName:  detail.Poster.LastName,
			AvatarURL: detail.Poster.AvatarURL,
			Phone:     detail.Poster.Phone,
		},
		BookmarkCount:  detail.BookmarkCount,
		InterestCount:  detail.InterestCount,
		ViewerBookmark: detail.ViewerBookmark,
		ViewerInterest: detail.ViewerInterest,
	}, nil
}

func (h *HTTPEndpoint) HouseCreate(r *router.Request) (any, error) {
	var req HouseRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.HouseCreate(r.Context(), usecase.HouseCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Location:       req.Location,
		PropertyType:   req.PropertyType,
		Intent:         req.Intent,
		Rooms:          req.Rooms,
		Bedrooms:       req.Bedrooms,
		SwimmingPool:   req.SwimmingPool,
		PrivateParking: req.PrivateParking,
		PropertySize:   req.PropertySize,
		LandSize:       req.LandSize,
		ImageURLs:      req.ImageURLs,
	})
	if err != nil {
		return nil, err
	}

	return HouseCreateResponse{ID: resp.ID}, nil
}

func (h *HTTPEndpoint) HouseUpdate(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	var req HouseRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.HouseUpdate(r.Context(), usecase.HouseUpdateInput{
		ID:             id,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Location:       req.Location,
		PropertyType:   req.PropertyType,
		Intent:         req.Intent,
		Status:         req.Status,
		Rooms:          req.Rooms,
		Bedrooms:       req.Bedrooms,
		SwimmingPool:   req.SwimmingPool,
		PrivateParking: req.PrivateParking,
		PropertySize:   req.PropertySize,
		LandSize:       req.LandSize,
		ImageURLs:      req.ImageURLs,
	}); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) HouseDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := h.uc.HouseDelete(r.Context(), usecase.HouseDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return nil, nil
}

func (h *HTTPEndpoint) BookmarkToggle(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	resp, err := h.uc.BookmarkToggle(r.Context(), usecase.BookmarkToggleInput{HouseID: id})
	if err != nil {
		return nil, err
	}

	return ToggleResponse{Active: resp.Bookmarked, Count: resp.Count}, nil
}

func (h *HTTPEndpoint) InterestToggle(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	resp, err := h.uc.InterestToggle(r.Context(), usecase.InterestToggleInput{HouseID: id})
	if err != nil {
		return nil, err
	}

	return ToggleResponse{Active: resp.Interested, Count: resp.Count}, nil
}

func (h *HTTPEndpoint) ViewIncrement(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if err := h.uc.ViewIncrement(r.Context(), usecase.ViewIncrementInput{HouseID: id}); err != nil {
		return nil, err
	}

	return ViewIncrementResponse{}, nil
}

// ImageUpload stores an image under a temporary key.
// @Summary Upload listing image
// @Description Accepts a multipart image and returns its temporary URL and key. Attach the URL to a listing before the sweep grace period ends.
// @Tags Listing, Images
// @Accept mpfd
// @Produce json
// @Param image formData file true "Image file"
// @Success 201 {object} router.successResponse{data=ImageUploadResponse} "Upload result"
// @Failure 422 {object} router.errorResponse "Unsupported content type or oversize file"
// @Router /api/v1/houses/images [post]
func (h *HTTPEndpoint) ImageUpload(r *router.Request) (any, error) {
	ctx := r.Context()

	file, err := r.StreamSingleFile("image")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close file", "error", err)
		}
	}()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, goerror.NewInvalidFormat()
	}

	resp, err := h.uc.ImageUpload(ctx, usecase.ImageUploadInput{
		File:        io.MultiReader(bytes.NewReader(head[:n]), file),
		ContentType: http.DetectContentType(head[:n]),
	})
	if err != nil {
		return nil, err
	}

	return ImageUploadResponse{URL: resp.URL, Key: resp.Key}, nil
}

func (h *HTTPEndpoint) ImageDelete(r *router.Request) (any, error) {
	if err := h.uc.ImageDelete(r.Context(), usecase.ImageDeleteInput{
		Key: r.GetQuery("key"),
	}); err != nil {
		return nil, err
	}

	return ImageDeleteResponse{}, nil
}

func (h *HTTPEndpoint) TempImageSweep(r *router.Request) (any, error) {
	resp, err := h.uc.TempImageSweep(r.Context())
	if err != nil {
		return nil, err
	}

	return TempImageSweepResponse{Deleted: resp.Deleted}, nil
}
