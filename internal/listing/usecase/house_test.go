package usecase

import (
	"context"
	"testing"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
)

func validCreateInput() HouseCreateInput {
	return HouseCreateInput{
		Title:        "Sunny family house in Almaty",
		Description:  "Three bedrooms, garden, close to schools.",
		Price:        45_000_000_00,
		Location:     "Almaty, Medeu district",
		PropertyType: "HOUSE",
		Intent:       "SELL",
		Rooms:        5,
		Bedrooms:     3,
		PropertySize: 180,
		LandSize:     600,
		ImageURLs:    []string{"https://cdn.serik.test/temp/abc.jpg"},
	}
}

func TestHouseCreate(t *testing.T) {
	t.Run("CreatorPosts", func(t *testing.T) {
		f := newFixture(t)

		out, err := f.uc.HouseCreate(asRole(7, "CREATOR"), validCreateInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.ID == 0 {
			t.Fatalf("expected assigned id")
		}
		if len(f.repo.created) != 1 {
			t.Fatalf("expected one created house, got %d", len(f.repo.created))
		}
		created := f.repo.created[0]
		if created.PostedBy != 7 {
			t.Fatalf("expected poster 7, got %d", created.PostedBy)
		}
		if created.Status != entity.HouseStatusAvailable {
			t.Fatalf("expected new listings to start AVAILABLE, got %s", created.Status)
		}
	})

	t.Run("PlainUserCannotPost", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.HouseCreate(asRole(7, "USER"), validCreateInput())

		wantBusinessCode(t, err, goerror.CodeForbidden)
		if len(f.repo.created) != 0 {
			t.Fatalf("expected nothing created")
		}
	})

	t.Run("Anonymous", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.HouseCreate(context.Background(), validCreateInput())

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("BadEnum", func(t *testing.T) {
		f := newFixture(t)
		in := validCreateInput()
		in.PropertyType = "CASTLE"

		_, err := f.uc.HouseCreate(asRole(7, "CREATOR"), in)

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("TooManyImages", func(t *testing.T) {
		f := newFixture(t)
		in := validCreateInput()
		in.ImageURLs = make([]string, entity.MaxHouseImages+1)
		for i := range in.ImageURLs {
			in.ImageURLs[i] = "https://cdn.serik.test/temp/x.jpg"
		}

		_, err := f.uc.HouseCreate(asRole(7, "CREATOR"), in)

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})
}

func validUpdateInput(id int64) HouseUpdateInput {
	return HouseUpdateInput{
		ID:           id,
		Title:        "Renovated family house",
		Description:  "Fresh paint, new roof.",
		Price:        50_000_000_00,
		Location:     "Almaty, Medeu district",
		PropertyType: "HOUSE",
		Intent:       "SELL",
		Status:       "AVAILABLE",
	}
}

func TestHouseUpdate(t *testing.T) {
	t.Run("OwnerEdits", func(t *testing.T) {
		f := newFixture(t)
		f.repo.houses[10] = &entity.House{ID: 10, PostedBy: 7}

		if err := f.uc.HouseUpdate(asRole(7, "CREATOR"), validUpdateInput(10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.repo.updated) != 1 || f.repo.updated[0].ID != 10 {
			t.Fatalf("expected house 10 updated, got %+v", f.repo.updated)
		}
	})

	t.Run("AdminEditsForeignListing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.houses[10] = &entity.House{ID: 10, PostedBy: 7}

		if err := f.uc.HouseUpdate(asRole(99, "ADMIN"), validUpdateInput(10)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("StrangerCannotEdit", func(t *testing.T) {
		f := newFixture(t)
		f.repo.houses[10] = &entity.House{ID: 10, PostedBy: 7}

		err := f.uc.HouseUpdate(asRole(99, "CREATOR"), validUpdateInput(10))

		wantBusinessCode(t, err, goerror.CodeForbidden)
		if len(f.repo.updated) != 0 {
			t.Fatalf("expected no update")
		}
	})

	t.Run("MissingListing", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.HouseUpdate(asRole(7, "CREATOR"), validUpdateInput(10))

		wantBusinessCode(t, err, goerror.CodeNotFound)
	})
}

func TestHouseDelete(t *testing.T) {
	t.Run("OwnerDeletes", func(t *testing.T) {
		f := newFixture(t)
		f.repo.houses[10] = &entity.House{ID: 10, PostedBy: 7}

		if err := f.uc.HouseDelete(asRole(7, "USER"), HouseDeleteInput{ID: 10}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.repo.deleted) != 1 || f.repo.deleted[0] != 10 {
			t.Fatalf("expected house 10 deleted, got %v", f.repo.deleted)
		}
	})

	t.Run("AlreadyGoneIsNoOp", func(t *testing.T) {
		f := newFixture(t)

		if err := f.uc.HouseDelete(asRole(7, "USER"), HouseDeleteInput{ID: 10}); err != nil {
			t.Fatalf("expected deleting a missing listing to succeed, got %v", err)
		}

		if len(f.repo.deleted) != 0 {
			t.Fatalf("expected no delete call")
		}
	})

	t.Run("StrangerCannotDelete", func(t *testing.T) {
		f := newFixture(t)
		f.repo.houses[10] = &entity.House{ID: 10, PostedBy: 7}

		err := f.uc.HouseDelete(asRole(99, "CREATOR"), HouseDeleteInput{ID: 10})

		wantBusinessCode(t, err, goerror.CodeForbidden)
	})
}

func TestHouseList(t *testing.T) {
	t.Run("DefaultsAndClamps", func(t *testing.T) {
		f := newFixture(t)

		out, err := f.uc.HouseList(context.Background(), HouseListInput{Size: 500, Page: 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Size != 20 || out.Page != 1 {
			t.Fatalf("expected size clamped to 20 and page defaulted to 1, got size=%d page=%d", out.Size, out.Page)
		}
		if f.repo.lastFilter.Offset != 0 {
			t.Fatalf("expected offset 0, got %d", f.repo.lastFilter.Offset)
		}
	})

	t.Run("UnknownFilterValuesDropped", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.HouseList(context.Background(), HouseListInput{
			Statuses:      []string{"AVAILABLE", "HAUNTED"},
			PropertyTypes: []string{"HOUSE", "CAVE"},
			Intents:       []string{"RENT", "BORROW"},
			Size:          10,
			Page:          3,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		filter := f.repo.lastFilter
		if len(filter.Statuses) != 1 || filter.Statuses[0] != entity.HouseStatusAvailable {
			t.Fatalf("unexpected statuses %v", filter.Statuses)
		}
		if len(filter.PropertyTypes) != 1 || len(filter.Intents) != 1 {
			t.Fatalf("expected unknown values dropped, got %v %v", filter.PropertyTypes, filter.Intents)
		}
		if filter.Offset != 20 {
			t.Fatalf("expected offset 20 for page 3 size 10, got %d", filter.Offset)
		}
	})
}

func TestHouseDetail(t *testing.T) {
	seed := func(f *fixture) {
		f.repo.details[10] = &entity.HouseDetail{
			House:          entity.House{ID: 10, PostedBy: 7},
			BookmarkCount:  3,
			InterestCount:  2,
			ViewerBookmark: true,
			ViewerInterest: true,
		}
	}

	t.Run("AnonymousSeesCountsOnly", func(t *testing.T) {
		f := newFixture(t)
		seed(f)

		out, err := f.uc.HouseDetail(context.Background(), HouseDetailInput{ID: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.BookmarkCount != 3 || out.InterestCount != 2 {
			t.Fatalf("unexpected counts %+v", out)
		}
		if out.ViewerBookmark || out.ViewerInterest {
			t.Fatalf("expected viewer flags off for anonymous viewer")
		}
	})

	t.Run("ViewerFlags", func(t *testing.T) {
		f := newFixture(t)
		seed(f)

		out, err := f.uc.HouseDetail(asRole(5, "USER"), HouseDetailInput{ID: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !out.ViewerBookmark || !out.ViewerInterest {
			t.Fatalf("expected viewer flags on for a known viewer")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.HouseDetail(context.Background(), HouseDetailInput{ID: 10})

		wantBusinessCode(t, err, goerror.CodeNotFound)
	})
}
