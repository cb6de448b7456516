package usecase

import (
	"context"
	"testing"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/goerror"
)

func TestBookmarkToggle(t *testing.T) {
	t.Run("TogglesOnThenOff", func(t *testing.T) {
		f := newFixture(t)

		out, err := f.uc.BookmarkToggle(asRole(5, "USER"), BookmarkToggleInput{HouseID: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Bookmarked || out.Count != 1 {
			t.Fatalf("expected first toggle to bookmark, got %+v", out)
		}

		out, err = f.uc.BookmarkToggle(asRole(5, "USER"), BookmarkToggleInput{HouseID: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Bookmarked || out.Count != 0 {
			t.Fatalf("expected second toggle to unbookmark, got %+v", out)
		}
	})

	t.Run("Anonymous", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.BookmarkToggle(context.Background(), BookmarkToggleInput{HouseID: 10})

		wantBusinessCode(t, err, goerror.CodeUnauthorized)
	})

	t.Run("MissingListing", func(t *testing.T) {
		f := newFixture(t)
		f.repo.toggleErr = goerror.ErrNotFound

		_, err := f.uc.BookmarkToggle(asRole(5, "USER"), BookmarkToggleInput{HouseID: 10})

		wantBusinessCode(t, err, goerror.CodeNotFound)
	})
}

func TestInterestToggle(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.InterestToggle(asRole(5, "USER"), InterestToggleInput{HouseID: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Interested || out.Count != 1 {
		t.Fatalf("expected first toggle to mark interest, got %+v", out)
	}
}

func TestViewIncrement(t *testing.T) {
	t.Run("Counts", func(t *testing.T) {
		f := newFixture(t)
		f.repo.houses[10] = &entity.House{ID: 10}

		if err := f.uc.ViewIncrement(asRole(5, "USER"), ViewIncrementInput{HouseID: 10}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.repo.viewed) != 1 || f.repo.viewed[0] != 10 {
			t.Fatalf("expected house 10 viewed, got %v", f.repo.viewed)
		}
	})

	t.Run("MissingListing", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.ViewIncrement(asRole(5, "USER"), ViewIncrementInput{HouseID: 10})

		wantBusinessCode(t, err, goerror.CodeNotFound)
	})
}
