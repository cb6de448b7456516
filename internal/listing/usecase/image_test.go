package usecase

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
)

func TestImageUpload(t *testing.T) {
	t.Run("StoresUnderTempPrefix", func(t *testing.T) {
		f := newFixture(t)

		out, err := f.uc.ImageUpload(asRole(7, "CREATOR"), ImageUploadInput{
			File:        bytes.NewReader([]byte("jpeg bytes")),
			ContentType: "image/jpeg",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Key != "temp/0b5fe2a1.jpg" {
			t.Fatalf("unexpected key %q", out.Key)
		}
		if out.URL != "https://cdn.serik.test/temp/0b5fe2a1.jpg" {
			t.Fatalf("unexpected url %q", out.URL)
		}
		if len(f.storage.puts) != 1 {
			t.Fatalf("expected one stored object, got %d", len(f.storage.puts))
		}
	})

	t.Run("RejectsUnknownContentType", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.ImageUpload(asRole(7, "CREATOR"), ImageUploadInput{
			File:        bytes.NewReader([]byte("gif bytes")),
			ContentType: "image/gif",
		})

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("RejectsOversizedFile", func(t *testing.T) {
		f := newFixture(t)

		// The fixture config caps images at 64 bytes.
		_, err := f.uc.ImageUpload(asRole(7, "CREATOR"), ImageUploadInput{
			File:        strings.NewReader(strings.Repeat("x", 200)),
			ContentType: "image/png",
		})

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("PlainUserCannotUpload", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.ImageUpload(asRole(7, "USER"), ImageUploadInput{
			File:        bytes.NewReader([]byte("jpeg bytes")),
			ContentType: "image/jpeg",
		})

		wantBusinessCode(t, err, goerror.CodeForbidden)
	})
}

func TestImageDelete(t *testing.T) {
	t.Run("DeletesNormalizedKey", func(t *testing.T) {
		f := newFixture(t)

		if err := f.uc.ImageDelete(asRole(7, "ADMIN"), ImageDeleteInput{Key: "/houses/10/a.jpg"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(f.storage.deleted) != 1 || f.storage.deleted[0] != "houses/10/a.jpg" {
			t.Fatalf("unexpected deletes %v", f.storage.deleted)
		}
	})

	t.Run("RejectsTraversal", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.ImageDelete(asRole(7, "ADMIN"), ImageDeleteInput{Key: "../secrets"})

		wantBusinessCode(t, err, goerror.CodeInvalidInput)
	})

	t.Run("RequiresManage", func(t *testing.T) {
		f := newFixture(t)

		err := f.uc.ImageDelete(asRole(7, "CREATOR"), ImageDeleteInput{Key: "houses/10/a.jpg"})

		wantBusinessCode(t, err, goerror.CodeForbidden)
	})
}

func TestTempImageSweep(t *testing.T) {
	t.Run("DeletesOnlyPastGrace", func(t *testing.T) {
		f := newFixture(t)
		f.storage.objects = []storedObject{
			{key: "temp/old1.jpg", updatedAt: testNow.Add(-2 * time.Hour)},
			{key: "temp/old2.png", updatedAt: testNow.Add(-61 * time.Minute)},
			{key: "temp/fresh.jpg", updatedAt: testNow.Add(-5 * time.Minute)},
		}

		out, err := f.uc.TempImageSweep(asRole(1, "ADMIN"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.Deleted != 2 {
			t.Fatalf("expected 2 deletions, got %d", out.Deleted)
		}
		for _, key := range f.storage.deleted {
			if key == "temp/fresh.jpg" {
				t.Fatalf("fresh upload must survive the sweep")
			}
		}
	})

	t.Run("ConcurrentSweepAbsorbed", func(t *testing.T) {
		f := newFixture(t)
		f.idemp.err = idempotency.ErrAlreadyInProgress

		out, err := f.uc.TempImageSweep(asRole(1, "ADMIN"))
		if err != nil {
			t.Fatalf("expected absorbed sweep to succeed, got %v", err)
		}
		if out.Deleted != 0 {
			t.Fatalf("expected no deletions, got %d", out.Deleted)
		}
		if len(f.idemp.keys) != 1 || f.idemp.keys[0] != "listing:temp_sweep" {
			t.Fatalf("unexpected idempotency keys %v", f.idemp.keys)
		}
	})

	t.Run("RequiresSweepPermission", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.TempImageSweep(asRole(1, "CREATOR"))

		wantBusinessCode(t, err, goerror.CodeForbidden)
	})
}
