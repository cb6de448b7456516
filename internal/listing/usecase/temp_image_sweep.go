package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
	"github.com/serikimmo/serik/internal/pkg/rbac"
	"github.com/serikimmo/serik/internal/pkg/storage"
)

type TempImageSweepOutput struct {
	Deleted int
}

// TempImageSweep deletes temp uploads older than the grace period. The
// caller triggers it, typically from a scheduler. Concurrent sweeps are
// harmless because deletes of already-deleted keys succeed, but the
// idempotency guard still collapses simultaneous triggers into one pass.
func (s *Usecase) TempImageSweep(ctx context.Context) (*TempImageSweepOutput, error) {
	ctx, span := s.startSpan(ctx, "TempImageSweep")
	defer span.End()

	if _, err := s.gate.Authorize(ctx, rbac.ObjectHouseImages, rbac.ActionSweep); err != nil {
		return nil, err
	}

	out := &TempImageSweepOutput{}
	err := s.idemp.Exec(ctx, "listing:temp_sweep", func(ctx context.Context) error {
		deleted, err := s.sweep(ctx)
		out.Deleted = deleted
		return err
	}, idempotency.WithLockDuration(s.cfg.GetSecond("modules.listing.sweep_lock_seconds")))
	if errors.Is(err, idempotency.ErrAlreadyInProgress) || errors.Is(err, idempotency.ErrAlreadyCompleted) {
		slog.WarnContext(ctx, "temp image sweep already running")
		return out, nil
	}
	if err != nil {
		return nil, goerror.NewServer(err)
	}

	return out, nil
}

func (s *Usecase) sweep(ctx context.Context) (int, error) {
	bucket := strings.TrimSpace(s.cfg.GetString("modules.listing.image_bucket"))
	grace := s.cfg.GetMinute("modules.listing.temp_image_grace_minutes")
	cutoff := s.clock.Now().Add(-grace)

	deleted := 0
	token := ""
	for {
		objects, err := s.storage.ListObjects(ctx, bucket, TempImagePrefix, storage.ListOptions{
			Limit: 1000,
			Token: token,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to list temp images", "error", err)
			return deleted, err
		}
		if len(objects) == 0 {
			break
		}

		for _, obj := range objects {
			if obj.UpdatedAt.After(cutoff) {
				continue
			}
			if err := s.storage.DeleteObject(ctx, bucket, obj.Key); err != nil {
				slog.WarnContext(ctx, "failed to delete temp image", "key", obj.Key, "error", err)
				continue
			}
			deleted++
		}

		// The storage interface pages by limit; fewer results than the
		// limit means the listing is exhausted.
		if len(objects) < 1000 {
			break
		}
		token = objects[len(objects)-1].Key
	}

	slog.InfoContext(ctx, "temp image sweep finished", "deleted", deleted)
	return deleted, nil
}
