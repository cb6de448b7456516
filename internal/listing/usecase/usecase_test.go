package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/serikimmo/serik/internal/listing/entity"
	"github.com/serikimmo/serik/internal/pkg/clock"
	"github.com/serikimmo/serik/internal/pkg/config"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/idempotency"
	"github.com/serikimmo/serik/internal/pkg/instrument"
	"github.com/serikimmo/serik/internal/pkg/jwt"
	"github.com/serikimmo/serik/internal/pkg/rbac"
	"github.com/serikimmo/serik/internal/pkg/storage"
	"github.com/serikimmo/serik/internal/pkg/validator"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const testConfigYAML = `
modules:
  listing:
    image_bucket: serik-images
    image_base_url: https://cdn.serik.test
    image_max_size_bytes: 64
    temp_image_grace_minutes: 60
    sweep_lock_seconds: 30
`

// fakeGate authorizes from the claims in the context, with a fixed policy
// shaped like the seeded one: engage for everyone logged in, write for
// CREATOR and up, manage and sweep for ADMIN.
type fakeGate struct {
	objs []string
	acts []string
}

func (f *fakeGate) Authorize(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	f.objs = append(f.objs, obj)
	f.acts = append(f.acts, act)

	allowed := map[string]map[string]bool{
		"USER":    {rbac.ActionEngage: true},
		"CREATOR": {rbac.ActionEngage: true, rbac.ActionWrite: true},
		"ADMIN":   {rbac.ActionEngage: true, rbac.ActionWrite: true, rbac.ActionManage: true, rbac.ActionSweep: true},
	}
	if !allowed[clm.UserRole][act] {
		return nil, goerror.NewBusiness("You are not allowed to perform this action", goerror.CodeForbidden)
	}

	return clm, nil
}

func (f *fakeGate) AuthorizeOwner(ctx context.Context, ownerID int64, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	if clm.UserID == ownerID {
		return clm, nil
	}
	return f.Authorize(ctx, obj, act)
}

type fakeHouseRepo struct {
	houses  map[int64]*entity.House
	details map[int64]*entity.HouseDetail

	created []entity.NewHouse
	updated []entity.PatchHouse
	deleted []int64
	viewed  []int64

	bookmarkActive bool
	bookmarkCount  int64
	interestActive bool
	interestCount  int64

	toggleErr error
	failWith  error

	lastFilter entity.HouseFilter
	listTotal  int64
}

func newFakeHouseRepo() *fakeHouseRepo {
	return &fakeHouseRepo{
		houses:  map[int64]*entity.House{},
		details: map[int64]*entity.HouseDetail{},
	}
}

func (f *fakeHouseRepo) GetHouseByID(_ context.Context, id int64) (*entity.House, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	h, ok := f.houses[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return h, nil
}

func (f *fakeHouseRepo) GetHouseDetail(_ context.Context, id, viewerID int64) (*entity.HouseDetail, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	d, ok := f.details[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	// Viewer flags only light up for a known viewer.
	cp := *d
	if viewerID == 0 {
		cp.ViewerBookmark = false
		cp.ViewerInterest = false
	}
	return &cp, nil
}

func (f *fakeHouseRepo) GetHouseList(_ context.Context, filter entity.HouseFilter) ([]entity.House, int64, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	f.lastFilter = filter
	out := make([]entity.House, 0, len(f.houses))
	for _, h := range f.houses {
		out = append(out, *h)
	}
	return out, f.listTotal, nil
}

func (f *fakeHouseRepo) CreateHouse(_ context.Context, in entity.NewHouse) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.created = append(f.created, in)
	return nil
}

func (f *fakeHouseRepo) UpdateHouse(_ context.Context, in entity.PatchHouse) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.updated = append(f.updated, in)
	return nil
}

func (f *fakeHouseRepo) MarkHouseDeleted(_ context.Context, id, _ int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeHouseRepo) ToggleBookmark(_ context.Context, _, houseID int64) (bool, int64, error) {
	if f.toggleErr != nil {
		return false, 0, f.toggleErr
	}
	f.bookmarkActive = !f.bookmarkActive
	if f.bookmarkActive {
		f.bookmarkCount++
	} else {
		f.bookmarkCount--
	}
	return f.bookmarkActive, f.bookmarkCount, nil
}

func (f *fakeHouseRepo) ToggleInterest(_ context.Context, _, houseID int64) (bool, int64, error) {
	if f.toggleErr != nil {
		return false, 0, f.toggleErr
	}
	f.interestActive = !f.interestActive
	if f.interestActive {
		f.interestCount++
	} else {
		f.interestCount--
	}
	return f.interestActive, f.interestCount, nil
}

func (f *fakeHouseRepo) IncrementViewCount(_ context.Context, houseID int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.houses[houseID]; !ok {
		return goerror.ErrNotFound
	}
	f.viewed = append(f.viewed, houseID)
	return nil
}

type storedObject struct {
	key       string
	updatedAt time.Time
}

type fakeStorage struct {
	objects []storedObject
	puts    []string
	deleted []string
	putErr  error
	listErr error
}

func (f *fakeStorage) Close() error { return nil }

func (f *fakeStorage) PutObject(_ context.Context, _, key string, r io.Reader, _ storage.PutOptions) error {
	if f.putErr != nil {
		return f.putErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, _, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) ListObjects(_ context.Context, _, prefix string, _ storage.ListOptions) ([]storage.ObjectInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []storage.ObjectInfo{}
	for _, obj := range f.objects {
		out = append(out, storage.ObjectInfo{Key: obj.key, UpdatedAt: obj.updatedAt})
	}
	return out, nil
}

type fakeIdemp struct {
	keys []string
	err  error
}

func (f *fakeIdemp) Acquire(context.Context, string, time.Duration) (idempotency.State, error) {
	return idempotency.StateNone, nil
}

func (f *fakeIdemp) MarkCompleted(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) MarkFailed(context.Context, string, time.Duration) error { return nil }

func (f *fakeIdemp) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct{ value string }

func (f *fakeStringID) Generate() string { return f.value }

type fixture struct {
	uc      *Usecase
	repo    *fakeHouseRepo
	gate    *fakeGate
	storage *fakeStorage
	idemp   *fakeIdemp
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}

	f := &fixture{
		repo:    newFakeHouseRepo(),
		gate:    &fakeGate{},
		storage: &fakeStorage{},
		idemp:   &fakeIdemp{},
	}

	f.uc = New(Dependency{
		RepoDB:      f.repo,
		Gate:        f.gate,
		Storage:     f.storage,
		Idempotency: f.idemp,
		Validator:   v,
		Config:      cfg,
		UID:         &fakeNumberID{},
		UUID:        &fakeStringID{value: "0b5fe2a1"},
		Clock:       clock.Static{T: testNow},
		Instrument:  instrument.NewNoop(),
	})

	return f
}

func asRole(userID int64, role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, UserRole: role})
}

func wantBusinessCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if gerr.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, gerr.Code(), err)
	}
}
