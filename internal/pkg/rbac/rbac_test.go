package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/jwt"
)

func newTestGate(t *testing.T) *Gate {
	t.Helper()

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		t.Fatalf("failed to build model: %v", err)
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatalf("failed to build enforcer: %v", err)
	}

	for _, p := range defaultPolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			t.Fatalf("failed to add policy %v: %v", p, err)
		}
	}
	for _, g := range defaultGroupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			t.Fatalf("failed to add grouping %v: %v", g, err)
		}
	}

	return NewGate(e)
}

func authCtx(userID int64, role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID, UserRole: role})
}

func wantCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected goerror, got %v", err)
	}
	if gerr.Code() != code {
		t.Fatalf("expected code %s, got %s", code, gerr.Code())
	}
}

func TestGateAuthorize(t *testing.T) {
	gate := newTestGate(t)

	t.Run("NoClaims", func(t *testing.T) {
		_, err := gate.Authorize(context.Background(), ObjectHouses, ActionEngage)
		wantCode(t, err, goerror.CodeUnauthorized)
	})

	tests := []struct {
		name    string
		role    string
		obj     string
		act     string
		allowed bool
	}{
		{name: "UserCanEngage", role: "USER", obj: ObjectHouses, act: ActionEngage, allowed: true},
		{name: "UserCannotWrite", role: "USER", obj: ObjectHouses, act: ActionWrite, allowed: false},
		{name: "UserCannotManage", role: "USER", obj: ObjectHouses, act: ActionManage, allowed: false},
		{name: "CreatorCanWrite", role: "CREATOR", obj: ObjectHouses, act: ActionWrite, allowed: true},
		{name: "CreatorInheritsEngage", role: "CREATOR", obj: ObjectHouses, act: ActionEngage, allowed: true},
		{name: "CreatorCannotManage", role: "CREATOR", obj: ObjectHouses, act: ActionManage, allowed: false},
		{name: "AdminCanManage", role: "ADMIN", obj: ObjectHouses, act: ActionManage, allowed: true},
		{name: "AdminInheritsWrite", role: "ADMIN", obj: ObjectHouses, act: ActionWrite, allowed: true},
		{name: "AdminCanEditTemplates", role: "ADMIN", obj: ObjectTemplates, act: ActionWrite, allowed: true},
		{name: "AdminCanSweepImages", role: "ADMIN", obj: ObjectHouseImages, act: ActionSweep, allowed: true},
		{name: "CreatorCannotEditTemplates", role: "CREATOR", obj: ObjectTemplates, act: ActionWrite, allowed: false},
		{name: "SuperadminInheritsEverything", role: "SUPERADMIN", obj: ObjectHouseImages, act: ActionSweep, allowed: true},
		{name: "UnknownRoleIsRejected", role: "VISITOR", obj: ObjectHouses, act: ActionEngage, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clm, err := gate.Authorize(authCtx(7, tt.role), tt.obj, tt.act)

			if tt.allowed {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				if clm == nil || clm.UserID != 7 {
					t.Fatalf("expected claims with user id 7, got %+v", clm)
				}
				return
			}

			wantCode(t, err, goerror.CodeForbidden)
		})
	}
}

func TestGateAuthorizeOwner(t *testing.T) {
	gate := newTestGate(t)

	t.Run("OwnerPassesWithoutRole", func(t *testing.T) {
		clm, err := gate.AuthorizeOwner(authCtx(42, "USER"), 42, ObjectHouses, ActionManage)
		if err != nil {
			t.Fatalf("expected owner to pass, got %v", err)
		}
		if clm.UserID != 42 {
			t.Fatalf("expected claims with user id 42, got %+v", clm)
		}
	})

	t.Run("NonOwnerFallsBackToRole", func(t *testing.T) {
		_, err := gate.AuthorizeOwner(authCtx(42, "CREATOR"), 99, ObjectHouses, ActionManage)
		wantCode(t, err, goerror.CodeForbidden)
	})

	t.Run("AdminEditsForeignResource", func(t *testing.T) {
		if _, err := gate.AuthorizeOwner(authCtx(42, "ADMIN"), 99, ObjectHouses, ActionManage); err != nil {
			t.Fatalf("expected admin to pass, got %v", err)
		}
	})

	t.Run("NoClaims", func(t *testing.T) {
		_, err := gate.AuthorizeOwner(context.Background(), 42, ObjectHouses, ActionManage)
		wantCode(t, err, goerror.CodeUnauthorized)
	})
}
