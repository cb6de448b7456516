// Package rbac is the single authorization chokepoint. Every role-gated
// operation asks the Gate, which answers from a Casbin enforcer backed by
// Postgres and kept in sync across replicas through LISTEN/NOTIFY.
package rbac

import (
	"context"

	"github.com/casbin/casbin/v3"
	"github.com/serikimmo/serik/internal/pkg/goerror"
	"github.com/serikimmo/serik/internal/pkg/jwt"
)

// Objects the policy speaks about.
const (
	ObjectHouses      = "houses"
	ObjectHouseImages = "house_images"
	ObjectTemplates   = "templates"
)

// Actions the policy speaks about.
const (
	// ActionEngage covers bookmarking, interest marks and view counting.
	ActionEngage = "engage"
	// ActionWrite covers creating and editing owned resources.
	ActionWrite = "write"
	// ActionManage covers editing resources regardless of ownership.
	ActionManage = "manage"
	// ActionSweep covers the storage cleanup operation.
	ActionSweep = "sweep"
)

// Authorizer is the interface use cases depend on.
type Authorizer interface {
	// Authorize returns the caller's claims when the caller holds a role
	// permitted to perform act on obj.
	Authorize(ctx context.Context, obj, act string) (*jwt.Claims, error)
	// AuthorizeOwner behaves like Authorize, except a caller who owns the
	// resource passes without a role check.
	AuthorizeOwner(ctx context.Context, ownerID int64, obj, act string) (*jwt.Claims, error)
}

// Gate implements Authorizer on a Casbin enforcer.
type Gate struct {
	enforcer *casbin.Enforcer
}

// NewGate creates a Gate.
func NewGate(enforcer *casbin.Enforcer) *Gate {
	return &Gate{enforcer: enforcer}
}

// Authorize distinguishes the missing caller from the disallowed one: no
// claims in the context is an authentication failure, a role the policy
// rejects is an authorization failure.
func (g *Gate) Authorize(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	claims := jwt.GetAuth(ctx)
	if claims == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	allowed, err := g.enforcer.Enforce(claims.UserRole, obj, act)
	if err != nil {
		return nil, goerror.NewServer(err)
	}
	if !allowed {
		return nil, goerror.NewBusiness("You are not allowed to perform this action", goerror.CodeForbidden)
	}

	return claims, nil
}

// AuthorizeOwner lets the owner through, then falls back to the role check
// so admins can act on resources they do not own.
func (g *Gate) AuthorizeOwner(ctx context.Context, ownerID int64, obj, act string) (*jwt.Claims, error) {
	claims := jwt.GetAuth(ctx)
	if claims == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	if claims.UserID == ownerID {
		return claims, nil
	}

	return g.Authorize(ctx, obj, act)
}
