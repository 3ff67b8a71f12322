// Package access resolves what a role may do and which rows it may see. Each
// role maps to a fixed Policy resolved once at request time; services apply
// the resulting Scope to every query so the authorization boundary holds at
// the data-access layer, not only in the UI.
package access

import (
	"context"

	"github.com/clubatlas/club-adm-api/internal/models"
	appErrors "github.com/clubatlas/club-adm-api/pkg/errors"
)

// Policy is the permission tuple attached to a role.
type Policy struct {
	CanCreate  bool
	CanEdit    bool
	CanDelete  bool
	CanViewAll bool
}

var policies = map[models.UserRole]Policy{
	models.RoleAdmin:    {CanCreate: true, CanEdit: true, CanDelete: true, CanViewAll: true},
	models.RoleCoach:    {CanCreate: true, CanEdit: false, CanDelete: false, CanViewAll: true},
	models.RolePlayer:   {CanCreate: true, CanEdit: false, CanDelete: false, CanViewAll: false},
	models.RoleGuardian: {CanCreate: false, CanEdit: false, CanDelete: false, CanViewAll: false},
}

// PolicyFor returns the permission tuple for a role. Unknown roles get the
// empty (deny-all) policy.
func PolicyFor(role models.UserRole) Policy {
	return policies[role]
}

// Scope narrows queries to the rows a principal may read. An empty PlayerID
// with ViewAll set means unrestricted.
type Scope struct {
	Role     models.UserRole
	UserID   string
	PlayerID string
	ViewAll  bool
}

// AllowsPlayer reports whether the scope may read the given player's rows.
func (s Scope) AllowsPlayer(playerID string) bool {
	if s.ViewAll {
		return true
	}
	return s.PlayerID != "" && s.PlayerID == playerID
}

type playerResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.PlayerDetail, error)
}

type guardianResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.GuardianDetail, error)
}

// Resolver turns authenticated claims into a concrete Scope. Player and
// guardian principals require a profile lookup to pin the scope to a player.
type Resolver struct {
	players   playerResolver
	guardians guardianResolver
}

// NewResolver constructs a Resolver.
func NewResolver(players playerResolver, guardians guardianResolver) *Resolver {
	return &Resolver{players: players, guardians: guardians}
}

// Resolve computes the data scope for the given claims.
func (r *Resolver) Resolve(ctx context.Context, claims *models.JWTClaims) (Scope, error) {
	scope := Scope{Role: claims.Role, UserID: claims.UserID, ViewAll: PolicyFor(claims.Role).CanViewAll}

	switch claims.Role {
	case models.RoleAdmin, models.RoleCoach:
	case models.RolePlayer:
		profile, err := r.players.FindByUserID(ctx, claims.UserID)
		if err != nil {
			return Scope{}, appErrors.Clone(appErrors.ErrForbidden, "no player profile for user")
		}
		scope.PlayerID = profile.ID
	case models.RoleGuardian:
		profile, err := r.guardians.FindByUserID(ctx, claims.UserID)
		if err != nil {
			return Scope{}, appErrors.Clone(appErrors.ErrForbidden, "no guardian profile for user")
		}
		scope.PlayerID = profile.PlayerID
	default:
		return Scope{}, appErrors.ErrForbidden
	}

	return scope, nil
}
