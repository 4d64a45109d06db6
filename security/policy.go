// Package security decides whether a caller may run an operation. Policies
// are ordered rules built from small predicates and are evaluated before the
// operation touches the store.
package security

import (
	"slices"

	"catalog/apierr"
	"catalog/models"
)

const OwnerOnlyMessage = "This object can only be updated by owner"

// Caller is an authenticated principal. A nil *Caller is anonymous.
type Caller struct {
	UserID uint
	Email  string
	Roles  []string
}

func NewCaller(u *models.User) *Caller {
	return &Caller{UserID: u.ID, Email: u.Email, Roles: u.GrantedRoles()}
}

func (c *Caller) HasRole(role string) bool {
	if c == nil {
		return false
	}
	if slices.Contains(c.Roles, role) {
		return true
	}
	return role == models.RoleUser && slices.Contains(c.Roles, models.RoleAdmin)
}

// Owned is implemented by resources with an owner.
type Owned interface {
	OwnedBy(userID uint) bool
}

// Predicate reports whether caller may act on subject. subject is nil for
// collection and create operations.
type Predicate func(caller *Caller, subject Owned) bool

func HasRole(role string) Predicate {
	return func(caller *Caller, _ Owned) bool {
		return caller.HasRole(role)
	}
}

func IsOwner() Predicate {
	return func(caller *Caller, subject Owned) bool {
		return caller != nil && subject != nil && subject.OwnedBy(caller.UserID)
	}
}

type Rule struct {
	Allow   Predicate
	Message string
}

// Policy is satisfied when every rule allows. An empty policy lets anyone
// through, including anonymous callers.
type Policy []Rule

// Authenticate fails for an anonymous caller unless the policy is empty.
// Item operations call it before loading the subject.
func (p Policy) Authenticate(caller *Caller) error {
	if len(p) > 0 && caller == nil {
		return apierr.Unauthenticated()
	}
	return nil
}

func (p Policy) Check(caller *Caller, subject Owned) error {
	if len(p) == 0 {
		return nil
	}
	if err := p.Authenticate(caller); err != nil {
		return err
	}
	for _, rule := range p {
		if !rule.Allow(caller, subject) {
			return apierr.Forbidden(rule.Message)
		}
	}
	return nil
}

func RequireRole(role string) Rule {
	return Rule{Allow: HasRole(role)}
}

var (
	ProductList    = Policy{RequireRole(models.RoleUser)}
	ProductGet     = Policy{RequireRole(models.RoleUser)}
	ProductCreate  = Policy{RequireRole(models.RoleAdmin)}
	ProductReplace = Policy{RequireRole(models.RoleAdmin)}
	ProductUpdate  = Policy{
		RequireRole(models.RoleAdmin),
		{Allow: IsOwner(), Message: OwnerOnlyMessage},
	}

	Manufacturers = Policy{}
)
