package security

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/apierr"
	"catalog/models"
)

func ownedBy(id uint) *models.Product {
	return &models.Product{ID: 1, OwnerID: &id}
}

func TestNewCaller_GrantsRoleUser(t *testing.T) {
	c := NewCaller(&models.User{ID: 3, Email: "a@example.com", Roles: []string{models.RoleAdmin}})
	assert.True(t, c.HasRole(models.RoleUser))
	assert.True(t, c.HasRole(models.RoleAdmin))

	plain := NewCaller(&models.User{ID: 4})
	assert.True(t, plain.HasRole(models.RoleUser))
	assert.False(t, plain.HasRole(models.RoleAdmin))

	var anonymous *Caller
	assert.False(t, anonymous.HasRole(models.RoleUser))
}

func TestPolicies(t *testing.T) {
	admin := &Caller{UserID: 1, Roles: []string{models.RoleUser, models.RoleAdmin}}
	otherAdmin := &Caller{UserID: 2, Roles: []string{models.RoleUser, models.RoleAdmin}}
	user := &Caller{UserID: 1, Roles: []string{models.RoleUser}}

	tests := []struct {
		name    string
		policy  Policy
		caller  *Caller
		subject Owned
		kind    apierr.Kind
		message string
	}{
		{name: "list as user", policy: ProductList, caller: user},
		{name: "list anonymous", policy: ProductList, kind: apierr.KindAuthentication, message: apierr.MessageInvalidCredentials},
		{name: "get as user", policy: ProductGet, caller: user, subject: ownedBy(9)},
		{name: "create as admin", policy: ProductCreate, caller: admin},
		{name: "create as user", policy: ProductCreate, caller: user, kind: apierr.KindAuthorization, message: apierr.MessageAccessDenied},
		{name: "replace as user", policy: ProductReplace, caller: user, subject: ownedBy(1), kind: apierr.KindAuthorization, message: apierr.MessageAccessDenied},
		{name: "update as owning admin", policy: ProductUpdate, caller: admin, subject: ownedBy(1)},
		{name: "update as other admin", policy: ProductUpdate, caller: otherAdmin, subject: ownedBy(1), kind: apierr.KindAuthorization, message: OwnerOnlyMessage},
		{name: "update as owner without admin", policy: ProductUpdate, caller: user, subject: ownedBy(1), kind: apierr.KindAuthorization, message: apierr.MessageAccessDenied},
		{name: "update ownerless product", policy: ProductUpdate, caller: admin, subject: &models.Product{ID: 5}, kind: apierr.KindAuthorization, message: OwnerOnlyMessage},
		{name: "manufacturers anonymous", policy: Manufacturers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Check(tt.caller, tt.subject)
			if tt.kind == 0 {
				assert.NoError(t, err)
				return
			}
			var apiErr *apierr.Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.kind, apiErr.Kind)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestPolicy_Authenticate(t *testing.T) {
	user := &Caller{UserID: 1, Roles: []string{models.RoleUser}}

	var apiErr *apierr.Error
	require.True(t, errors.As(ProductGet.Authenticate(nil), &apiErr))
	assert.Equal(t, apierr.KindAuthentication, apiErr.Kind)

	assert.NoError(t, ProductGet.Authenticate(user))
	// Role rules are left to Check.
	assert.NoError(t, ProductUpdate.Authenticate(user))
	assert.NoError(t, Manufacturers.Authenticate(nil))
}
