// Package repository reads and writes catalog entities through GORM. Store
// failures leave this package already translated into apierr kinds.
package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"catalog/apierr"
)

// translate maps store errors onto the API taxonomy. relation names the
// attribute blamed for a foreign key failure.
func translate(err error, relation string) error {
	var apiErr *apierr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &apiErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apierr.NotFound(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apierr.InvalidField(relation, "Item not found.")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierr.InvalidField(relation, "This value is already used.")
	}
	return fmt.Errorf("store: %w", err)
}

func manufacturerNotFound(id uint) error {
	return apierr.InvalidField("manufacturer", fmt.Sprintf("Item not found for manufacturer %d.", id))
}
