package checkout

import (
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/validation"
)

// ValidationError lists the fields that failed, keyed by JSON name.
type ValidationError = validation.Error

// ValidateAddress checks the shipping form. State is optional.
func ValidateAddress(a model.Address) error {
	return validation.Struct(a)
}
