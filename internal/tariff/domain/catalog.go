// Package domain defines the zone tariff catalog.
package domain

import (
	"github.com/smallbiznis/parkwise/internal/errs"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
)

var ErrTariffNotFound = errs.New(errs.ErrInvalidInput, "tariff_not_found")

// Catalog resolves the tariff of a parking zone type.
type Catalog interface {
	Get(zoneType string) (pricingdomain.Tariff, error)
	// List returns every configured tariff ordered by zone type.
	List() []pricingdomain.Tariff
}
