package service

import (
	"slices"
	"strings"

	"github.com/smallbiznis/parkwise/internal/config"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
	tariffdomain "github.com/smallbiznis/parkwise/internal/tariff/domain"
)

// catalog reads tariffs from the live policy, so a reloaded policy.yml
// takes effect on the next lookup.
type catalog struct {
	policy config.PolicyProvider
}

func NewCatalog(policy config.PolicyProvider) tariffdomain.Catalog {
	return &catalog{policy: policy}
}

func (c *catalog) Get(zoneType string) (pricingdomain.Tariff, error) {
	zone := strings.ToUpper(strings.TrimSpace(zoneType))
	t, ok := c.policy.Get().Tariffs[zone]
	if !ok {
		return pricingdomain.Tariff{}, tariffdomain.ErrTariffNotFound
	}
	return t, nil
}

func (c *catalog) List() []pricingdomain.Tariff {
	tariffs := c.policy.Get().Tariffs
	out := make([]pricingdomain.Tariff, 0, len(tariffs))
	for _, t := range tariffs {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b pricingdomain.Tariff) int {
		return strings.Compare(a.ZoneType, b.ZoneType)
	})
	return out
}
