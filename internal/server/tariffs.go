package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	pricingdomain "github.com/smallbiznis/parkwise/internal/pricing/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
)

type tariffResponse struct {
	ZoneType                         string  `json:"zone_type"`
	BaseHourlyRate                   string  `json:"base_hourly_rate"`
	DailyCap                         *string `json:"daily_cap,omitempty"`
	OvernightFlatRateEnabled         bool    `json:"overnight_flat_rate_enabled"`
	OvernightFlatRate                *string `json:"overnight_flat_rate,omitempty"`
	WeekendOrHolidaySurchargePercent string  `json:"weekend_or_holiday_surcharge_percent"`
}

func (s *Server) ListTariffs(c *gin.Context) {
	tariffs := s.tariffs.List()
	out := make([]tariffResponse, 0, len(tariffs))
	for _, t := range tariffs {
		out = append(out, newTariffResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func newTariffResponse(t pricingdomain.Tariff) tariffResponse {
	resp := tariffResponse{
		ZoneType:                         t.ZoneType,
		BaseHourlyRate:                   money.String(t.BaseHourlyRate),
		OvernightFlatRateEnabled:         t.OvernightFlatRateEnabled,
		WeekendOrHolidaySurchargePercent: t.WeekendOrHolidaySurchargePercent.String(),
	}
	if t.DailyCap != nil {
		v := money.String(*t.DailyCap)
		resp.DailyCap = &v
	}
	if t.OvernightFlatRate != nil {
		v := money.String(*t.OvernightFlatRate)
		resp.OvernightFlatRate = &v
	}
	return resp
}
