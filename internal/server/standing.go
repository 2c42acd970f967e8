package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	standingdomain "github.com/smallbiznis/parkwise/internal/standing/domain"
	"github.com/smallbiznis/parkwise/pkg/money"
)

type evaluateStandingRequest struct {
	UserID             string          `json:"user_id"`
	PenaltyCount       *int64          `json:"penalty_count"`
	UnpaidSessionCount int64           `json:"unpaid_session_count"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	ManualBlacklist    bool            `json:"manual_blacklist"`
}

type standingResponse struct {
	UserID             string `json:"user_id,omitempty"`
	PenaltyCount       int64  `json:"penalty_count"`
	UnpaidSessionCount int64  `json:"unpaid_session_count"`
	OutstandingBalance string `json:"outstanding_balance"`
	Standing           string `json:"standing"`
	Status             string `json:"status"`
}

func (s *Server) EvaluateStanding(c *gin.Context) {
	var req evaluateStandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	s.evaluate(c, standingdomain.EvaluateRequest{
		UserID:             strings.TrimSpace(req.UserID),
		PenaltyCount:       req.PenaltyCount,
		UnpaidSessionCount: req.UnpaidSessionCount,
		OutstandingBalance: req.OutstandingBalance,
		ManualBlacklist:    req.ManualBlacklist,
	})
}

// GetUserStanding evaluates a user against their recorded penalty history.
func (s *Server) GetUserStanding(c *gin.Context) {
	var query struct {
		UnpaidSessionCount string `form:"unpaid_session_count"`
		OutstandingBalance string `form:"outstanding_balance"`
		ManualBlacklist    string `form:"manual_blacklist"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := standingdomain.EvaluateRequest{UserID: strings.TrimSpace(c.Param("id"))}

	unpaid, err := parseOptionalInt64(query.UnpaidSessionCount)
	if err != nil {
		AbortWithError(c, newValidationError("unpaid_session_count", "invalid_unpaid_session_count", "invalid unpaid_session_count"))
		return
	}
	if unpaid != nil {
		req.UnpaidSessionCount = *unpaid
	}

	balance, err := parseOptionalDecimal(query.OutstandingBalance)
	if err != nil {
		AbortWithError(c, newValidationError("outstanding_balance", "invalid_outstanding_balance", "invalid outstanding_balance"))
		return
	}
	if balance != nil {
		req.OutstandingBalance = *balance
	}

	manual, err := parseOptionalBool(query.ManualBlacklist)
	if err != nil {
		AbortWithError(c, newValidationError("manual_blacklist", "invalid_manual_blacklist", "invalid manual_blacklist"))
		return
	}
	if manual != nil {
		req.ManualBlacklist = *manual
	}

	s.evaluate(c, req)
}

func (s *Server) evaluate(c *gin.Context, req standingdomain.EvaluateRequest) {
	decision, err := s.standing.Evaluate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": standingResponse{
		UserID:             decision.UserID,
		PenaltyCount:       decision.Counters.PenaltyCount,
		UnpaidSessionCount: decision.Counters.UnpaidSessionCount,
		OutstandingBalance: money.String(decision.Counters.OutstandingBalance),
		Standing:           string(decision.Standing),
		Status:             string(decision.Status),
	}})
}
