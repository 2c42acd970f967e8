package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	penaltydomain "github.com/smallbiznis/parkwise/internal/penalty/domain"
	"github.com/smallbiznis/parkwise/pkg/db/pagination"
	"github.com/smallbiznis/parkwise/pkg/money"
)

type penaltyQuoteRequest struct {
	Overstayed bool  `json:"overstayed"`
	ExtraHours int64 `json:"extra_hours"`
	LostTicket bool  `json:"lost_ticket"`
	ZoneMisuse bool  `json:"zone_misuse"`
}

type recordPenaltyRequest struct {
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	OccurredAt *time.Time      `json:"occurred_at"`
}

type penaltyResponse struct {
	Type      string    `json:"type"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

type recordPenaltyResponse struct {
	UserID      string          `json:"user_id"`
	Penalty     penaltyResponse `json:"penalty"`
	Status      string          `json:"status"`
	WindowCount int             `json:"window_count"`
}

type penaltySummaryResponse struct {
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
	Total  string `json:"total"`
}

func (s *Server) QuotePenalty(c *gin.Context) {
	var req penaltyQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.penaltySvc.Assess(c.Request.Context(), penaltydomain.Violations{
		Overstayed: req.Overstayed,
		ExtraHours: req.ExtraHours,
		LostTicket: req.LostTicket,
		ZoneMisuse: req.ZoneMisuse,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": newItemizedPenaltyResponse(items)})
}

func (s *Server) RecordPenalty(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))

	var req recordPenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	occurredAt := s.clock.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	p, err := penaltydomain.NewPenalty(
		penaltydomain.PenaltyType(strings.ToUpper(strings.TrimSpace(req.Type))),
		req.Amount,
		occurredAt,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	res, err := s.penaltySvc.Record(c.Request.Context(), userID, p)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": recordPenaltyResponse{
		UserID:      res.UserID,
		Penalty:     newPenaltyResponse(res.Penalty),
		Status:      string(res.Status),
		WindowCount: res.WindowCount,
	}})
}

func (s *Server) ListPenalties(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, newValidationError("page_size", "invalid_page_size", "invalid page_size"))
		return
	}

	resp, err := s.penaltySvc.ListPenalties(c.Request.Context(), userID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	items := make([]penaltyResponse, 0, len(resp.Items))
	for _, p := range resp.Items {
		items = append(items, newPenaltyResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "page_info": resp.PageInfo})
}

func (s *Server) GetPenaltySummary(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))

	summary, err := s.penaltySvc.History(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": penaltySummaryResponse{
		UserID: summary.UserID,
		Count:  summary.Count,
		Total:  money.String(summary.Total),
	}})
}

func newPenaltyResponse(p penaltydomain.Penalty) penaltyResponse {
	return penaltyResponse{
		Type:      string(p.Type),
		Amount:    money.String(p.Amount),
		Timestamp: p.Timestamp.UTC(),
	}
}

func newItemizedPenaltyResponse(i penaltydomain.Itemized) itemizedPenaltyResponse {
	return itemizedPenaltyResponse{
		Overstay:   money.String(i.Overstay),
		LostTicket: money.String(i.LostTicket),
		Misuse:     money.String(i.Misuse),
		Total:      money.String(i.Total),
	}
}
