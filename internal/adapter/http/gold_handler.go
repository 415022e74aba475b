package http

import (
	"net/http"

	"goldvault-backend/internal/domain/user"
	"goldvault-backend/internal/infrastructure/metrics"
	"goldvault-backend/internal/usecase/gold"

	"github.com/labstack/echo/v4"
)

type GoldHandler struct {
	uc      *gold.Usecase
	metrics *metrics.Metrics
}

func NewGoldHandler(uc *gold.Usecase, m *metrics.Metrics) *GoldHandler {
	return &GoldHandler{uc: uc, metrics: m}
}

type setHoldingsReq struct {
	TotalGold     *float64 `json:"total_gold"     validate:"omitempty,dec3"`
	GoldInSafe    *float64 `json:"gold_in_safe"   validate:"omitempty,dec3"`
	GoldMortgaged *float64 `json:"gold_mortgaged" validate:"omitempty,dec3"`
}

type depositReq struct {
	Amount float64 `json:"amount" validate:"dec3"`
}

func (h *GoldHandler) GetHoldings(c echo.Context) error {
	userID := c.Param("user_id")
	if !selfOrAdmin(c, userID) {
		return forbidden(c)
	}
	hs, err := h.uc.GetHoldings(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hs)
}

// SetHoldings applies an admin correction. Omitted fields are rebalanced.
func (h *GoldHandler) SetHoldings(c echo.Context) error {
	var req setHoldingsReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	hs, err := h.uc.SetHoldings(c.Request().Context(), c.Param("user_id"), user.HoldingsPatch{
		TotalGold:     req.TotalGold,
		GoldInSafe:    req.GoldInSafe,
		GoldMortgaged: req.GoldMortgaged,
	})
	h.metrics.GoldMutation("set", err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hs)
}

func (h *GoldHandler) Deposit(c echo.Context) error {
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	hs, err := h.uc.AddGoldToSafe(c.Request().Context(), c.Param("user_id"), req.Amount)
	h.metrics.GoldMutation("deposit", err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hs)
}

func (h *GoldHandler) Audit(c echo.Context) error {
	rep, err := h.uc.Audit(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
