package http

import (
	"net/http"

	"goldvault-backend/internal/domain/user"
	"goldvault-backend/internal/usecase/account"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct{ uc *account.Usecase }

func NewAccountHandler(uc *account.Usecase) *AccountHandler { return &AccountHandler{uc: uc} }

type reviewFormReq struct {
	Decision        string `json:"decision"         validate:"required"`
	RejectionReason string `json:"rejection_reason" validate:"max=1000"`
}

// Me returns the caller and the portal area they are routed to.
func (h *AccountHandler) Me(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	return c.JSON(http.StatusOK, h.uc.Profile(u))
}

func (h *AccountHandler) SubmitForm(c echo.Context) error {
	u := CurrentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	var form user.FormData
	if err := c.Bind(&form); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&form); err != nil {
		return validationFailed(c, err)
	}
	updated, err := h.uc.SubmitForm(c.Request().Context(), u.UserID, form)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.uc.Profile(updated))
}

func (h *AccountHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

func (h *AccountHandler) ListPendingForms(c echo.Context) error {
	users, err := h.uc.ListPendingForms(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(users))
}

func (h *AccountHandler) ReviewForm(c echo.Context) error {
	userID := c.Param("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing user_id path param"})
	}
	var req reviewFormReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	updated, err := h.uc.ReviewForm(c.Request().Context(), account.ReviewInput{
		ReviewerID:      CurrentUserID(c),
		UserID:          userID,
		Decision:        req.Decision,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
