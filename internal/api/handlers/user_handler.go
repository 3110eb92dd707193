package handlers

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/internal/api/presenters"
	"Receipt-Tracker/pkg/receipt"
	"Receipt-Tracker/pkg/user"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		UserData(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
	}

	userHandler struct {
		userService    user.UserService
		receiptService receipt.ReceiptService
		validator      *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, receiptService receipt.ReceiptService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService:    userService,
		receiptService: receiptService,
		validator:      validator,
	}
}

// UserData exchanges Telegram launch data for the profile, the user's receipts and
// an access token.
func (h *userHandler) UserData(c *fiber.Ctx) error {
	req := new(domain.UserDataRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUserData, err)
	}

	profile, token, err := h.userService.Authenticate(c.Context(), req.UserData)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageInvalidInitData, err)
	}

	receipts, err := h.receiptService.GetReceipts(c.Context(), profile.ID, domain.ReceiptFilter{})
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetUserData, err)
	}

	return presenters.SuccessResponse(c, domain.UserDataResponse{
		UserProfile:  profile,
		UserReceipts: receipts,
		AccessToken:  token,
	}, fiber.StatusOK, domain.MessageSuccessGetUserData)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetUserData, err)
	}

	return presenters.SuccessResponse(c, profile, fiber.StatusOK, domain.MessageSuccessGetUserData)
}
