package handlers

import (
	"Receipt-Tracker/domain"
	"Receipt-Tracker/internal/api/presenters"
	"Receipt-Tracker/pkg/receipt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReceiptHandler interface {
		ProcessReceipt(c *fiber.Ctx) error
		GetReceipts(c *fiber.Ctx) error
		GetReceipt(c *fiber.Ctx) error
		ConfirmReceipt(c *fiber.Ctx) error
		UploadReceiptImage(c *fiber.Ctx) error
		GetCategoryStats(c *fiber.Ctx) error
	}

	receiptHandler struct {
		receiptService receipt.ReceiptService
		validator      *validator.Validate
	}
)

func NewReceiptHandler(receiptService receipt.ReceiptService, validator *validator.Validate) ReceiptHandler {
	return &receiptHandler{
		receiptService: receiptService,
		validator:      validator,
	}
}

// ProcessReceipt ingests an OCR draft posted by the bot.
func (h *receiptHandler) ProcessReceipt(c *fiber.Ctx) error {
	req := new(domain.ProcessReceiptRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessReceipt, err)
	}

	res, err := h.receiptService.IngestReceipt(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedProcessReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessProcessReceipt)
}

func (h *receiptHandler) GetReceipts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	filter := domain.ReceiptFilter{
		Status: c.Query("status"),
		Store:  c.Query("store"),
		Query:  c.Query("q"),
		Date:   c.Query("date"),
	}

	receipts, err := h.receiptService.GetReceipts(c.Context(), userID, filter)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetReceipts, err)
	}

	return presenters.SuccessResponse(c, domain.ReceiptsResponse{Receipts: receipts}, fiber.StatusOK, domain.MessageSuccessGetReceipts)
}

func (h *receiptHandler) GetReceipt(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	receiptID := c.Params("receipt_id")

	res, err := h.receiptService.GetReceipt(c.Context(), receiptID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetReceipt)
}

func (h *receiptHandler) ConfirmReceipt(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	receiptID := c.Params("receipt_id")
	req := new(domain.ConfirmReceiptRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConfirmReceipt, err)
	}

	res, err := h.receiptService.ConfirmReceipt(c.Context(), receiptID, userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedConfirmReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessConfirmReceipt)
}

func (h *receiptHandler) UploadReceiptImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	receiptID := c.Params("receipt_id")
	req := new(domain.UploadReceiptImageRequest)

	file, err := c.FormFile("receipt_image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req.ReceiptImage = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	res, err := h.receiptService.UploadReceiptImage(c.Context(), receiptID, userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadImage)
}

func (h *receiptHandler) GetCategoryStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	stats, err := h.receiptService.GetCategoryStats(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, statusFromError(err), domain.MessageFailedGetStats, err)
	}

	return presenters.SuccessResponse(c, stats, fiber.StatusOK, domain.MessageSuccessGetStats)
}
