package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/popuphq/passes-api/internal/api/handler/v1/response"
	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/service"
)

type PaymentService interface {
	GetPayment(ctx context.Context, id uint) (domain.Payment, error)
	ListByApplication(ctx context.Context, applicationID uint) ([]domain.Payment, error)
	ListByPopup(ctx context.Context, popupID uint) ([]domain.Payment, error)
	Approve(ctx context.Context, paymentID uint) (domain.Payment, error)
	Reject(ctx context.Context, paymentID uint) (domain.Payment, error)
}

type PaymentHandler struct {
	svc    PaymentService
	appSvc ApplicationService
	uSvc   UserService
}

func NewPaymentHandler(svc PaymentService, appSvc ApplicationService, uSvc UserService) *PaymentHandler {
	return &PaymentHandler{
		svc:    svc,
		appSvc: appSvc,
		uSvc:   uSvc,
	}
}

// HandleListMyPayments godoc
// @Summary      List payments for one of my applications
// @Tags         payments
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Success      200  {array}   domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/payments [get]
// @Security     BearerAuth
func (h *PaymentHandler) HandleListMyPayments(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applicationID, err := strconv.ParseUint(ctx.Param("applicationID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid application ID: %w", err)))
		return
	}

	// Ownership check rides on the application service.
	if _, err = h.appSvc.Get(ctx.Request.Context(), user.ID, uint(applicationID)); err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("application", "ID", applicationID))
		case errors.Is(err, service.ErrNotApplicationOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleListMyPayments -> h.appSvc.Get -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	payments, err := h.svc.ListByApplication(ctx.Request.Context(), uint(applicationID))
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyPayments -> h.svc.ListByApplication -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, payments)
}

// HandleListPaymentsByPopup godoc
// @Summary      List payments for a popup
// @Description  Backoffice only.
// @Tags         payments
// @Produce      json
// @Param        popupID  path      int  true  "Popup ID"
// @Success      200  {array}   domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/popups/{popupID}/payments [get]
// @Security     BearerAuth
func (h *PaymentHandler) HandleListPaymentsByPopup(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	popupID, err := strconv.ParseUint(ctx.Param("popupID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid popup ID: %w", err)))
		return
	}

	payments, err := h.svc.ListByPopup(ctx.Request.Context(), uint(popupID))
	if err != nil {
		err = fmt.Errorf("v1.HandleListPaymentsByPopup -> h.svc.ListByPopup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, payments)
}

// HandleApprovePayment godoc
// @Summary      Approve a pending payment
// @Description  Backoffice only. Approval materializes the payment's items as owned purchases.
// @Tags         payments
// @Produce      json
// @Param        paymentID  path      int  true  "Payment ID"
// @Success      200  {object}  domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/payments/{paymentID}/approve [post]
// @Security     BearerAuth
func (h *PaymentHandler) HandleApprovePayment(ctx *gin.Context) {
	h.review(ctx, true)
}

// HandleRejectPayment godoc
// @Summary      Reject a pending payment
// @Description  Backoffice only.
// @Tags         payments
// @Produce      json
// @Param        paymentID  path      int  true  "Payment ID"
// @Success      200  {object}  domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/payments/{paymentID}/reject [post]
// @Security     BearerAuth
func (h *PaymentHandler) HandleRejectPayment(ctx *gin.Context) {
	h.review(ctx, false)
}

func (h *PaymentHandler) review(ctx *gin.Context, approve bool) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	paymentID, err := strconv.ParseUint(ctx.Param("paymentID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid payment ID: %w", err)))
		return
	}

	var payment domain.Payment
	if approve {
		payment, err = h.svc.Approve(ctx.Request.Context(), uint(paymentID))
	} else {
		payment, err = h.svc.Reject(ctx.Request.Context(), uint(paymentID))
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.RenderErr(ctx, response.ErrNotFound("payment", "ID", paymentID))
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.review -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, payment)
}
