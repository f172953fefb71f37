package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/popuphq/passes-api/internal/api/handler/v1/request"
	"github.com/popuphq/passes-api/internal/api/handler/v1/response"
	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/service"
)

type PassesService interface {
	GetPassState(ctx context.Context, userID, applicationID uint) (service.PassState, error)
	ToggleProduct(ctx context.Context, userID, applicationID, attendeeID, productID uint, quantity int) (service.PassState, error)
	ApplyCoupon(ctx context.Context, userID, applicationID uint, code string) (service.PassState, error)
	Refresh(ctx context.Context, userID, applicationID uint) (service.PassState, error)
	BuildCheckout(ctx context.Context, userID, applicationID uint) (service.CheckoutPlan, error)
}

type PaymentSubmitter interface {
	Submit(ctx context.Context, plan service.CheckoutPlan) (domain.Payment, error)
}

type PassesHandler struct {
	svc        PassesService
	paymentSvc PaymentSubmitter
	uSvc       UserService
}

func NewPassesHandler(svc PassesService, paymentSvc PaymentSubmitter, uSvc UserService) *PassesHandler {
	return &PassesHandler{
		svc:        svc,
		paymentSvc: paymentSvc,
		uSvc:       uSvc,
	}
}

// HandleGetPassState godoc
// @Summary      Get the pass selection state for an application
// @Tags         passes
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Success      200  {object}  service.PassState
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/passes [get]
// @Security     BearerAuth
func (h *PassesHandler) HandleGetPassState(ctx *gin.Context) {
	user, applicationID, respErr := h.authApplication(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	state, err := h.svc.GetPassState(ctx.Request.Context(), user.ID, applicationID)
	if err != nil {
		h.renderPassesErr(ctx, "HandleGetPassState", applicationID, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleToggleProduct godoc
// @Summary      Toggle a product for an attendee
// @Description  Dispatches one selection toggle and returns the recomputed state. Day passes carry the total quantity wanted.
// @Tags         passes
// @Accept       json
// @Produce      json
// @Param        applicationID  path      int                           true  "Application ID"
// @Param        request        body      request.ToggleProductRequest  true  "toggle"
// @Success      200  {object}  service.PassState
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/passes/toggle [post]
// @Security     BearerAuth
func (h *PassesHandler) HandleToggleProduct(ctx *gin.Context) {
	user, applicationID, respErr := h.authApplication(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ToggleProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	state, err := h.svc.ToggleProduct(ctx.Request.Context(), user.ID, applicationID, req.AttendeeID, req.ProductID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", req.ProductID))
			return
		}
		if errors.Is(err, service.ErrInvalidDayQuantity) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		h.renderPassesErr(ctx, "HandleToggleProduct", applicationID, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleApplyCoupon godoc
// @Summary      Apply a coupon code
// @Description  Applies a percentage coupon to the whole application. A weaker coupon than the one already held changes nothing.
// @Tags         passes
// @Accept       json
// @Produce      json
// @Param        applicationID  path      int                         true  "Application ID"
// @Param        request        body      request.ApplyCouponRequest  true  "coupon code"
// @Success      200  {object}  service.PassState
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/passes/coupon [post]
// @Security     BearerAuth
func (h *PassesHandler) HandleApplyCoupon(ctx *gin.Context) {
	user, applicationID, respErr := h.authApplication(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.ApplyCouponRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	state, err := h.svc.ApplyCoupon(ctx.Request.Context(), user.ID, applicationID, req.Code)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("coupon", "code", req.Code))
			return
		}
		if errors.Is(err, service.ErrCouponNotRedeemable) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		h.renderPassesErr(ctx, "HandleApplyCoupon", applicationID, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleRefresh godoc
// @Summary      Reload roster and catalog for an application
// @Tags         passes
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Success      200  {object}  service.PassState
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/passes/refresh [post]
// @Security     BearerAuth
func (h *PassesHandler) HandleRefresh(ctx *gin.Context) {
	user, applicationID, respErr := h.authApplication(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	state, err := h.svc.Refresh(ctx.Request.Context(), user.ID, applicationID)
	if err != nil {
		h.renderPassesErr(ctx, "HandleRefresh", applicationID, err)
		return
	}

	ctx.JSON(http.StatusOK, state)
}

// HandleCheckout godoc
// @Summary      Submit the current selections for payment
// @Description  Flattens the current selections into a pending payment backed by a Stripe payment intent.
// @Tags         passes
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Success      201  {object}  domain.Payment
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/passes/checkout [post]
// @Security     BearerAuth
func (h *PassesHandler) HandleCheckout(ctx *gin.Context) {
	user, applicationID, respErr := h.authApplication(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	plan, err := h.svc.BuildCheckout(ctx.Request.Context(), user.ID, applicationID)
	if err != nil {
		if errors.Is(err, service.ErrNothingToPurchase) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		h.renderPassesErr(ctx, "HandleCheckout", applicationID, err)
		return
	}

	payment, err := h.paymentSvc.Submit(ctx.Request.Context(), plan)
	if err != nil {
		err = fmt.Errorf("v1.HandleCheckout -> h.paymentSvc.Submit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, payment)
}

func (h *PassesHandler) authApplication(ctx *gin.Context) (domain.User, uint, *response.Err) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.User{}, 0, respErr
	}

	applicationID, err := strconv.ParseUint(ctx.Param("applicationID"), 10, 64)
	if err != nil {
		return domain.User{}, 0, response.ErrBadRequest(fmt.Errorf("invalid application ID: %w", err))
	}

	return user, uint(applicationID), nil
}

func (h *PassesHandler) renderPassesErr(ctx *gin.Context, op string, applicationID uint, err error) {
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("application", "ID", applicationID))
	case errors.Is(err, service.ErrNotApplicationOwner):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	default:
		err = fmt.Errorf("v1.%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
