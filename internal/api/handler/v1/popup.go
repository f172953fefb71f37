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

type PopupService interface {
	CreatePopup(ctx context.Context, popup domain.Popup) (domain.Popup, error)
	GetPopup(ctx context.Context, id uint) (domain.Popup, error)
	ListPopups(ctx context.Context) ([]domain.Popup, error)
	UpdatePopup(ctx context.Context, popup domain.Popup) (domain.Popup, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id uint) (domain.Product, error)
	ListProducts(ctx context.Context, popupID uint) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	CreateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error)
	ListCoupons(ctx context.Context, popupID uint) ([]domain.Coupon, error)
}

type PopupHandler struct {
	svc  PopupService
	uSvc UserService
}

func NewPopupHandler(svc PopupService, uSvc UserService) *PopupHandler {
	return &PopupHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListPopups godoc
// @Summary      List popups
// @Tags         popups
// @Produce      json
// @Success      200  {array}   domain.Popup
// @Failure      500  {object}  response.Err
// @Router       /popups [get]
// @Security     BearerAuth
func (h *PopupHandler) HandleListPopups(ctx *gin.Context) {
	popups, err := h.svc.ListPopups(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPopups -> h.svc.ListPopups -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, popups)
}

// HandleGetPopup godoc
// @Summary      Get a popup with its catalog
// @Tags         popups
// @Produce      json
// @Param        popupID  path      int  true  "Popup ID"
// @Success      200  {object}  domain.Popup
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /popups/{popupID} [get]
// @Security     BearerAuth
func (h *PopupHandler) HandleGetPopup(ctx *gin.Context) {
	popupID, err := strconv.ParseUint(ctx.Param("popupID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid popup ID: %w", err)))
		return
	}

	popup, err := h.svc.GetPopup(ctx.Request.Context(), uint(popupID))
	if err != nil {
		if errors.Is(err, service.ErrPopupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("popup", "ID", popupID))
			return
		}

		err = fmt.Errorf("v1.HandleGetPopup -> h.svc.GetPopup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, popup)
}

// HandleListProducts godoc
// @Summary      List a popup's product catalog
// @Tags         popups
// @Produce      json
// @Param        popupID  path      int  true  "Popup ID"
// @Success      200  {array}   domain.Product
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /popups/{popupID}/products [get]
// @Security     BearerAuth
func (h *PopupHandler) HandleListProducts(ctx *gin.Context) {
	popupID, err := strconv.ParseUint(ctx.Param("popupID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid popup ID: %w", err)))
		return
	}

	products, err := h.svc.ListProducts(ctx.Request.Context(), uint(popupID))
	if err != nil {
		err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleCreatePopup godoc
// @Summary      Create a popup
// @Description  Backoffice only.
// @Tags         popups
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreatePopupRequest  true  "popup"
// @Success      201  {object}  domain.Popup
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/popups [post]
// @Security     BearerAuth
func (h *PopupHandler) HandleCreatePopup(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	var req request.CreatePopupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %w", err)))
		return
	}

	popup, err := h.svc.CreatePopup(ctx.Request.Context(), domain.Popup{
		Name:                 req.Name,
		Location:             req.Location,
		Description:          req.Description,
		StartDate:            start,
		EndDate:              end,
		GroupDiscountPercent: req.GroupDiscountPercent,
		Active:               true,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreatePopup -> h.svc.CreatePopup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, popup)
}

// HandleUpdatePopup godoc
// @Summary      Update a popup
// @Description  Backoffice only. Replaces the whole record.
// @Tags         popups
// @Accept       json
// @Produce      json
// @Param        popupID  path      int                         true  "Popup ID"
// @Param        request  body      request.UpdatePopupRequest  true  "popup"
// @Success      200  {object}  domain.Popup
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/popups/{popupID} [put]
// @Security     BearerAuth
func (h *PopupHandler) HandleUpdatePopup(ctx *gin.Context) {
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

	var req request.UpdatePopupRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %w", err)))
		return
	}

	if _, err = h.svc.GetPopup(ctx.Request.Context(), uint(popupID)); err != nil {
		if errors.Is(err, service.ErrPopupNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("popup", "ID", popupID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdatePopup -> h.svc.GetPopup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	popup, err := h.svc.UpdatePopup(ctx.Request.Context(), domain.Popup{
		ID:                   uint(popupID),
		Name:                 req.Name,
		Location:             req.Location,
		Description:          req.Description,
		StartDate:            start,
		EndDate:              end,
		GroupDiscountPercent: req.GroupDiscountPercent,
		Active:               req.Active,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdatePopup -> h.svc.UpdatePopup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, popup)
}

// HandleCreateProduct godoc
// @Summary      Add a product to a popup's catalog
// @Description  Backoffice only.
// @Tags         popups
// @Accept       json
// @Produce      json
// @Param        popupID  path      int                           true  "Popup ID"
// @Param        request  body      request.CreateProductRequest  true  "product"
// @Success      201  {object}  domain.Product
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/popups/{popupID}/products [post]
// @Security     BearerAuth
func (h *PopupHandler) HandleCreateProduct(ctx *gin.Context) {
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

	var req request.CreateProductRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %w", err)))
		return
	}

	product, err := h.svc.CreateProduct(ctx.Request.Context(), domain.Product{
		PopupID:          uint(popupID),
		Name:             req.Name,
		Category:         domain.ProductCategory(req.Category),
		Price:            req.Price,
		CompareAtPrice:   req.CompareAtPrice,
		AttendeeCategory: domain.AttendeeCategory(req.AttendeeCategory),
		Active:           true,
		Exclusive:        req.Exclusive,
		StartDate:        start,
		EndDate:          end,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidProductDates) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// HandleUpdateProduct godoc
// @Summary      Update a product in a popup's catalog
// @Description  Backoffice only. Replaces the whole record.
// @Tags         popups
// @Accept       json
// @Produce      json
// @Param        popupID    path      int                           true  "Popup ID"
// @Param        productID  path      int                           true  "Product ID"
// @Param        request    body      request.UpdateProductRequest  true  "product"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/popups/{popupID}/products/{productID} [put]
// @Security     BearerAuth
func (h *PopupHandler) HandleUpdateProduct(ctx *gin.Context) {
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

	productID, err := strconv.ParseUint(ctx.Param("productID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid product ID: %w", err)))
		return
	}

	var req request.UpdateProductRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	start, end, err := req.ParseDates()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %w", err)))
		return
	}

	existing, err := h.svc.GetProduct(ctx.Request.Context(), uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", productID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.GetProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if existing.PopupID != uint(popupID) {
		response.RenderErr(ctx, response.ErrNotFound("product", "ID", productID))
		return
	}

	product, err := h.svc.UpdateProduct(ctx.Request.Context(), domain.Product{
		ID:               uint(productID),
		PopupID:          uint(popupID),
		Name:             req.Name,
		Category:         domain.ProductCategory(req.Category),
		Price:            req.Price,
		CompareAtPrice:   req.CompareAtPrice,
		AttendeeCategory: domain.AttendeeCategory(req.AttendeeCategory),
		Active:           req.Active,
		Exclusive:        req.Exclusive,
		StartDate:        start,
		EndDate:          end,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidProductDates) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.UpdateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// HandleCreateCoupon godoc
// @Summary      Create a percentage coupon for a popup
// @Description  Backoffice only.
// @Tags         popups
// @Accept       json
// @Produce      json
// @Param        popupID  path      int                          true  "Popup ID"
// @Param        request  body      request.CreateCouponRequest  true  "coupon"
// @Success      201  {object}  domain.Coupon
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/popups/{popupID}/coupons [post]
// @Security     BearerAuth
func (h *PopupHandler) HandleCreateCoupon(ctx *gin.Context) {
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

	var req request.CreateCouponRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, to, err := req.ParseDates()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid date format: %w", err)))
		return
	}

	coupon, err := h.svc.CreateCoupon(ctx.Request.Context(), domain.Coupon{
		PopupID:   uint(popupID),
		Code:      req.Code,
		Type:      domain.DiscountPercentage,
		Value:     req.Value,
		Active:    true,
		ValidFrom: from,
		ValidTo:   to,
	})
	if err != nil {
		if errors.Is(err, service.ErrCouponCodeExists) || errors.Is(err, service.ErrInvalidCouponValue) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateCoupon -> h.svc.CreateCoupon -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, coupon)
}

// HandleListCoupons godoc
// @Summary      List a popup's coupons
// @Description  Backoffice only.
// @Tags         popups
// @Produce      json
// @Param        popupID  path      int  true  "Popup ID"
// @Success      200  {array}   domain.Coupon
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/popups/{popupID}/coupons [get]
// @Security     BearerAuth
func (h *PopupHandler) HandleListCoupons(ctx *gin.Context) {
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

	coupons, err := h.svc.ListCoupons(ctx.Request.Context(), uint(popupID))
	if err != nil {
		err = fmt.Errorf("v1.HandleListCoupons -> h.svc.ListCoupons -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, coupons)
}
