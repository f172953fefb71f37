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

type ApplicationService interface {
	Create(ctx context.Context, application domain.Application) (domain.Application, error)
	Get(ctx context.Context, userID, applicationID uint) (domain.Application, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Application, error)
	ListByPopup(ctx context.Context, popupID uint) ([]domain.Application, error)
	Submit(ctx context.Context, userID, applicationID uint) (domain.Application, error)
	Review(ctx context.Context, applicationID uint, accept bool) (domain.Application, error)
	AddAttendee(ctx context.Context, userID, applicationID uint, attendee domain.Attendee) (domain.Attendee, error)
	RemoveAttendee(ctx context.Context, userID, applicationID, attendeeID uint) error
}

type ApplicationHandler struct {
	svc  ApplicationService
	uSvc UserService
}

func NewApplicationHandler(svc ApplicationService, uSvc UserService) *ApplicationHandler {
	return &ApplicationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateApplication godoc
// @Summary      Create a draft application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateApplicationRequest  true  "application"
// @Success      201  {object}  domain.Application
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications [post]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleCreateApplication(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	application := domain.Application{
		PopupID: req.PopupID,
		UserID:  user.ID,
		Group:   req.Group,
	}
	for _, a := range req.Attendees {
		application.Attendees = append(application.Attendees, domain.Attendee{
			Name:     a.Name,
			Category: domain.AttendeeCategory(a.Category),
		})
	}

	created, err := h.svc.Create(ctx.Request.Context(), application)
	if err != nil {
		if errors.Is(err, service.ErrRosterNeedsMain) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateApplication -> h.svc.Create -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetApplication godoc
// @Summary      Get one of my applications
// @Tags         applications
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Success      200  {object}  domain.Application
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID} [get]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleGetApplication(ctx *gin.Context) {
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

	application, err := h.svc.Get(ctx.Request.Context(), user.ID, uint(applicationID))
	if err != nil {
		h.renderApplicationErr(ctx, "HandleGetApplication", uint(applicationID), err)
		return
	}

	ctx.JSON(http.StatusOK, application)
}

// HandleListMyApplications godoc
// @Summary      List my applications
// @Tags         applications
// @Produce      json
// @Success      200  {array}   domain.Application
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleListMyApplications(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	applications, err := h.svc.ListByUser(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyApplications -> h.svc.ListByUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, applications)
}

// HandleSubmitApplication godoc
// @Summary      Submit a draft application for review
// @Tags         applications
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Success      200  {object}  domain.Application
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/submit [post]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleSubmitApplication(ctx *gin.Context) {
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

	application, err := h.svc.Submit(ctx.Request.Context(), user.ID, uint(applicationID))
	if err != nil {
		if errors.Is(err, service.ErrInvalidApplicationStatus) || errors.Is(err, service.ErrRosterNeedsMain) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		h.renderApplicationErr(ctx, "HandleSubmitApplication", uint(applicationID), err)
		return
	}

	ctx.JSON(http.StatusOK, application)
}

// HandleReviewApplication godoc
// @Summary      Accept or reject a pending application
// @Description  Backoffice only.
// @Tags         applications
// @Produce      json
// @Param        applicationID  path   int     true  "Application ID"
// @Param        accept         query  bool    true  "accept or reject"
// @Success      200  {object}  domain.Application
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/applications/{applicationID}/review [post]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleReviewApplication(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	applicationID, err := strconv.ParseUint(ctx.Param("applicationID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid application ID: %w", err)))
		return
	}

	accept, err := strconv.ParseBool(ctx.Query("accept"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid accept flag: %w", err)))
		return
	}

	application, err := h.svc.Review(ctx.Request.Context(), uint(applicationID), accept)
	if err != nil {
		if errors.Is(err, service.ErrInvalidApplicationStatus) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		h.renderApplicationErr(ctx, "HandleReviewApplication", uint(applicationID), err)
		return
	}

	ctx.JSON(http.StatusOK, application)
}

// HandleListApplicationsByPopup godoc
// @Summary      List applications for a popup
// @Description  Backoffice only.
// @Tags         applications
// @Produce      json
// @Param        popupID  path      int  true  "Popup ID"
// @Success      200  {array}   domain.Application
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/popups/{popupID}/applications [get]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleListApplicationsByPopup(ctx *gin.Context) {
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

	applications, err := h.svc.ListByPopup(ctx.Request.Context(), uint(popupID))
	if err != nil {
		err = fmt.Errorf("v1.HandleListApplicationsByPopup -> h.svc.ListByPopup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, applications)
}

// HandleAddAttendee godoc
// @Summary      Add an attendee to a draft application
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        applicationID  path      int                         true  "Application ID"
// @Param        request        body      request.AddAttendeeRequest  true  "attendee"
// @Success      201  {object}  domain.Attendee
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/attendees [post]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleAddAttendee(ctx *gin.Context) {
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

	var req request.AddAttendeeRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	attendee, err := h.svc.AddAttendee(ctx.Request.Context(), user.ID, uint(applicationID), domain.Attendee{
		Name:     req.Name,
		Category: domain.AttendeeCategory(req.Category),
	})
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotEditable) || errors.Is(err, service.ErrRosterNeedsMain) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		h.renderApplicationErr(ctx, "HandleAddAttendee", uint(applicationID), err)
		return
	}

	ctx.JSON(http.StatusCreated, attendee)
}

// HandleRemoveAttendee godoc
// @Summary      Remove an attendee from a draft application
// @Tags         applications
// @Produce      json
// @Param        applicationID  path      int  true  "Application ID"
// @Param        attendeeID     path      int  true  "Attendee ID"
// @Success      200
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /applications/{applicationID}/attendees/{attendeeID} [delete]
// @Security     BearerAuth
func (h *ApplicationHandler) HandleRemoveAttendee(ctx *gin.Context) {
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

	attendeeID, err := strconv.ParseUint(ctx.Param("attendeeID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid attendee ID: %w", err)))
		return
	}

	err = h.svc.RemoveAttendee(ctx.Request.Context(), user.ID, uint(applicationID), uint(attendeeID))
	if err != nil {
		if errors.Is(err, service.ErrApplicationNotEditable) || errors.Is(err, service.ErrRosterNeedsMain) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		h.renderApplicationErr(ctx, "HandleRemoveAttendee", uint(applicationID), err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "attendee removed"})
}

func (h *ApplicationHandler) renderApplicationErr(ctx *gin.Context, op string, applicationID uint, err error) {
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
