package editor

import (
	"errors"

	"go-lms/internal/common/api"
	"go-lms/internal/features/widget"
	"go-lms/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type EditorController struct {
	Store *Store
}

func NewEditorController(store *Store) *EditorController {
	return &EditorController{Store: store}
}

func unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
}

// session resolves the current user and the :sid session in one step.
func (ctrl *EditorController) session(ctx *fiber.Ctx) (*Session, error) {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return ctrl.Store.Get(user.UserID, ctx.Params("sid"))
}

func (ctrl *EditorController) fail(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, utils.ErrNoClaims) {
		return unauthorized(ctx)
	}
	return api.Error(ctx, err)
}

// OpenSession godoc
// @Summary Open editor session
// @Description Start a draft for a new dashboard, or for an existing one when dashboard_id is set
// @Tags editor
// @Accept json
// @Produce json
// @Param request body OpenRequest false "Dashboard to edit"
// @Success 201 {object} Snapshot
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/editor/sessions [post]
func (ctrl *EditorController) OpenSession(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}

	var req OpenRequest
	if len(ctx.Body()) > 0 {
		if err := api.Bind(ctx, &req); err != nil {
			return api.Error(ctx, err)
		}
	}

	sess, err := ctrl.Store.Open(ctx.UserContext(), user.UserID, req.DashboardID)
	if err != nil {
		return api.Error(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(sess.Snapshot())
}

// GetSession godoc
// @Summary Get editor session
// @Tags editor
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} Snapshot
// @Failure 404 {object} map[string]interface{}
// @Router /api/editor/sessions/{sid} [get]
func (ctrl *EditorController) GetSession(ctx *fiber.Ctx) error {
	sess, err := ctrl.session(ctx)
	if err != nil {
		return ctrl.fail(ctx, err)
	}
	return ctx.JSON(sess.Snapshot())
}

// AddWidget godoc
// @Summary Add widget
// @Description Append a widget at the bottom of the draft layout
// @Tags editor
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param widget body AddWidgetRequest true "Widget"
// @Success 201 {object} AddWidgetResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/editor/sessions/{sid}/widgets [post]
func (ctrl *EditorController) AddWidget(ctx *fiber.Ctx) error {
	sess, err := ctrl.session(ctx)
	if err != nil {
		return ctrl.fail(ctx, err)
	}

	var req AddWidgetRequest
	if err := api.Bind(ctx, &req); err != nil {
		return api.Error(ctx, err)
	}

	id, err := sess.AddWidget(widget.Type(req.Type), req.Title, widget.DataSource(req.DataSource))
	if err != nil {
		return api.Error(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(AddWidgetResponse{ID: id, Snapshot: sess.Snapshot()})
}

// UpdateWidget godoc
// @Summary Update widget
// @Tags editor
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param wid path string true "Widget ID"
// @Param patch body UpdateWidgetRequest true "Fields to change"
// @Success 200 {object} Snapshot
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/editor/sessions/{sid}/widgets/{wid} [patch]
func (ctrl *EditorController) UpdateWidget(ctx *fiber.Ctx) error {
	sess, err := ctrl.session(ctx)
	if err != nil {
		return ctrl.fail(ctx, err)
	}

	var req UpdateWidgetRequest
	if err := api.Bind(ctx, &req); err != nil {
		return api.Error(ctx, err)
	}

	if err := sess.UpdateWidget(ctx.Params("wid"), req.toPatch()); err != nil {
		return api.Error(ctx, err)
	}
	return ctx.JSON(sess.Snapshot())
}

// DeleteWidget godoc
// @Summary Delete widget
// @Tags editor
// @Produce json
// @Param sid path string true "Session ID"
// @Param wid path string true "Widget ID"
// @Success 200 {object} Snapshot
// @Failure 404 {object} map[string]interface{}
// @Router /api/editor/sessions/{sid}/widgets/{wid} [delete]
func (ctrl *EditorController) DeleteWidget(ctx *fiber.Ctx) error {
	sess, err := ctrl.session(ctx)
	if err != nil {
		return ctrl.fail(ctx, err)
	}
	if err := sess.DeleteWidget(ctx.Params("wid")); err != nil {
		return api.Error(ctx, err)
	}
	return ctx.JSON(sess.Snapshot())
}

// UpdateLayout godoc
// @Summary Apply grid layout
// @Description Write positions and sizes from the grid back onto the draft widgets
// @Tags editor
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param layout body LayoutRequest true "Layout"
// @Success 200 {object} Snapshot
// @Failure 400 {object} map[string]interface{}
// @Router /api/editor/sessions/{sid}/layout [put]
func (ctrl *EditorController) UpdateLayout(ctx *fiber.Ctx) error {
	sess, err := ctrl.session(ctx)
	if err != nil {
		return ctrl.fail(ctx, err)
	}

	var req LayoutRequest
	if err := api.Bind(ctx, &req); err != nil {
		return api.Error(ctx, err)
	}

	if err := sess.ReorderFromLayout(req.Layout); err != nil {
		return api.Error(ctx, err)
	}
	return ctx.JSON(sess.Snapshot())
}

// UpdateMetadata godoc
// @Summary Update dashboard settings
// @Tags editor
// @Accept json
// @Produce json
// @Param sid path string true "Session ID"
// @Param metadata body MetadataRequest true "Settings"
// @Success 200 {object} Snapshot
// @Failure 400 {object} map[string]interface{}
// @Router /api/editor/sessions/{sid}/metadata [patch]
func (ctrl *EditorController) UpdateMetadata(ctx *fiber.Ctx) error {
	sess, err := ctrl.session(ctx)
	if err != nil {
		return ctrl.fail(ctx, err)
	}

	var req MetadataRequest
	if err := api.Bind(ctx, &req); err != nil {
		return api.Error(ctx, err)
	}

	if err := sess.UpdateMetadata(req.toMetadata()); err != nil {
		return api.Error(ctx, err)
	}
	return ctx.JSON(sess.Snapshot())
}

// SaveSession godoc
// @Summary Save draft
// @Description Persist the whole draft. Temporary widget ids are mapped to permanent ones
// @Tags editor
// @Produce json
// @Param sid path string true "Session ID"
// @Success 200 {object} SaveResult
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/editor/sessions/{sid}/save [post]
func (ctrl *EditorController) SaveSession(ctx *fiber.Ctx) error {
	sess, err := ctrl.session(ctx)
	if err != nil {
		return ctrl.fail(ctx, err)
	}

	result, err := sess.Save(ctx.UserContext())
	if err != nil {
		return api.Error(ctx, err)
	}
	return ctx.JSON(result)
}

// DiscardSession godoc
// @Summary Discard editor session
// @Tags editor
// @Param sid path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/editor/sessions/{sid} [delete]
func (ctrl *EditorController) DiscardSession(ctx *fiber.Ctx) error {
	user, err := utils.CurrentUser(ctx)
	if err != nil {
		return unauthorized(ctx)
	}
	if err := ctrl.Store.Discard(user.UserID, ctx.Params("sid")); err != nil {
		return api.Error(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
