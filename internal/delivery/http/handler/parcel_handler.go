package handler

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/pkg/utils"
	"github.com/landsearch-microservice/internal/pkg/validator"
	"github.com/landsearch-microservice/internal/usecase"
	"github.com/landsearch-microservice/internal/usecase/dto"
)

// ParcelHandler - handler for the site plan lifecycle: processing,
// review listings, approval, updates and deletion
type ParcelHandler struct {
	parcelUC *usecase.ParcelUseCase
	logger   *zap.Logger
}

// NewParcelHandler - creates a new ParcelHandler
func NewParcelHandler(parcelUC *usecase.ParcelUseCase, logger *zap.Logger) *ParcelHandler {
	return &ParcelHandler{
		parcelUC: parcelUC,
		logger:   logger,
	}
}

// List - approved site plans, optionally narrowed to one user
func (h *ParcelHandler) List(c *fiber.Ctx) error {
	result, err := h.parcelUC.ListAll(c.Context(), c.Query("user_id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// ListUnapproved - staged site plans awaiting review
func (h *ParcelHandler) ListUnapproved(c *fiber.Ctx) error {
	result, err := h.parcelUC.ListUnapproved(c.Context(), c.Query("user_id"), c.Query("upload_id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// ListFailed - uploads whose processing failed
func (h *ParcelHandler) ListFailed(c *fiber.Ctx) error {
	result, err := h.parcelUC.ListFailed(c.Context(), c.Query("user_id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// ListByOwner - approved site plans whose owners include the name
func (h *ParcelHandler) ListByOwner(c *fiber.Ctx) error {
	// Owner names carry spaces, so the path segment arrives escaped
	owner, err := url.PathUnescape(c.Params("owner"))
	if err != nil {
		owner = c.Params("owner")
	}

	result, err := h.parcelUC.ListByOwner(c.Context(), owner)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// Metadata - distinct filter values across approved site plans
func (h *ParcelHandler) Metadata(c *fiber.Ctx) error {
	result, err := h.parcelUC.Metadata(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Get - one approved site plan by id
func (h *ParcelHandler) Get(c *fiber.Ctx) error {
	parcel, err := h.parcelUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, parcel, nil)
}

// GeoJSON godoc
// @Summary Export a site plan as GeoJSON
// @Description Renders the assembled polygon ring of an approved site plan as a GeoJSON Feature with the descriptive plot fields as properties, ready for map clients.
// @Tags SitePlans
// @Produce json
// @Param id path string true "Site plan id"
// @Success 200 {object} map[string]interface{} "GeoJSON Feature"
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/site-plans/{id}/geojson [get]
func (h *ParcelHandler) GeoJSON(c *fiber.Ctx) error {
	raw, err := h.parcelUC.GeoJSON(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(raw)
}

// Process godoc
// @Summary Process raw extraction output
// @Description Converts one raw extraction document into a processed site plan: grid coordinates are projected to WGS84, the reference pillar is detected and removed, and the remaining points are arranged into a polygon ring. By default the result is returned without persisting; set store to true to stage it for review.
// @Tags SitePlans
// @Accept json
// @Produce json
// @Param request body dto.ProcessRequest true "Raw extraction document with upload context"
// @Success 200 {object} utils.SuccessResponse{data=dto.ProcessResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/site-plans/process [post]
func (h *ParcelHandler) Process(c *fiber.Ctx) error {
	var req dto.ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	// The synchronous endpoint builds without persisting unless asked;
	// the stream worker is the storing path
	if req.Store == nil {
		off := false
		req.Store = &off
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.parcelUC.Process(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Approve godoc
// @Summary Approve a reviewed site plan
// @Description Moves a reviewed site plan into the approved set. The staging row carrying the same id is removed in the same transaction, so approving twice is safe.
// @Tags SitePlans
// @Accept json
// @Produce json
// @Param request body dto.StoreRequest true "Reviewed site plan with the owning user"
// @Success 200 {object} utils.SuccessResponse{data=dto.StoreResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/site-plans [post]
func (h *ParcelHandler) Approve(c *fiber.Ctx) error {
	var req dto.StoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.parcelUC.Approve(c.Context(), req.Parcel, req.UserID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// StoreBulk - stores a batch of site plans as approved in one call
func (h *ParcelHandler) StoreBulk(c *fiber.Ctx) error {
	var req dto.BulkStoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.parcelUC.StoreBulk(c.Context(), req.Parcels, req.UserID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

// Recompute godoc
// @Summary Recompute site plan coordinates
// @Description Reconverts the submitted document's grid coordinates and rebuilds the polygon ring. With remove_reference=true, points whose names match the reference pillar pattern are dropped from the ring. The result is returned for review; nothing is persisted.
// @Tags SitePlans
// @Accept json
// @Produce json
// @Param id path string true "Site plan id"
// @Param remove_reference query bool false "Drop pattern-flagged reference points from the ring" default(false)
// @Param request body domain.ProcessedParcel true "Site plan document with edited grid coordinates"
// @Success 200 {object} utils.SuccessResponse{data=dto.RecomputeResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /api/v1/site-plans/{id}/coordinates [put]
func (h *ParcelHandler) Recompute(c *fiber.Ctx) error {
	var parcel domain.ProcessedParcel
	if err := c.BodyParser(&parcel); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.parcelUC.Recompute(c.Context(), c.Params("id"), &parcel, c.QueryBool("remove_reference", false))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

// Update - replaces the stored document of an approved site plan
func (h *ParcelHandler) Update(c *fiber.Ctx) error {
	var parcel domain.ProcessedParcel
	if err := c.BodyParser(&parcel); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.parcelUC.Update(c.Context(), c.Params("id"), &parcel); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"updated": true}, nil)
}

// UpdateStaging - replaces the stored document of a staged site plan
func (h *ParcelHandler) UpdateStaging(c *fiber.Ctx) error {
	var parcel domain.ProcessedParcel
	if err := c.BodyParser(&parcel); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.parcelUC.UpdateStaging(c.Context(), c.Params("id"), &parcel); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"updated": true}, nil)
}

// Delete godoc
// @Summary Delete a site plan
// @Description Removes a site plan by id. With unapproved=true the staging table is targeted instead of the approved set.
// @Tags SitePlans
// @Produce json
// @Param id path string true "Site plan id"
// @Param unapproved query bool false "Target the staging table" default(false)
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/site-plans/{id} [delete]
func (h *ParcelHandler) Delete(c *fiber.Ctx) error {
	if err := h.parcelUC.Delete(c.Context(), c.Params("id"), c.QueryBool("unapproved", false)); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{"deleted": true}, nil)
}
