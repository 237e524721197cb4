package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/pkg/utils"
	"github.com/landsearch-microservice/internal/pkg/validator"
	"github.com/landsearch-microservice/internal/usecase"
	"github.com/landsearch-microservice/internal/usecase/dto"
)

// SearchHandler - handler for coordinate search requests
type SearchHandler struct {
	searchUC *usecase.SearchUseCase
	logger   *zap.Logger
}

// NewSearchHandler - creates a new SearchHandler
func NewSearchHandler(searchUC *usecase.SearchUseCase, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// Search godoc
// @Summary Search site plans by coordinates
// @Description Compares the query polygon against stored site plans. The match field selects the strategy: the default overlap comparison intersects polygons, radius matches plans with a point within search_radius kilometres of a query point, exact matches points within tolerance. Plot number, locality, district and region narrow the corpus before the comparison runs.
// @Tags SitePlans
// @Accept json
// @Produce json
// @Param request body dto.SearchRequest true "Query polygon and filters"
// @Success 200 {object} utils.SuccessResponse{data=dto.SearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/site-plans/search [post]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req dto.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.Search(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}
