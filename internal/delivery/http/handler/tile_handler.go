package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/address-tiles/internal/domain"
	"github.com/address-tiles/internal/pkg/errors"
	"github.com/address-tiles/internal/pkg/utils"
	"github.com/address-tiles/internal/pkg/validator"
	"github.com/address-tiles/internal/usecase/dto"
)

// TileService - операции покрытия и пересчета тайлов, используемые HTTP слоем
type TileService interface {
	CoverPoint(req dto.CoverPointRequest) (*dto.TileSetResponse, error)
	CoverLine(req dto.CoverLineRequest) (*dto.TileSetResponse, error)
	RecomputePoint(ctx context.Context, id uuid.UUID) (domain.TileSet, error)
	RecomputeStreet(ctx context.Context, id uuid.UUID) (*domain.StreetTiles, error)
	RecomputeStreets(ctx context.Context, ids []uuid.UUID) (*domain.BatchReport, error)
	RecomputeBal(ctx context.Context, balID uuid.UUID) (*domain.BatchReport, error)
	GetStreetTiles(ctx context.Context, id uuid.UUID) (*dto.StreetTilesResponse, error)
}

// TileHandler - обработчик запросов покрытия и пересчета тайлов
type TileHandler struct {
	tileUC TileService
	logger *zap.Logger
}

// NewTileHandler - создание нового TileHandler
func NewTileHandler(tileUC TileService, logger *zap.Logger) *TileHandler {
	return &TileHandler{
		tileUC: tileUC,
		logger: logger,
	}
}

// CoverPoint godoc
// @Summary      Покрытие точки тайлами
// @Description  Тайлы z/x/y точки на каждом уровне диапазона (по умолчанию диапазон точек из конфигурации)
// @Tags         tiles
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CoverPointRequest  true  "Точка и диапазон уровней"
// @Success      200      {object}  utils.SuccessResponse{data=dto.TileSetResponse}
// @Failure      400      {object}  utils.ErrorResponse
// @Failure      422      {object}  utils.ErrorResponse
// @Router       /tiles/point [post]
func (h *TileHandler) CoverPoint(c *fiber.Ctx) error {
	var req dto.CoverPointRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	result, err := h.tileUC.CoverPoint(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{Total: result.Count})
}

// CoverLine godoc
// @Summary      Покрытие линии тайлами
// @Description  Все тайлы одного уровня, пересекаемые линией (по умолчанию уровень трассы)
// @Tags         tiles
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CoverLineRequest  true  "Координаты [lon, lat] и уровень"
// @Success      200      {object}  utils.SuccessResponse{data=dto.TileSetResponse}
// @Failure      400      {object}  utils.ErrorResponse
// @Failure      422      {object}  utils.ErrorResponse
// @Router       /tiles/line [post]
func (h *TileHandler) CoverLine(c *fiber.Ctx) error {
	var req dto.CoverLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	start := time.Now()
	result, err := h.tileUC.CoverLine(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Count,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// RecomputeAddress godoc
// @Summary      Пересчет тайлов адресной точки
// @Description  Перезаписывает тайлы точки и пересчитывает ее улицу
// @Tags         numeros
// @Produce      json
// @Param        id   path      string  true  "ID точки (uuid)"
// @Success      200  {object}  utils.SuccessResponse{data=dto.AddressTilesResponse}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /numeros/{id}/tiles [post]
func (h *TileHandler) RecomputeAddress(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	tiles, err := h.tileUC.RecomputePoint(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, &dto.AddressTilesResponse{
		NumeroID: id.String(),
		Tiles:    tiles,
	}, &utils.Meta{Total: len(tiles)})
}

// RecomputeStreet godoc
// @Summary      Пересчет тайлов улицы
// @Description  Центроид, тайлы центроида и тайлы трассы улицы
// @Tags         voies
// @Produce      json
// @Param        id   path      string  true  "ID улицы (uuid)"
// @Success      200  {object}  utils.SuccessResponse{data=dto.StreetTilesResponse}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /voies/{id}/tiles [post]
func (h *TileHandler) RecomputeStreet(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	tiles, err := h.tileUC.RecomputeStreet(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.NewStreetTilesResponse(id.String(), tiles, false), nil)
}

// RecomputeStreets godoc
// @Summary      Пакетный пересчет улиц
// @Description  Ошибка одной улицы попадает в отчет и не прерывает пересчет остальных
// @Tags         voies
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RecomputeBatchRequest  true  "Список ID улиц"
// @Success      200      {object}  utils.SuccessResponse{data=domain.BatchReport}
// @Failure      400      {object}  utils.ErrorResponse
// @Router       /voies/tiles [post]
func (h *TileHandler) RecomputeStreets(c *fiber.Ctx) error {
	var req dto.RecomputeBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return sendValidationError(c, err)
	}

	ids := make([]uuid.UUID, len(req.IDs))
	for i, raw := range req.IDs {
		// формат уже проверен валидатором
		ids[i] = uuid.MustParse(raw)
	}

	start := time.Now()
	report, err := h.tileUC.RecomputeStreets(c.Context(), ids)
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Info("Batch street recompute finished",
		zap.Int("requested", len(ids)),
		zap.Int("success", report.SuccessCount),
		zap.Int("failed", report.ErrorCount))

	return utils.SendSuccess(c, report, batchMeta(report, start))
}

// RecomputeBal godoc
// @Summary      Пересчет всех улиц BAL
// @Tags         bals
// @Produce      json
// @Param        id   path      string  true  "ID базы адресов (uuid)"
// @Success      200  {object}  utils.SuccessResponse{data=domain.BatchReport}
// @Failure      400  {object}  utils.ErrorResponse
// @Router       /bals/{id}/tiles [post]
func (h *TileHandler) RecomputeBal(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	report, err := h.tileUC.RecomputeBal(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, report, batchMeta(report, start))
}

// GetStreetTiles godoc
// @Summary      Сохраненные тайлы улицы
// @Description  Читает производные данные улицы через кеш Redis
// @Tags         voies
// @Produce      json
// @Param        id   path      string  true  "ID улицы (uuid)"
// @Success      200  {object}  utils.SuccessResponse{data=dto.StreetTilesResponse}
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      404  {object}  utils.ErrorResponse
// @Router       /voies/{id}/tiles [get]
func (h *TileHandler) GetStreetTiles(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.tileUC.GetStreetTiles(c.Context(), id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"id": raw,
		})
	}
	return id, nil
}

func sendValidationError(c *fiber.Ctx, err error) error {
	return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(validator.FieldErrors(err)))
}

func batchMeta(report *domain.BatchReport, start time.Time) *utils.Meta {
	return &utils.Meta{
		Total:    len(report.Results),
		Success:  report.SuccessCount,
		Failed:   report.ErrorCount,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	}
}
