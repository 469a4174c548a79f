package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/address-tiles/internal/domain"
	"github.com/address-tiles/internal/domain/repository"
	"github.com/address-tiles/internal/pkg/errors"
	"github.com/address-tiles/internal/pkg/metrics"
	"github.com/address-tiles/internal/pkg/tilecover"
	"github.com/address-tiles/internal/usecase/dto"
)

// TileUseCase пересчитывает тайлы адресных точек и улиц и записывает их обратно
type TileUseCase struct {
	streetRepo  repository.StreetRepository
	addressRepo repository.AddressRepository
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	zoom        domain.ZoomConfig
	concurrency int
	cacheTTL    time.Duration
}

// NewTileUseCase проверяет конфигурацию уровней: ошибка здесь - ошибка конфигурации
func NewTileUseCase(
	streetRepo repository.StreetRepository,
	addressRepo repository.AddressRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	zoom domain.ZoomConfig,
	concurrency int,
	cacheTTL time.Duration,
) (*TileUseCase, error) {
	if err := tilecover.ValidateZoomRange(zoom.Point); err != nil {
		return nil, fmt.Errorf("point zoom: %w", err)
	}
	if err := tilecover.ValidateZoomRange(zoom.Street); err != nil {
		return nil, fmt.Errorf("street zoom: %w", err)
	}
	if err := tilecover.ValidateFixedZoom(zoom.Trace); err != nil {
		return nil, fmt.Errorf("trace zoom: %w", err)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	return &TileUseCase{
		streetRepo:  streetRepo,
		addressRepo: addressRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		zoom:        zoom,
		concurrency: concurrency,
		cacheTTL:    cacheTTL,
	}, nil
}

// ComputePointTiles вычисляет тайлы адресной точки по ее канонической позиции.
// nil - у точки нет пригодной позиции.
func (uc *TileUseCase) ComputePointTiles(addr *domain.AddressPoint) domain.TileSet {
	position, ok := addr.CanonicalPosition()
	if !ok {
		uc.logger.Debug("Address has no position, tiles cleared",
			zap.String("numero_id", addr.ID.String()))
		return nil
	}

	tiles, err := tilecover.CoverPoint(position, uc.zoom.Point)
	if err != nil {
		uc.logger.Warn("Failed to cover address position",
			zap.String("numero_id", addr.ID.String()),
			zap.Error(err))
		return nil
	}

	metrics.TilesComputed.WithLabelValues("point").Add(float64(len(tiles)))
	return tiles
}

// ComputeStreetTiles вычисляет производные данные улицы.
// Метрическая нумерация с трассой: центроид трассы и покрытие трассы.
// Иначе: центроид канонических позиций точек, без тайлов трассы.
// Отсутствие геометрии - пустой результат, а не ошибка.
func (uc *TileUseCase) ComputeStreetTiles(street *domain.Street, points []*domain.AddressPoint) (domain.StreetTiles, error) {
	logger := uc.logger.With(zap.String("street_id", street.ID.String()))

	if street.HasTrace() {
		return uc.computeTraceTiles(street.Trace, logger)
	}

	positions := make([]domain.GeoPoint, 0, len(points))
	for _, p := range points {
		pos, ok := p.CanonicalPosition()
		if !ok {
			continue
		}
		if !pos.Valid() {
			logger.Warn("Skipping invalid address position",
				zap.String("numero_id", p.ID.String()),
				zap.Float64("lon", pos.Lon),
				zap.Float64("lat", pos.Lat))
			continue
		}
		positions = append(positions, pos)
	}

	centroid, ok := domain.Centroid(positions)
	if !ok {
		return domain.StreetTiles{}, nil
	}

	centroidTiles, err := tilecover.CoverPoint(centroid, uc.zoom.Street)
	if err != nil {
		logger.Warn("Failed to cover street centroid", zap.Error(err))
		return domain.StreetTiles{}, nil
	}

	metrics.TilesComputed.WithLabelValues("point").Add(float64(len(centroidTiles)))
	return domain.StreetTiles{
		Centroid:      &centroid,
		CentroidTiles: centroidTiles,
	}, nil
}

func (uc *TileUseCase) computeTraceTiles(trace domain.LineGeometry, logger *zap.Logger) (domain.StreetTiles, error) {
	if !trace.Valid() {
		logger.Warn("Street trace is malformed, tiles cleared", zap.Int("points", len(trace)))
		return domain.StreetTiles{}, nil
	}

	// Центроид трассы - среднее ее вершин
	centroid, _ := domain.Centroid(trace)
	centroidTiles, err := tilecover.CoverPoint(centroid, uc.zoom.Street)
	if err != nil {
		logger.Warn("Failed to cover trace centroid", zap.Error(err))
		return domain.StreetTiles{}, nil
	}

	traceTiles, err := tilecover.CoverLine(trace, uc.zoom.Trace)
	if err != nil {
		if stderrors.Is(err, tilecover.ErrInvalidGeometry) {
			logger.Warn("Failed to cover trace", zap.Error(err))
			return domain.StreetTiles{}, nil
		}
		return domain.StreetTiles{}, fmt.Errorf("cover trace: %w", err)
	}

	metrics.TilesComputed.WithLabelValues("point").Add(float64(len(centroidTiles)))
	metrics.TilesComputed.WithLabelValues("line").Add(float64(len(traceTiles)))
	return domain.StreetTiles{
		Centroid:      &centroid,
		CentroidTiles: centroidTiles,
		TraceTiles:    traceTiles,
	}, nil
}

// RecomputePoint пересчитывает тайлы точки и затем ее улицы,
// так как центроид улицы зависит от позиций ее точек
func (uc *TileUseCase) RecomputePoint(ctx context.Context, id uuid.UUID) (domain.TileSet, error) {
	tiles, addr, err := uc.recomputePointOnly(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := uc.RecomputeStreet(ctx, addr.StreetID); err != nil {
		uc.logger.Warn("Failed to refresh street after address recompute",
			zap.String("numero_id", id.String()),
			zap.String("street_id", addr.StreetID.String()),
			zap.Error(err))
	}

	return tiles, nil
}

func (uc *TileUseCase) recomputePointOnly(ctx context.Context, id uuid.UUID) (tiles domain.TileSet, addr *domain.AddressPoint, err error) {
	started := time.Now()
	defer func() { metrics.ObserveRecompute(string(domain.EntityAddress), started, err) }()

	addr, err = uc.addressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	tiles = uc.ComputePointTiles(addr)
	if err = uc.addressRepo.UpdateTiles(ctx, id, tiles); err != nil {
		return nil, nil, err
	}

	uc.logger.Debug("Address tiles recomputed",
		zap.String("numero_id", id.String()),
		zap.Int("tiles", len(tiles)))
	return tiles, addr, nil
}

// RecomputeStreet пересчитывает и перезаписывает производные данные улицы
func (uc *TileUseCase) RecomputeStreet(ctx context.Context, id uuid.UUID) (tiles *domain.StreetTiles, err error) {
	started := time.Now()
	defer func() { metrics.ObserveRecompute(string(domain.EntityStreet), started, err) }()

	street, err := uc.streetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return uc.recomputeStreet(ctx, street)
}

func (uc *TileUseCase) recomputeStreet(ctx context.Context, street *domain.Street) (*domain.StreetTiles, error) {
	var points []*domain.AddressPoint
	if !street.HasTrace() {
		var err error
		points, err = uc.addressRepo.ListByStreet(ctx, street.ID)
		if err != nil {
			return nil, err
		}
	}

	tiles, err := uc.ComputeStreetTiles(street, points)
	if err != nil {
		return nil, err
	}

	if err := uc.streetRepo.UpdateTiles(ctx, street.ID, tiles); err != nil {
		return nil, err
	}

	if err := uc.cacheRepo.DeleteStreetTiles(ctx, street.ID); err != nil {
		uc.logger.Warn("Failed to invalidate street tiles cache",
			zap.String("street_id", street.ID.String()),
			zap.Error(err))
	}

	uc.logger.Debug("Street tiles recomputed",
		zap.String("street_id", street.ID.String()),
		zap.Int("centroid_tiles", len(tiles.CentroidTiles)),
		zap.Int("trace_tiles", len(tiles.TraceTiles)))
	return &tiles, nil
}

// RecomputeStreets пересчитывает улицы параллельно. Ошибка одной улицы
// попадает в отчет и не мешает остальным; ее прежние данные не трогаются.
func (uc *TileUseCase) RecomputeStreets(ctx context.Context, ids []uuid.UUID) (*domain.BatchReport, error) {
	results := make([]domain.RecomputeResult, len(ids))
	if len(ids) == 0 {
		return &domain.BatchReport{Results: results}, ctx.Err()
	}

	// Все улицы пачки читаются одним запросом
	loaded, loadErr := uc.streetRepo.GetByIDs(ctx, ids)
	if loadErr != nil {
		uc.logger.Error("Failed to load streets batch",
			zap.Int("total", len(ids)),
			zap.Error(loadErr))
	}
	byID := make(map[uuid.UUID]*domain.Street, len(loaded))
	for _, street := range loaded {
		byID[street.ID] = street
	}

	var g errgroup.Group
	g.SetLimit(uc.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			results[i] = uc.isolate(domain.EntityStreet, id, func() (err error) {
				started := time.Now()
				defer func() { metrics.ObserveRecompute(string(domain.EntityStreet), started, err) }()

				if loadErr != nil {
					return loadErr
				}
				street, ok := byID[id]
				if !ok {
					return errors.ErrStreetNotFound
				}
				_, err = uc.recomputeStreet(ctx, street)
				return err
			})
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.BatchReport{Results: make([]domain.RecomputeResult, 0, len(ids))}
	for _, res := range results {
		report.Add(res)
	}

	uc.logger.Info("Streets batch recomputed",
		zap.Int("total", len(ids)),
		zap.Int("success", report.SuccessCount),
		zap.Int("errors", report.ErrorCount))

	return report, ctx.Err()
}

// RecomputePoints пересчитывает точки параллельно, затем один раз
// каждую затронутую улицу
func (uc *TileUseCase) RecomputePoints(ctx context.Context, ids []uuid.UUID) (*domain.BatchReport, error) {
	results := make([]domain.RecomputeResult, len(ids))
	streetIDs := make([]uuid.UUID, len(ids))

	var g errgroup.Group
	g.SetLimit(uc.concurrency)

	for i, id := range ids {
		g.Go(func() error {
			results[i] = uc.isolate(domain.EntityAddress, id, func() error {
				_, addr, err := uc.recomputePointOnly(ctx, id)
				if err == nil {
					streetIDs[i] = addr.StreetID
				}
				return err
			})
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.BatchReport{Results: make([]domain.RecomputeResult, 0, len(ids))}
	for _, res := range results {
		report.Add(res)
	}

	streets, err := uc.RecomputeStreets(ctx, uniqueIDs(streetIDs))
	for _, res := range streets.Results {
		report.Add(res)
	}

	return report, err
}

// RecomputeBal пересчитывает все улицы адресной базы
func (uc *TileUseCase) RecomputeBal(ctx context.Context, balID uuid.UUID) (*domain.BatchReport, error) {
	ids, err := uc.streetRepo.ListIDsByBal(ctx, balID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Recomputing BAL streets",
		zap.String("bal_id", balID.String()),
		zap.Int("streets", len(ids)))

	return uc.RecomputeStreets(ctx, ids)
}

// GetStreetTiles читает сохраненные данные улицы через кеш
func (uc *TileUseCase) GetStreetTiles(ctx context.Context, id uuid.UUID) (*dto.StreetTilesResponse, error) {
	cached, err := uc.cacheRepo.GetStreetTiles(ctx, id)
	if err != nil {
		uc.logger.Warn("Failed to read street tiles from cache", zap.String("street_id", id.String()), zap.Error(err))
	}
	if cached != nil {
		return dto.NewStreetTilesResponse(id.String(), cached, true), nil
	}

	street, err := uc.streetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.cacheRepo.SetStreetTiles(ctx, id, &street.StreetTiles, uc.cacheTTL); err != nil {
		uc.logger.Warn("Failed to cache street tiles", zap.String("street_id", id.String()), zap.Error(err))
	}

	return dto.NewStreetTilesResponse(id.String(), &street.StreetTiles, false), nil
}

// CoverPoint покрывает произвольную точку; незаданные уровни берутся из конфигурации точек
func (uc *TileUseCase) CoverPoint(req dto.CoverPointRequest) (*dto.TileSetResponse, error) {
	zr := uc.zoom.Point
	if req.MinZoom != nil {
		zr.MinZoom = *req.MinZoom
	}
	if req.MaxZoom != nil {
		zr.MaxZoom = *req.MaxZoom
	}

	point := domain.GeoPoint{Lon: *req.Lon, Lat: *req.Lat}
	tiles, err := tilecover.CoverPoint(point, zr)
	if err != nil {
		return nil, mapCoverError(err)
	}

	return &dto.TileSetResponse{Tiles: tiles, Count: len(tiles)}, nil
}

// CoverLine покрывает линию на одном уровне; по умолчанию уровень трассы
func (uc *TileUseCase) CoverLine(req dto.CoverLineRequest) (*dto.TileSetResponse, error) {
	zoom := uc.zoom.Trace
	if req.Zoom != nil {
		zoom.Zoom = *req.Zoom
	}

	line := make(domain.LineGeometry, len(req.Coordinates))
	for i, c := range req.Coordinates {
		line[i] = domain.GeoPoint{Lon: c[0], Lat: c[1]}
	}

	tiles, err := tilecover.CoverLine(line, zoom)
	if err != nil {
		return nil, mapCoverError(err)
	}

	return &dto.TileSetResponse{Tiles: tiles, Count: len(tiles)}, nil
}

// isolate выполняет пересчет одной сущности, превращая ошибку или панику в результат отчета
func (uc *TileUseCase) isolate(kind domain.EntityKind, id uuid.UUID, fn func() error) (res domain.RecomputeResult) {
	res = domain.RecomputeResult{Kind: kind, ID: id}

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Panic during recompute",
				zap.String("kind", string(kind)),
				zap.String("id", id.String()),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
			res.Success = false
			res.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	if err := fn(); err != nil {
		uc.logger.Error("Failed to recompute tiles",
			zap.String("kind", string(kind)),
			zap.String("id", id.String()),
			zap.Error(err))
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

func mapCoverError(err error) error {
	switch {
	case stderrors.Is(err, tilecover.ErrInvalidZoom):
		return errors.ErrInvalidZoomRange
	case stderrors.Is(err, tilecover.ErrInvalidGeometry):
		return errors.ErrInvalidGeometry.WithMessage(err.Error())
	case stderrors.Is(err, tilecover.ErrTooManyTiles):
		return errors.ErrTooManyTiles
	default:
		return errors.ErrInternalServer
	}
}

// uniqueIDs убирает нулевые и повторяющиеся ID, сохраняя порядок
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
