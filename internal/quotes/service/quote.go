package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	quoteserrors "houseboat/internal/quotes/errors"
	"houseboat/internal/quotes/events"
	"houseboat/internal/quotes/repository"
	"houseboat/pkg/config"
	"houseboat/pkg/engine"
	apperrors "houseboat/pkg/errors"
	"houseboat/pkg/logger"
	"houseboat/pkg/metrics"
	"houseboat/pkg/middleware"
	"houseboat/pkg/model"
	"houseboat/pkg/sanitizer"
	"houseboat/pkg/slot"

	"github.com/google/uuid"
)

type QuoteService interface {
	Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResult, error)
	UnitAvailability(ctx context.Context, unitID string, iv slot.Interval) (*engine.UnitStatus, error)
	SeasonLabel(ctx context.Context, date time.Time) (string, error)
}

type quoteService struct {
	repo      repository.FleetRepository
	engine    *engine.Engine
	publisher events.Publisher
	cfg       *config.Config
	newID     func() string
}

func NewQuoteService(
	repo repository.FleetRepository,
	eng *engine.Engine,
	publisher events.Publisher,
	cfg *config.Config,
) QuoteService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &quoteService{
		repo:      repo,
		engine:    eng,
		publisher: publisher,
		cfg:       cfg,
		newID:     uuid.NewString,
	}
}

func (s *quoteService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResult, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Quote request cannot be empty")
	}
	s.sanitize(req)

	// reject a broken interval before reading anything
	if err := req.Interval().Validate(); err != nil {
		return nil, apperrors.Validation("Quote request validation failed", map[string]any{
			"errors": engine.ValidationErrors{{Field: "end", Message: err.Error()}},
		})
	}

	log := s.cfg.Log.With("request_id", middleware.RequestID(ctx))

	start := time.Now()
	snap, err := s.repo.LoadSnapshot(ctx, req.Interval())
	metrics.SnapshotLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Error("Failed to load fleet snapshot",
			"start", req.Start.String(),
			"end", req.End.String(),
			"error", err,
		)
		return nil, apperrors.Unavailable("Fleet snapshot", err)
	}
	normalizeSnapshot(snap)

	result, err := s.engine.Quote(snap, req)
	if err != nil {
		return nil, s.mapEngineError(log, "Quote", err)
	}
	result.ID = s.newID()

	for _, w := range result.Warnings {
		metrics.QuoteWarnings.WithLabelValues(string(w.Code)).Inc()
		log.Warn("Skipped inconsistent reservation",
			"quote_id", result.ID,
			"code", w.Code,
			"reservation_id", w.ReservationID,
			"unit_id", w.UnitID,
		)
	}
	metrics.QuoteOutcomes.WithLabelValues(string(result.Mode), string(result.Outcome)).Inc()
	if result.Mode == model.ModePackage {
		metrics.PackageCombinations.Observe(float64(result.Evaluated))
	}

	if err := s.publisher.Publish(ctx, result); err != nil {
		log.Warn("Failed to publish quote event", "quote_id", result.ID, "error", err)
	}

	log.Info("Quote computed",
		"quote_id", result.ID,
		"mode", result.Mode,
		"outcome", result.Outcome,
		"guest_count", result.GuestCount,
		"unit_count", result.UnitCount,
		"candidates", len(result.Candidates),
		"packages", len(result.Packages),
		"evaluated", result.Evaluated,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

func (s *quoteService) UnitAvailability(ctx context.Context, unitID string, iv slot.Interval) (*engine.UnitStatus, error) {
	unitID = sanitizer.SanitizeID(unitID)
	if unitID == "" {
		return nil, apperrors.InvalidInput("Unit ID cannot be empty")
	}
	if err := iv.Validate(); err != nil {
		return nil, apperrors.Validation("Availability request validation failed", map[string]any{
			"errors": engine.ValidationErrors{{Field: "end", Message: err.Error()}},
		})
	}

	if _, err := s.repo.FindUnit(ctx, unitID); err != nil {
		if errors.Is(err, quoteserrors.ErrUnitNotFound) {
			return nil, apperrors.NotFoundWithID("Unit", unitID)
		}
		s.cfg.Log.Error("Failed to find unit", "unit_id", unitID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve unit", err)
	}

	reservations, err := s.repo.FindUnitReservations(ctx, unitID, iv)
	if err != nil {
		s.cfg.Log.Error("Failed to find unit reservations", "unit_id", unitID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservations", err)
	}

	status, err := s.engine.UnitAvailability(unitID, iv, reservations)
	if err != nil {
		return nil, s.mapEngineError(s.cfg.Log, "UnitAvailability", err)
	}
	return &status, nil
}

func (s *quoteService) SeasonLabel(ctx context.Context, date time.Time) (string, error) {
	if date.IsZero() {
		return "", apperrors.InvalidInput("Date cannot be empty")
	}
	seasons, err := s.repo.FindSeasons(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to find tariff seasons", "error", err)
		return "", apperrors.Internal("Failed to retrieve tariff seasons", err)
	}
	normalizeSeasons(seasons)
	return s.engine.SeasonLabel(seasons, date), nil
}

func (s *quoteService) mapEngineError(log *logger.Logger, operation string, err error) error {
	var validationErrs engine.ValidationErrors
	if errors.As(err, &validationErrs) {
		log.Warn("Request validation failed", "operation", operation, "error", err)
		return apperrors.Validation(fmt.Sprintf("%s request validation failed", operation), map[string]any{
			"errors": validationErrs,
		})
	}
	log.Error("Engine failed", "operation", operation, "error", err)
	return apperrors.Internal("Failed to compute quote", err)
}

// sanitize trims ids and merges repeated extras into one line.
func (s *quoteService) sanitize(req *model.QuoteRequest) {
	if len(req.SelectedExtras) == 0 {
		return
	}
	merged := make([]model.SelectedExtra, 0, len(req.SelectedExtras))
	index := make(map[string]int, len(req.SelectedExtras))
	for _, e := range req.SelectedExtras {
		e.ID = sanitizer.SanitizeID(e.ID)
		if i, ok := index[e.ID]; ok && e.ID != "" {
			merged[i].Quantity += e.Quantity
			continue
		}
		index[e.ID] = len(merged)
		merged = append(merged, e)
	}
	req.SelectedExtras = merged
}

// normalizeSnapshot tidies hand-edited records: season names get their
// whitespace collapsed and extra class lists are trimmed and deduplicated.
// A class list that sanitizes to nothing is left alone so that it never
// widens to every class.
func normalizeSnapshot(snap *model.Snapshot) {
	for i := range snap.Extras {
		if len(snap.Extras[i].ClassIDs) == 0 {
			continue
		}
		if ids := sanitizer.SanitizeSlice(snap.Extras[i].ClassIDs, sanitizer.SanitizeID); len(ids) > 0 {
			snap.Extras[i].ClassIDs = ids
		}
	}
	normalizeSeasons(snap.Seasons)
}

func normalizeSeasons(seasons []model.TariffSeason) {
	for i := range seasons {
		seasons[i].Name = sanitizer.NormalizeName(seasons[i].Name)
	}
}
