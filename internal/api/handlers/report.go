package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"regexp"

	"github.com/gorilla/mux"

	"github.com/wonny/dahai/internal/contracts"
	"github.com/wonny/dahai/internal/report"
	"github.com/wonny/dahai/internal/s2_signals"
	"github.com/wonny/dahai/pkg/logger"
	"github.com/wonny/dahai/pkg/redis"
)

var datePattern = regexp.MustCompile(`^\d{8}$`)

// LedgerReader reads the persisted cumulative statistic
type LedgerReader interface {
	State(ctx context.Context) (contracts.LedgerState, error)
}

// ReportHandler serves the latest run artifacts
// ⭐ SSOT: 报告读取 API 只在这里
type ReportHandler struct {
	cache    *redis.Cache
	outDir   string
	ledger   LedgerReader
	registry *s2_signals.Registry
	logger   *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(cache *redis.Cache, outDir string, ledger LedgerReader, registry *s2_signals.Registry, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		cache:    cache,
		outDir:   outDir,
		ledger:   ledger,
		registry: registry,
		logger:   log,
	}
}

// StrategyItem describes one registered strategy
type StrategyItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Guide   string `json:"guide"`
	MinBars int    `json:"min_bars"`
}

// GetLatestConfluence returns the latest resonance report
// GET /api/confluence/latest?tier=core|watch
func (h *ReportHandler) GetLatestConfluence(w http.ResponseWriter, r *http.Request) {
	tier := contracts.Tier(r.URL.Query().Get("tier"))
	if tier != contracts.TierNone && tier != contracts.TierCore && tier != contracts.TierWatch {
		respondError(w, http.StatusBadRequest, "Invalid tier (valid: core, watch)")
		return
	}

	snap, err := h.latest(r.Context())
	if errors.Is(err, os.ErrNotExist) {
		respondError(w, http.StatusNotFound, "No confluence report yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to read confluence report")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve confluence report")
		return
	}

	if tier != contracts.TierNone {
		filtered := make([]contracts.ResonanceRecord, 0, len(snap.Records))
		for _, rec := range snap.Records {
			if rec.Tier() == tier {
				filtered = append(filtered, rec)
			}
		}
		snap.Records = filtered
	}

	respondJSON(w, http.StatusOK, snap)
}

// latest reads through the cache; a cache outage falls back to the report file
func (h *ReportHandler) latest(ctx context.Context) (*contracts.ConfluenceSnapshot, error) {
	var snap contracts.ConfluenceSnapshot
	err := h.cache.GetOrSet(ctx, redis.ConfluenceLatestKey(), &snap, redis.TTLShort, func() (interface{}, error) {
		return report.ReadConfluence(h.outDir)
	})
	if err == nil {
		return &snap, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	h.logger.WithError(err).Warn("Confluence cache unavailable, reading report file")
	return report.ReadConfluence(h.outDir)
}

// GetConfluenceByDate returns a published report of one run date
// GET /api/confluence/{date}
func (h *ReportHandler) GetConfluenceByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if !datePattern.MatchString(date) {
		respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYYMMDD)")
		return
	}

	var snap contracts.ConfluenceSnapshot
	found, err := h.cache.Get(r.Context(), redis.ConfluenceKey(date), &snap)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read confluence cache")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve confluence report")
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "No confluence report published for "+date)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// GetLedgerState returns the cumulative performance record
// GET /api/ledger/state
func (h *ReportHandler) GetLedgerState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var state contracts.LedgerState
	err := h.cache.GetOrSet(ctx, redis.LedgerStateKey(), &state, redis.TTLShort, func() (interface{}, error) {
		return h.ledger.State(ctx)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to load ledger state")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve ledger state")
		return
	}

	respondJSON(w, http.StatusOK, state)
}

// GetStrategies lists the enabled strategies in registry order
// GET /api/strategies
func (h *ReportHandler) GetStrategies(w http.ResponseWriter, r *http.Request) {
	items := make([]StrategyItem, 0, h.registry.Len())
	for _, s := range h.registry.All() {
		items = append(items, StrategyItem{
			ID:      s.ID(),
			Name:    s.Name(),
			Guide:   s.Guide(),
			MinBars: s.MinBars(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(items),
		"strategies": items,
	})
}
