package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"navtracker/internal/currency"
	apperrors "navtracker/internal/errors"
	"navtracker/internal/metrics"
	"navtracker/internal/models"
)

const (
	// DefaultSnapshotLimit bounds GetSnapshots when no limit is given.
	DefaultSnapshotLimit = 30
	maxSnapshotLimit     = 1000

	// DefaultYearlySpan is the number of past years GetYearlySnapshots covers.
	DefaultYearlySpan = 5
)

// navService computes net asset value and manages NAV snapshots.
type navService struct {
	db         *gorm.DB
	aggregator AggregatorServicer
	rates      *currency.Table
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewNAVService creates a new NAVServicer.
func NewNAVService(db *gorm.DB, aggregator AggregatorServicer, rates *currency.Table, m *metrics.Metrics) NAVServicer {
	return &navService{
		db:         db,
		aggregator: aggregator,
		rates:      rates,
		metrics:    m,
		now:        time.Now,
	}
}

// CalculateCurrentNAV derives the user's NAV from current records.
func (s *navService) CalculateCurrentNAV(userID string) (*NAV, error) {
	totalAssets, err := s.aggregator.TotalAssetsFor(userID)
	if err != nil {
		return nil, err
	}
	totalDebts, err := s.aggregator.TotalActiveDebtFor(userID)
	if err != nil {
		return nil, err
	}
	groups, err := s.aggregator.GroupBreakdown(userID)
	if err != nil {
		return nil, err
	}
	assetCount, err := s.aggregator.CountAssets(userID)
	if err != nil {
		return nil, err
	}
	debtCount, err := s.aggregator.CountActiveDebts(userID)
	if err != nil {
		return nil, err
	}

	return &NAV{
		TotalAssets:   totalAssets,
		TotalDebts:    totalDebts,
		NetAssetValue: totalAssets.Sub(totalDebts),
		Currency:      s.rates.Base(),
		Breakdown: Breakdown{
			AssetGroups: groups,
			AssetCount:  assetCount,
			DebtCount:   debtCount,
		},
	}, nil
}

// CreateSnapshot persists the current NAV stamped with the current time.
// Every call creates a new row.
func (s *navService) CreateSnapshot(userID string) (*models.NAVSnapshot, error) {
	nav, err := s.CalculateCurrentNAV(userID)
	if err != nil {
		return nil, err
	}

	// Stored figures are in cents; net is derived from the rounded totals so
	// it always equals assets minus debts.
	assets := nav.TotalAssets.Round(2)
	debts := nav.TotalDebts.Round(2)

	stored := nav.Breakdown
	stored.AssetGroups = make([]GroupTotal, len(nav.Breakdown.AssetGroups))
	for i, g := range nav.Breakdown.AssetGroups {
		g.TotalValue = g.TotalValue.Round(2)
		stored.AssetGroups[i] = g
	}

	breakdown, err := json.Marshal(stored)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	snapshot := &models.NAVSnapshot{
		UserID:        userID,
		TotalAssets:   assets,
		TotalDebts:    debts,
		NetAssetValue: assets.Sub(debts),
		Breakdown:     string(breakdown),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.db.Create(snapshot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.metrics.ObserveSnapshot()
	return snapshot, nil
}

// GetSnapshots returns the user's most recent snapshots, newest first.
func (s *navService) GetSnapshots(userID string, limit int) ([]models.NAVSnapshot, error) {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	if limit > maxSnapshotLimit {
		limit = maxSnapshotLimit
	}

	snapshots := []models.NAVSnapshot{}
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshots, nil
}

// GetSnapshotByID retrieves one snapshot owned by the user.
func (s *navService) GetSnapshotByID(userID, snapshotID string) (*models.NAVSnapshot, error) {
	var snapshot models.NAVSnapshot
	if err := s.db.Where("id = ? AND user_id = ?", snapshotID, userID).First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSnapshotNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &snapshot, nil
}

// GetSnapshotsByDateRange returns snapshots with start <= created_at <= end,
// oldest first.
func (s *navService) GetSnapshotsByDateRange(userID string, start, end time.Time) ([]models.NAVSnapshot, error) {
	if end.Before(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end must not be before start")
	}

	snapshots := []models.NAVSnapshot{}
	if err := s.db.Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, start.UTC(), end.UTC()).
		Order("created_at ASC, id ASC").
		Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshots, nil
}

// GetMonthlySnapshots returns the snapshots taken during the given calendar
// year (UTC), oldest first.
func (s *navService) GetMonthlySnapshots(userID string, year int) ([]models.NAVSnapshot, error) {
	start, end := yearBounds(year)
	return s.GetSnapshotsByDateRange(userID, start, end)
}

// GetYearlySnapshots returns the snapshots from Jan 1 of the year `years`
// before the current one through the end of the current year, oldest first.
func (s *navService) GetYearlySnapshots(userID string, years int) ([]models.NAVSnapshot, error) {
	if years <= 0 {
		years = DefaultYearlySpan
	}
	current := s.now().UTC().Year()
	start, _ := yearBounds(current - years)
	_, end := yearBounds(current)
	return s.GetSnapshotsByDateRange(userID, start, end)
}

// yearBounds returns Jan 1 00:00:00 and Dec 31 23:59:59 of year in UTC.
func yearBounds(year int) (time.Time, time.Time) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
}

// DecodeBreakdown parses the breakdown stored with a snapshot.
func DecodeBreakdown(snapshot *models.NAVSnapshot) (*Breakdown, error) {
	var b Breakdown
	if snapshot.Breakdown == "" {
		return &b, nil
	}
	if err := json.Unmarshal([]byte(snapshot.Breakdown), &b); err != nil {
		return nil, fmt.Errorf("decode snapshot %s breakdown: %w", snapshot.ID, err)
	}
	return &b, nil
}
