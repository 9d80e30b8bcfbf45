package core

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// AlertService implements C5: per-ingredient severity rollup, low-stock
// detection, and the categorical health score, grounded on
// original_source/src/application/inventory_alert.rs's CTE-based
// aggregation (reimplemented here as two in-process group-bys over the
// batches already loaded by BatchStore/CatalogReader, since the capability
// interfaces return whole slices rather than exposing raw SQL to the core).
type AlertService struct {
	batches BatchStore
	catalog CatalogReader
}

// NewAlertService wires the capability interfaces together.
func NewAlertService(batches BatchStore, catalog CatalogReader) *AlertService {
	return &AlertService{batches: batches, catalog: catalog}
}

// HealthBand is the banding of the health score.
type HealthBand string

const (
	BandExcellent HealthBand = "excellent"
	BandGood      HealthBand = "good"
	BandWarning   HealthBand = "warning"
	BandCritical  HealthBand = "critical"
)

// AlertReport is the external interface table's `get_alerts` output.
type AlertReport struct {
	Alerts      []Alert
	HealthScore int
	Band        HealthBand
	BadgeCount  int
}

// GetAlerts implements spec §4.5.
func (s *AlertService) GetAlerts(ctx context.Context, tenant TenantID, now time.Time) (*AlertReport, error) {
	batches, err := s.batches.ListActiveByIngredient(ctx, tenant)
	if err != nil {
		return nil, NewInternalError("failed to list active batches", err)
	}

	byIngredient := make(map[uuid.UUID][]Batch)
	for _, b := range batches {
		if b.Status != BatchActive || b.RemainingQuantity.IsZero() {
			continue
		}
		byIngredient[b.CatalogIngredientID] = append(byIngredient[b.CatalogIngredientID], b)
	}

	var alerts []Alert
	hasExpired, hasCritical, hasWarning := false, false, false

	for ingredientID, group := range byIngredient {
		minSeverity := SeverityOk
		total := ZeroQuantity
		for _, b := range group {
			sev := ClassifyExpiration(b.ExpiresAt, now)
			if sev.Rank() < minSeverity.Rank() {
				minSeverity = sev
			}
			total = total.Add(b.RemainingQuantity)
		}
		if minSeverity == SeverityOk || minSeverity == SeverityNoExpiration {
			continue
		}

		switch minSeverity {
		case SeverityExpired:
			hasExpired = true
		case SeverityCritical:
			hasCritical = true
		case SeverityWarning:
			hasWarning = true
		}

		alerts = append(alerts, Alert{
			Kind:          AlertExpiringBatch,
			Severity:      minSeverity,
			IngredientRef: ingredientID,
			CurrentValue:  total,
			Message:       fmt.Sprintf("%s stock is %s (%s remaining)", ingredientID, minSeverity, total),
		})
	}

	ingredients, err := s.catalog.ListActive(ctx)
	if err != nil {
		return nil, NewInternalError("failed to list catalog ingredients", err)
	}

	hasZeroStock := false
	hasLowStock := false
	for _, ing := range ingredients {
		override, err := s.catalog.FindOverride(ctx, tenant, ing.ID)
		if err != nil {
			return nil, NewInternalError("failed to load tenant ingredient override", err)
		}
		threshold := ing.MinStockThreshold
		if override != nil {
			threshold = override.MinStockThreshold
		}

		totalRemaining := ZeroQuantity
		for _, b := range byIngredient[ing.ID] {
			totalRemaining = totalRemaining.Add(b.RemainingQuantity)
		}

		switch {
		case totalRemaining.IsZero() && threshold.GreaterThan(ZeroQuantity):
			hasZeroStock = true
			hasLowStock = true
			alerts = append(alerts, Alert{
				Kind:          AlertLowStock,
				Severity:      SeverityCritical,
				IngredientRef: ing.ID,
				CurrentValue:  totalRemaining,
				Threshold:     &threshold,
				Message:       fmt.Sprintf("%s is out of stock", ing.ID),
			})
		case threshold.GreaterThan(ZeroQuantity) && threshold.Cmp(totalRemaining) >= 0:
			hasLowStock = true
			alerts = append(alerts, Alert{
				Kind:          AlertLowStock,
				Severity:      SeverityWarning,
				IngredientRef: ing.ID,
				CurrentValue:  totalRemaining,
				Threshold:     &threshold,
				Message:       fmt.Sprintf("%s is low on stock (%s remaining, threshold %s)", ing.ID, totalRemaining, threshold),
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})

	score := 100
	if hasExpired {
		score -= 40
	}
	if hasCritical {
		score -= 20
	}
	if hasWarning {
		score -= 10
	}
	if hasLowStock {
		score -= 15
	}
	if hasZeroStock {
		score -= 25
	}
	if score < 0 {
		score = 0
	}

	var band HealthBand
	switch {
	case score >= 90:
		band = BandExcellent
	case score >= 70:
		band = BandGood
	case score >= 40:
		band = BandWarning
	default:
		band = BandCritical
	}

	badgeCount := 0
	for _, a := range alerts {
		if a.Severity == SeverityExpired || a.Severity == SeverityCritical {
			badgeCount++
		}
	}

	return &AlertReport{
		Alerts:      alerts,
		HealthScore: score,
		Band:        band,
		BadgeCount:  badgeCount,
	}, nil
}
