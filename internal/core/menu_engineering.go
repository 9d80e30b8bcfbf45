package core

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// SaleService implements C7: sale event logging and BCG x ABC menu
// engineering classification.
type SaleService struct {
	sales SaleLog
}

// NewSaleService wires the SaleLog capability interface.
func NewSaleService(sales SaleLog) *SaleService {
	return &SaleService{sales: sales}
}

// RecordSale appends one DishSale row (spec §4.7): "Append is unconditional
// (a loss is a valid sale)".
func (s *SaleService) RecordSale(ctx context.Context, tenant TenantID, dish uuid.UUID, user UserID, quantity int, sellingPrice, recipeCost Money, soldAt time.Time) error {
	if quantity <= 0 {
		return NewValidationError("sale quantity must be positive")
	}
	perUnitProfit, err := sellingPrice.Sub(recipeCost)
	if err != nil {
		return err
	}
	totalProfit := NewSignedMoney(perUnitProfit.Cents() * int64(quantity))

	return wrapInternal(s.sales.Append(ctx, DishSale{
		TenantID:     tenant,
		DishID:       dish,
		UserID:       user,
		Quantity:     quantity,
		SellingPrice: sellingPrice,
		RecipeCost:   recipeCost,
		Profit:       totalProfit,
		SoldAt:       soldAt,
	}), "failed to append sale")
}

func wrapInternal(err error, msg string) error {
	if err == nil {
		return nil
	}
	return NewInternalError(msg, err)
}

// BCGClass is the Boston Consulting Group matrix classification of a dish.
type BCGClass string

const (
	BCGStar      BCGClass = "star"
	BCGPlowhorse BCGClass = "plowhorse"
	BCGPuzzle    BCGClass = "puzzle"
	BCGDog       BCGClass = "dog"
)

// ABCClass is the Pareto revenue classification of a dish.
type ABCClass string

const (
	ABCClassA ABCClass = "A"
	ABCClassB ABCClass = "B"
	ABCClassC ABCClass = "C"
)

const (
	profitableMarginThreshold = 60.0
	popularThreshold          = 0.7
	abcClassABoundary         = 0.80
	abcClassBBoundary         = 0.95
)

// ClassifyBCG implements spec §4.7 step 5's fixed thresholds.
func ClassifyBCG(marginPct float64, popularity float64) BCGClass {
	profitable := marginPct >= profitableMarginThreshold
	popular := popularity >= popularThreshold
	switch {
	case profitable && popular:
		return BCGStar
	case !profitable && popular:
		return BCGPlowhorse
	case profitable && !popular:
		return BCGPuzzle
	default:
		return BCGDog
	}
}

// DishPerformance is one row of the menu-engineering output.
type DishPerformance struct {
	DishID             uuid.UUID
	DishName           string
	Volume             int64
	Revenue            Money
	Profit             Money
	AvgMarginPct       float64
	Popularity         float64
	CumulativeRevenueShare float64
	BCG                BCGClass
	ABC                ABCClass
	Recommendation     string
}

// MenuEngineeringMatrix is the external interface table's `analyze_menu` output.
type MenuEngineeringMatrix struct {
	Dishes           []DishPerformance
	Stars            int
	Plowhorses       int
	Puzzles          int
	Dogs             int
	AvgProfitMargin  float64
	TotalRevenue     Money
	TotalProfit      Money
}

// AnalyzeMenu implements spec §4.7.
func (s *SaleService) AnalyzeMenu(ctx context.Context, tenant TenantID, language string, windowDays int, now time.Time) (*MenuEngineeringMatrix, error) {
	since := now.AddDate(0, 0, -windowDays)
	aggregates, err := s.sales.AggregateByDish(ctx, tenant, since, now)
	if err != nil {
		return nil, NewInternalError("failed to aggregate sales", err)
	}
	if len(aggregates) == 0 {
		return &MenuEngineeringMatrix{}, nil
	}

	var maxVolume int64
	for _, a := range aggregates {
		if a.Volume > maxVolume {
			maxVolume = a.Volume
		}
	}

	sort.SliceStable(aggregates, func(i, j int) bool {
		return aggregates[i].Revenue.Cents() > aggregates[j].Revenue.Cents()
	})

	totalRevenue := ZeroMoney
	for _, a := range aggregates {
		sum, err := totalRevenue.Add(a.Revenue)
		if err != nil {
			return nil, err
		}
		totalRevenue = sum
	}

	var performances []DishPerformance
	cumulativeRevenue := int64(0)
	totalProfit := ZeroMoney
	marginSum := 0.0

	for _, a := range aggregates {
		cumulativeRevenue += a.Revenue.Cents()
		share := 0.0
		if totalRevenue.Cents() > 0 {
			share = float64(cumulativeRevenue) / float64(totalRevenue.Cents())
		}

		var abc ABCClass
		switch {
		case share <= abcClassABoundary:
			abc = ABCClassA
		case share <= abcClassBBoundary:
			abc = ABCClassB
		default:
			abc = ABCClassC
		}

		popularity := 0.0
		if maxVolume > 0 {
			popularity = float64(a.Volume) / float64(maxVolume)
		}

		bcg := ClassifyBCG(a.AvgMarginPct, popularity)

		performances = append(performances, DishPerformance{
			DishID:                 a.DishID,
			DishName:               a.DishName,
			Volume:                 a.Volume,
			Revenue:                a.Revenue,
			Profit:                 a.Profit,
			AvgMarginPct:           a.AvgMarginPct,
			Popularity:             popularity,
			CumulativeRevenueShare: share,
			BCG:                    bcg,
			ABC:                    abc,
			Recommendation:         recommendationFor(bcg, abc, language),
		})

		sum, err := totalProfit.Add(a.Profit)
		if err != nil {
			return nil, err
		}
		totalProfit = sum
		marginSum += a.AvgMarginPct
	}

	sort.SliceStable(performances, func(i, j int) bool {
		return performances[i].Profit.Cents() > performances[j].Profit.Cents()
	})

	matrix := &MenuEngineeringMatrix{
		Dishes:          performances,
		AvgProfitMargin: marginSum / float64(len(performances)),
		TotalRevenue:    totalRevenue,
		TotalProfit:     totalProfit,
	}
	for _, p := range performances {
		switch p.BCG {
		case BCGStar:
			matrix.Stars++
		case BCGPlowhorse:
			matrix.Plowhorses++
		case BCGPuzzle:
			matrix.Puzzles++
		case BCGDog:
			matrix.Dogs++
		}
	}
	return matrix, nil
}
