package purchasing

import (
	"strings"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PerformanceRating buckets an overall score
type PerformanceRating string

const (
	RatingExcellent PerformanceRating = "excellent"
	RatingGood      PerformanceRating = "good"
	RatingFair      PerformanceRating = "fair"
	RatingPoor      PerformanceRating = "poor"
)

var (
	excellentScore = decimal.NewFromInt(90)
	goodScore      = decimal.NewFromInt(75)
	fairScore      = decimal.NewFromInt(60)
	maxScore       = decimal.NewFromInt(100)
)

// RatingFor returns the rating bucket of a score
func RatingFor(score decimal.Decimal) PerformanceRating {
	switch {
	case score.GreaterThanOrEqual(excellentScore):
		return RatingExcellent
	case score.GreaterThanOrEqual(goodScore):
		return RatingGood
	case score.GreaterThanOrEqual(fairScore):
		return RatingFair
	default:
		return RatingPoor
	}
}

// Scores are the four evaluated dimensions, each 0..100
type Scores struct {
	Quality       decimal.Decimal
	Delivery      decimal.Decimal
	Price         decimal.Decimal
	Communication decimal.Decimal
}

// Overall returns the mean of the four scores rounded to two places
func (s Scores) Overall() decimal.Decimal {
	return s.Quality.Add(s.Delivery).Add(s.Price).Add(s.Communication).Div(decimal.NewFromInt(4)).Round(2)
}

// SupplierPerformance is an append-only evaluation of a supplier over a period
type SupplierPerformance struct {
	shared.TenantRecord
	SupplierID  uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	Scores
	OverallScore       decimal.Decimal
	OnTimeDeliveryRate *decimal.Decimal
	Comments           string
	EvaluatedBy        uuid.UUID
}

// NewSupplierPerformance validates and creates an evaluation
func NewSupplierPerformance(supplier *Supplier, periodStart, periodEnd time.Time, scores Scores, onTimeRate *decimal.Decimal, comments string, evaluatedBy uuid.UUID) (*SupplierPerformance, error) {
	v := &shared.ValidationError{}
	if periodStart.IsZero() {
		v.Add("period_start", "Period start is required")
	}
	if periodEnd.Before(periodStart) {
		v.Add("period_end", "Period end cannot be before period start")
	}
	for field, s := range map[string]decimal.Decimal{
		"quality_score": scores.Quality, "delivery_score": scores.Delivery,
		"price_score": scores.Price, "communication_score": scores.Communication,
	} {
		if s.IsNegative() || s.GreaterThan(maxScore) {
			v.Add(field, "Score must be between 0 and 100")
		}
	}
	if onTimeRate != nil && (onTimeRate.IsNegative() || onTimeRate.GreaterThan(maxScore)) {
		v.Add("on_time_delivery_rate", "Rate must be between 0 and 100")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return &SupplierPerformance{
		TenantRecord:       shared.NewTenantRecord(supplier.TenantID),
		SupplierID:         supplier.ID,
		PeriodStart:        truncateDay(periodStart),
		PeriodEnd:          truncateDay(periodEnd),
		Scores:             scores,
		OverallScore:       scores.Overall(),
		OnTimeDeliveryRate: onTimeRate,
		Comments:           strings.TrimSpace(comments),
		EvaluatedBy:        evaluatedBy,
	}, nil
}

// Rating returns the bucket of the overall score
func (p *SupplierPerformance) Rating() PerformanceRating {
	return RatingFor(p.OverallScore)
}

// PerformanceSummary aggregates all evaluations of one supplier
type PerformanceSummary struct {
	SupplierID           uuid.UUID
	EvaluationCount      int64
	AverageQuality       decimal.Decimal
	AverageDelivery      decimal.Decimal
	AveragePrice         decimal.Decimal
	AverageCommunication decimal.Decimal
	AverageOverall       decimal.Decimal
	Latest               *SupplierPerformance
}

// Rating returns the bucket of the average overall score
func (s PerformanceSummary) Rating() PerformanceRating {
	return RatingFor(s.AverageOverall)
}
