package services

import (
	"context"
	"strings"
	"time"

	"github.com/labcore/results-export-service/internal/repositories"
	"github.com/labcore/results-export-service/internal/utils"
)

const (
	// InputDateLayout is the day-month-year format the operator types.
	InputDateLayout = "02-01-2006"

	// FilterLayout is the 8-digit identifier prefix encoding.
	FilterLayout = "20060102"
)

// DateResolver turns the requested date text into an identifier filter. When
// the requested date has no records it substitutes the most recent date that
// does. The probe is advisory: a zero-row export later is still handled
// gracefully by the exporter.
type DateResolver struct {
	repo   repositories.ReportRepository
	logger utils.Logger
}

func NewDateResolver(repo repositories.ReportRepository, logger utils.Logger) *DateResolver {
	return &DateResolver{repo: repo, logger: logger}
}

// Resolve parses requestedText (falling back to today on bad input), builds
// the yyyyMMdd filter and its dd-mm-yyyy display form, and applies the
// fallback search when the requested date matches nothing.
func (r *DateResolver) Resolve(ctx context.Context, requestedText string, today time.Time) (filter, displayDate string) {
	day := today
	if text := strings.TrimSpace(requestedText); text != "" {
		parsed, err := time.Parse(InputDateLayout, text)
		if err != nil {
			r.logger.Warn("invalid date input, using current date",
				"input", text,
				"current_date", today.Format(InputDateLayout))
		} else {
			day = parsed
		}
	}

	filter = day.Format(FilterLayout)
	displayDate = day.Format(InputDateLayout)

	count, err := r.repo.CountByDatePrefix(ctx, filter)
	if err != nil {
		r.logger.LogError(err, "date probe failed", "filter", filter)
		return filter, displayDate
	}
	if count > 0 {
		r.logger.Info("records found for requested date", "filter", filter, "count", count)
		return filter, displayDate
	}

	// The search always takes the maximum identifier overall, not the
	// closest one at or before the requested date.
	latest, err := r.repo.LatestNumericDatePrefix(ctx)
	if err != nil {
		r.logger.LogError(err, "fallback date search failed", "filter", filter)
		return filter, displayDate
	}
	if latest == "" {
		r.logger.Warn("no dated records exist in the store", "filter", filter)
		return filter, displayDate
	}

	filter = latest
	if parsed, err := time.Parse(FilterLayout, latest); err != nil {
		displayDate = latest
	} else {
		displayDate = parsed.Format(InputDateLayout)
	}

	r.logger.Info("no data for requested date, using most recent available",
		"requested", day.Format(InputDateLayout),
		"resolved", displayDate,
		"filter", filter)

	return filter, displayDate
}
