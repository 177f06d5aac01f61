package finance

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/litepay/litepay/internal/models"
)

// monthLabel is the layout for monthly bucket labels.
const monthLabel = "Jan 2006"

// AggregateByPeriod buckets the user's expenses into fixed calendar windows
// for chart rendering: one bucket per day of the current month, the trailing
// 12 months, and the trailing 5 years, each oldest first.
//
// An expense is relevant if the user paid for it or holds a share of it.
// Relevant expenses contribute their full amount (not the user's share) to
// the bucket matching their date; expenses outside a window are silently
// omitted from that series.
func AggregateByPeriod(expenses []models.Expense, viewpoint string, now time.Time) models.PeriodSeries {
	year, month, _ := now.Date()
	loc := now.Location()

	series := models.PeriodSeries{
		Daily:   make([]models.PeriodBucket, daysInMonth(year, month)),
		Monthly: make([]models.PeriodBucket, 12),
		Yearly:  make([]models.PeriodBucket, 5),
	}
	for i := range series.Daily {
		series.Daily[i] = models.PeriodBucket{Label: strconv.Itoa(i + 1), Amount: decimal.Zero}
	}
	for i := range series.Monthly {
		// Oldest first: index 0 is 11 months ago, index 11 is now.
		m := time.Date(year, month-time.Month(11-i), 1, 0, 0, 0, 0, loc)
		series.Monthly[i] = models.PeriodBucket{Label: m.Format(monthLabel), Amount: decimal.Zero}
	}
	for i := range series.Yearly {
		series.Yearly[i] = models.PeriodBucket{Label: strconv.Itoa(year - 4 + i), Amount: decimal.Zero}
	}

	for _, expense := range expenses {
		if !expense.Involves(viewpoint) {
			continue
		}

		date := time.Unix(expense.Date, 0).In(loc)
		eYear, eMonth, eDay := date.Date()

		if eYear == year && eMonth == month {
			if idx := eDay - 1; idx >= 0 && idx < len(series.Daily) {
				series.Daily[idx].Amount = series.Daily[idx].Amount.Add(expense.Amount)
			}
		}

		monthDiff := (year*12 + int(month)) - (eYear*12 + int(eMonth))
		if monthDiff >= 0 && monthDiff < len(series.Monthly) {
			idx := len(series.Monthly) - 1 - monthDiff
			series.Monthly[idx].Amount = series.Monthly[idx].Amount.Add(expense.Amount)
		}

		yearDiff := year - eYear
		if yearDiff >= 0 && yearDiff < len(series.Yearly) {
			idx := len(series.Yearly) - 1 - yearDiff
			series.Yearly[idx].Amount = series.Yearly[idx].Amount.Add(expense.Amount)
		}
	}

	return series
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
