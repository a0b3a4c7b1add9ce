// Package summary implements the feature extractor: it aggregates raw
// transaction records into the structured summaries the inference engines
// consume. Everything here is pure and deterministic; money is summed with
// decimals so long windows do not accumulate float drift.
package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgersage/ledgersage/internal/model"
)

// Top-N cutoffs for the category and merchant breakdowns.
const (
	topCategories = 10
	topMerchants  = 5
)

// smallPurchaseCeiling bounds what counts as a small, frequent purchase.
var smallPurchaseCeiling = decimal.NewFromInt(50)

// CategoryTotal is one category's share of spending in the window.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MerchantActivity is one merchant's visit count and total in the window.
type MerchantActivity struct {
	Merchant string
	Total    decimal.Decimal
	Count    int
}

// AmountStats describes the distribution of transaction amounts.
type AmountStats struct {
	Average        decimal.Decimal
	Median         decimal.Decimal
	LargePurchases int // amounts above 3x the average
	SmallFrequent  int // amounts under 50
}

// FinancialSummary is the ephemeral feature set computed from a lookback
// window of transactions. It is recomputed on demand and never persisted.
type FinancialSummary struct {
	WeekdaySpending  map[string]decimal.Decimal
	MonthlySpending  map[string]decimal.Decimal
	TotalSpending    decimal.Decimal
	Categories       []CategoryTotal
	Merchants        []MerchantActivity
	Amounts          AmountStats
	TransactionCount int
}

// DaysAgo returns the window start for a day-based lookback.
func DaysAgo(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

// MonthsAgo returns the window start for a calendar-month lookback.
func MonthsAgo(now time.Time, months int) time.Time {
	return now.AddDate(0, -months, 0)
}

// Calculate aggregates the given transactions into a FinancialSummary.
// An empty window yields a zeroed summary; no average ever divides by zero.
func Calculate(transactions []model.Transaction) FinancialSummary {
	s := FinancialSummary{
		WeekdaySpending:  make(map[string]decimal.Decimal),
		MonthlySpending:  make(map[string]decimal.Decimal),
		TotalSpending:    decimal.Zero,
		TransactionCount: len(transactions),
	}
	if len(transactions) == 0 {
		return s
	}

	categoryTotals := make(map[string]decimal.Decimal)
	merchantTotals := make(map[string]*MerchantActivity)
	amounts := make([]decimal.Decimal, 0, len(transactions))

	for i := range transactions {
		txn := &transactions[i]
		amount := decimal.NewFromFloat(txn.Amount).Abs()

		s.TotalSpending = s.TotalSpending.Add(amount)
		amounts = append(amounts, amount)

		category := txn.Category
		if category == "" {
			category = "Uncategorized"
		}
		categoryTotals[category] = categoryTotals[category].Add(amount)

		weekday := txn.Date.Weekday().String()
		s.WeekdaySpending[weekday] = s.WeekdaySpending[weekday].Add(amount)

		month := txn.Date.Format("2006-01")
		s.MonthlySpending[month] = s.MonthlySpending[month].Add(amount)

		merchant := txn.MerchantName
		if merchant == "" {
			merchant = "Unknown"
		}
		if activity, ok := merchantTotals[merchant]; ok {
			activity.Count++
			activity.Total = activity.Total.Add(amount)
		} else {
			merchantTotals[merchant] = &MerchantActivity{Merchant: merchant, Count: 1, Total: amount}
		}
	}

	s.Categories = rankCategories(categoryTotals)
	s.Merchants = rankMerchants(merchantTotals)
	s.Amounts = amountStats(amounts)

	return s
}

func rankCategories(totals map[string]decimal.Decimal) []CategoryTotal {
	ranked := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		ranked = append(ranked, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Total.Equal(ranked[j].Total) {
			return ranked[i].Total.GreaterThan(ranked[j].Total)
		}
		return ranked[i].Category < ranked[j].Category
	})
	if len(ranked) > topCategories {
		ranked = ranked[:topCategories]
	}
	return ranked
}

func rankMerchants(totals map[string]*MerchantActivity) []MerchantActivity {
	ranked := make([]MerchantActivity, 0, len(totals))
	for _, activity := range totals {
		ranked = append(ranked, *activity)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Total.Equal(ranked[j].Total) {
			return ranked[i].Total.GreaterThan(ranked[j].Total)
		}
		return ranked[i].Merchant < ranked[j].Merchant
	})
	if len(ranked) > topMerchants {
		ranked = ranked[:topMerchants]
	}
	return ranked
}

func amountStats(amounts []decimal.Decimal) AmountStats {
	if len(amounts) == 0 {
		return AmountStats{Average: decimal.Zero, Median: decimal.Zero}
	}

	stats := AmountStats{}

	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	stats.Average = total.Div(decimal.NewFromInt(int64(len(amounts))))

	sorted := make([]decimal.Decimal, len(amounts))
	copy(sorted, amounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	stats.Median = sorted[len(sorted)/2]

	largeCutoff := stats.Average.Mul(decimal.NewFromInt(3))
	for _, a := range amounts {
		if a.GreaterThan(largeCutoff) {
			stats.LargePurchases++
		}
		if a.LessThan(smallPurchaseCeiling) {
			stats.SmallFrequent++
		}
	}

	return stats
}
