package tabular

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcastellanos/InvoiceRAG/internal/domain/invoiceModel"
)

const topEntries = 5

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName maps 1-12 to a fixed English month name.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d", month)
	}
	return monthNames[month-1]
}

// Synthesize turns normalized records into one sentence document per record
// plus, for non-empty input, four aggregate summary documents.
func Synthesize(records []invoiceModel.Record) []invoiceModel.Document {
	docs := make([]invoiceModel.Document, 0, len(records)+4)

	for _, r := range records {
		docs = append(docs, invoiceModel.Document{
			Key: fmt.Sprintf("invoice_%d", r.Row),
			Text: fmt.Sprintf(
				"Invoice %d: on %s, client %s from %s generated an amount of %.2f.",
				r.Row, r.Date.Format("02/01/2006"), r.Client, r.Country, r.Amount,
			),
			Tags: map[string]any{
				"kind":    invoiceModel.DocKindRecord,
				"client":  r.Client,
				"country": r.Country,
				"date":    r.Date.Format("2006-01-02"),
				"amount":  r.Amount,
				"month":   r.Month,
				"year":    r.Year,
			},
		})
	}

	if len(records) == 0 {
		return docs
	}

	docs = append(docs,
		overallSummary(records),
		groupSummary(records, invoiceModel.SummaryByClient, "stats_clients",
			"Summary by client:", func(r invoiceModel.Record) string { return r.Client }),
		groupSummary(records, invoiceModel.SummaryByCountry, "stats_countries",
			"Summary by country:", func(r invoiceModel.Record) string { return r.Country }),
		monthSummary(records),
	)
	return docs
}

func overallSummary(records []invoiceModel.Record) invoiceModel.Document {
	first := records[0]
	sum := 0.0
	minAmount, maxAmount := first.Amount, first.Amount
	minDate, maxDate := first.Date, first.Date
	clients := make(map[string]struct{})
	countries := make(map[string]struct{})

	for _, r := range records {
		sum += r.Amount
		if r.Amount < minAmount {
			minAmount = r.Amount
		}
		if r.Amount > maxAmount {
			maxAmount = r.Amount
		}
		if r.Date.Before(minDate) {
			minDate = r.Date
		}
		if r.Date.After(maxDate) {
			maxDate = r.Date
		}
		clients[r.Client] = struct{}{}
		countries[r.Country] = struct{}{}
	}

	text := fmt.Sprintf(
		"Overall invoice summary:\n"+
			"Total invoices: %d\n"+
			"Total amount: %.2f\n"+
			"Average amount: %.2f\n"+
			"Minimum amount: %.2f\n"+
			"Maximum amount: %.2f\n"+
			"Period: %s to %s\n"+
			"Distinct clients: %d\n"+
			"Distinct countries: %d",
		len(records), sum, sum/float64(len(records)), minAmount, maxAmount,
		minDate.Format("02/01/2006"), maxDate.Format("02/01/2006"),
		len(clients), len(countries),
	)

	return invoiceModel.Document{
		Key:  "stats_overall",
		Text: text,
		Tags: summaryTags(invoiceModel.SummaryOverall),
	}
}

func groupSummary(records []invoiceModel.Record, subtype, key, header string, groupBy func(invoiceModel.Record) string) invoiceModel.Document {
	sums := make(map[string]float64)
	for _, r := range records {
		sums[groupBy(r)] += r.Amount
	}

	lines := []string{header}
	for _, entry := range rankBySum(sums, topEntries) {
		lines = append(lines, fmt.Sprintf("- %s: %.2f", entry.key, entry.sum))
	}

	return invoiceModel.Document{
		Key:  key,
		Text: strings.Join(lines, "\n"),
		Tags: summaryTags(subtype),
	}
}

func monthSummary(records []invoiceModel.Record) invoiceModel.Document {
	sums := make(map[int]float64)
	for _, r := range records {
		sums[r.Month] += r.Amount
	}

	months := make([]int, 0, len(sums))
	for m := range sums {
		months = append(months, m)
	}
	//descending by sum, equal sums in calendar order
	sort.Slice(months, func(i, j int) bool {
		if sums[months[i]] != sums[months[j]] {
			return sums[months[i]] > sums[months[j]]
		}
		return months[i] < months[j]
	})

	lines := []string{"Summary by month:"}
	for _, m := range months {
		lines = append(lines, fmt.Sprintf("- %s: %.2f", MonthName(m), sums[m]))
	}

	return invoiceModel.Document{
		Key:  "stats_months",
		Text: strings.Join(lines, "\n"),
		Tags: summaryTags(invoiceModel.SummaryByMonth),
	}
}

type rankedEntry struct {
	key string
	sum float64
}

// rankBySum orders descending by sum; equal sums break lexicographically so
// the top-5 listings are deterministic across runs.
func rankBySum(sums map[string]float64, limit int) []rankedEntry {
	entries := make([]rankedEntry, 0, len(sums))
	for k, s := range sums {
		entries = append(entries, rankedEntry{key: k, sum: s})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].sum != entries[j].sum {
			return entries[i].sum > entries[j].sum
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func summaryTags(subtype string) map[string]any {
	return map[string]any{
		"kind":    invoiceModel.DocKindSummary,
		"subtype": subtype,
	}
}
