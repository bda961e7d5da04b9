package expense

import (
	"sort"
	"strings"
)

// Bucket labels for the coarse essentials/discretionary split.
const (
	BucketEssentials    = "Essentials"
	BucketDiscretionary = "Discretionary"
	BucketOther         = "Other"
)

// Recurring-merchant thresholds.
const (
	recurringMinOccurrences = 3
	recurringTopN           = 20
)

// BucketRule tags a category into a bucket when the lower-cased category
// contains any of the rule's keywords. Rules are evaluated in order; the
// first match wins.
type BucketRule struct {
	Bucket   string
	Keywords []string
}

// DefaultBucketRules is the stock rule table. Essentials is checked before
// Discretionary, so a category matching both lands in Essentials.
var DefaultBucketRules = []BucketRule{
	{
		Bucket: BucketEssentials,
		Keywords: []string{
			"rent", "utility", "electric", "water", "gas", "grocery", "fuel",
			"insurance", "emi", "loan", "medical", "health", "bill", "tuition", "fees",
		},
	},
	{
		Bucket: BucketDiscretionary,
		Keywords: []string{
			"swiggy", "zomato", "restaurant", "food", "shopping", "entertainment",
			"uber", "ola", "travel", "electronics", "gaming", "amazon", "flipkart", "myntra",
		},
	},
}

// MonthSpend is the aggregated outflow for one month key.
type MonthSpend struct {
	Month string  `json:"month"`
	Spend float64 `json:"spend"`
}

// CategorySpend is the aggregated outflow for one category.
type CategorySpend struct {
	Category string  `json:"category"`
	Spend    float64 `json:"spend"`
}

// BucketSpend is the aggregated outflow for one essentials/discretionary bucket.
type BucketSpend struct {
	Bucket string  `json:"bucket"`
	Spend  float64 `json:"spend"`
}

// RecurringMerchant is a description seen in at least three transactions.
type RecurringMerchant struct {
	Description string  `json:"description"`
	Occurrences int     `json:"occurrences"`
	TotalSpend  float64 `json:"total_spend"`
}

// Profile is the read-only aggregated snapshot of a normalized table. It is
// created fresh per upload and replaced wholesale, never mutated in place.
type Profile struct {
	TotalOutflow float64             `json:"total_outflow"`
	ByMonth      []MonthSpend        `json:"by_month"`
	ByCategory   []CategorySpend     `json:"by_category"`
	EssDisc      []BucketSpend       `json:"ess_disc"`
	Recurring    []RecurringMerchant `json:"recurring"`
}

// Summarize aggregates a normalized table with the default bucket rules.
func Summarize(nt *NormalizedTable) *Profile {
	return SummarizeWithRules(nt, DefaultBucketRules)
}

// SummarizeWithRules aggregates a normalized table into a Profile. An empty
// table yields total outflow 0 and empty collections; it never fails.
//
// Ordering contracts: by_month keeps group-insertion order (not chronological);
// by_category is stable-sorted descending by spend; recurring is stable-sorted
// descending by occurrence count and capped at the top 20.
func SummarizeWithRules(nt *NormalizedTable, rules []BucketRule) *Profile {
	p := &Profile{
		ByMonth:    []MonthSpend{},
		ByCategory: []CategorySpend{},
		EssDisc:    []BucketSpend{},
		Recurring:  []RecurringMerchant{},
	}

	var total float64

	monthIdx := map[string]int{}
	catIdx := map[string]int{}

	type descGroup struct {
		count int
		sum   float64
	}
	descIdx := map[string]int{}
	var descs []string
	var descGroups []descGroup

	for _, row := range nt.Rows {
		total += row.Amount

		if i, ok := monthIdx[row.Month]; ok {
			p.ByMonth[i].Spend += -row.Amount
		} else {
			monthIdx[row.Month] = len(p.ByMonth)
			p.ByMonth = append(p.ByMonth, MonthSpend{Month: row.Month, Spend: -row.Amount})
		}

		if i, ok := catIdx[row.Category]; ok {
			p.ByCategory[i].Spend += -row.Amount
		} else {
			catIdx[row.Category] = len(p.ByCategory)
			p.ByCategory = append(p.ByCategory, CategorySpend{Category: row.Category, Spend: -row.Amount})
		}

		if i, ok := descIdx[row.Description]; ok {
			descGroups[i].count++
			descGroups[i].sum += row.Amount
		} else {
			descIdx[row.Description] = len(descGroups)
			descs = append(descs, row.Description)
			descGroups = append(descGroups, descGroup{count: 1, sum: row.Amount})
		}
	}

	p.TotalOutflow = -total

	sort.SliceStable(p.ByCategory, func(i, j int) bool {
		return p.ByCategory[i].Spend > p.ByCategory[j].Spend
	})

	// Bucket totals follow the sorted category rows so ties keep the same
	// relative order as by_category.
	bucketIdx := map[string]int{}
	for _, c := range p.ByCategory {
		bucket := bucketFor(c.Category, rules)
		if i, ok := bucketIdx[bucket]; ok {
			p.EssDisc[i].Spend += c.Spend
		} else {
			bucketIdx[bucket] = len(p.EssDisc)
			p.EssDisc = append(p.EssDisc, BucketSpend{Bucket: bucket, Spend: c.Spend})
		}
	}

	for i, d := range descs {
		g := descGroups[i]
		if g.count < recurringMinOccurrences {
			continue
		}
		p.Recurring = append(p.Recurring, RecurringMerchant{
			Description: d,
			Occurrences: g.count,
			TotalSpend:  -g.sum,
		})
	}
	sort.SliceStable(p.Recurring, func(i, j int) bool {
		return p.Recurring[i].Occurrences > p.Recurring[j].Occurrences
	})
	if len(p.Recurring) > recurringTopN {
		p.Recurring = p.Recurring[:recurringTopN]
	}

	return p
}

func bucketFor(category string, rules []BucketRule) string {
	lower := strings.ToLower(category)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Bucket
			}
		}
	}
	return BucketOther
}
