package expense

import (
	"testing"
)

func summarizeCSV(t *testing.T, data string) *Profile {
	t.Helper()
	return Summarize(normalizeCSV(t, data))
}

func TestSummarizeEndToEnd(t *testing.T) {
	p := summarizeCSV(t,
		"date,amount,category,description\n"+
			"2024-01-05,-500,Food,Swiggy\n"+
			"2024-01-12,-500,Food,Swiggy\n"+
			"2024-01-19,-500,Food,Swiggy\n"+
			"2024-01-01,-2000,Rent,Landlord\n")

	if p.TotalOutflow != 3500 {
		t.Errorf("total_outflow = %v, want 3500", p.TotalOutflow)
	}

	if len(p.ByMonth) != 1 || p.ByMonth[0].Month != "2024-01" || p.ByMonth[0].Spend != 3500 {
		t.Errorf("by_month = %+v, want [{2024-01 3500}]", p.ByMonth)
	}

	if len(p.ByCategory) != 2 {
		t.Fatalf("by_category has %d entries, want 2", len(p.ByCategory))
	}
	if p.ByCategory[0].Category != "Rent" || p.ByCategory[0].Spend != 2000 {
		t.Errorf("by_category[0] = %+v, want {Rent 2000}", p.ByCategory[0])
	}
	if p.ByCategory[1].Category != "Food" || p.ByCategory[1].Spend != 1500 {
		t.Errorf("by_category[1] = %+v, want {Food 1500}", p.ByCategory[1])
	}

	// Rent hits the essentials keyword list, Food the discretionary one.
	if len(p.EssDisc) != 2 {
		t.Fatalf("ess_disc has %d entries, want 2", len(p.EssDisc))
	}
	if p.EssDisc[0].Bucket != BucketEssentials || p.EssDisc[0].Spend != 2000 {
		t.Errorf("ess_disc[0] = %+v, want {Essentials 2000}", p.EssDisc[0])
	}
	if p.EssDisc[1].Bucket != BucketDiscretionary || p.EssDisc[1].Spend != 1500 {
		t.Errorf("ess_disc[1] = %+v, want {Discretionary 1500}", p.EssDisc[1])
	}

	// Swiggy appears three times, Landlord only once.
	if len(p.Recurring) != 1 {
		t.Fatalf("recurring has %d entries, want 1", len(p.Recurring))
	}
	r := p.Recurring[0]
	if r.Description != "Swiggy" || r.Occurrences != 3 || r.TotalSpend != 1500 {
		t.Errorf("recurring[0] = %+v, want {Swiggy 3 1500}", r)
	}
}

func TestSummarizeRecurringThreshold(t *testing.T) {
	p := summarizeCSV(t,
		"amount,description\n"+
			"-100,Netflix\n-100,Netflix\n"+
			"-50,Swiggy\n-50,Swiggy\n-50,Swiggy\n")

	if len(p.Recurring) != 1 {
		t.Fatalf("recurring has %d entries, want 1 (two occurrences is below the threshold)", len(p.Recurring))
	}
	if p.Recurring[0].Description != "Swiggy" {
		t.Errorf("recurring[0] = %q, want Swiggy", p.Recurring[0].Description)
	}
}

func TestSummarizeRecurringCap(t *testing.T) {
	csv := "amount,description\n"
	for merchant := 0; merchant < 25; merchant++ {
		for i := 0; i < 3; i++ {
			csv += "-10,merchant-" + string(rune('a'+merchant)) + "\n"
		}
	}
	p := summarizeCSV(t, csv)

	if len(p.Recurring) != recurringTopN {
		t.Errorf("recurring has %d entries, want capped at %d", len(p.Recurring), recurringTopN)
	}
}

func TestSummarizeByMonthInsertionOrder(t *testing.T) {
	p := summarizeCSV(t,
		"date,amount\n"+
			"2024-03-01,-10\n"+
			"2024-01-01,-20\n"+
			"2024-03-15,-30\n")

	want := []MonthSpend{{Month: "2024-03", Spend: 40}, {Month: "2024-01", Spend: 20}}
	if len(p.ByMonth) != len(want) {
		t.Fatalf("by_month = %+v, want %+v", p.ByMonth, want)
	}
	for i := range want {
		if p.ByMonth[i] != want[i] {
			t.Errorf("by_month[%d] = %+v, want %+v", i, p.ByMonth[i], want[i])
		}
	}
}

func TestSummarizeEmptyTable(t *testing.T) {
	p := summarizeCSV(t, "date,amount,category,description\n")

	if p.TotalOutflow != 0 {
		t.Errorf("total_outflow = %v, want 0", p.TotalOutflow)
	}
	if p.ByMonth == nil || p.ByCategory == nil || p.EssDisc == nil || p.Recurring == nil {
		t.Error("profile collections must be initialized, not nil")
	}
	if len(p.ByMonth)+len(p.ByCategory)+len(p.EssDisc)+len(p.Recurring) != 0 {
		t.Errorf("expected empty collections, got %+v", p)
	}
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"Rent", BucketEssentials},
		{"Electricity Bill", BucketEssentials},
		{"Swiggy Orders", BucketDiscretionary},
		{"Food", BucketDiscretionary},
		{"Grocery Food", BucketEssentials}, // essentials rules run first
		{"Salary", BucketOther},
		{"", BucketOther},
	}

	for _, tt := range tests {
		if got := bucketFor(tt.category, DefaultBucketRules); got != tt.want {
			t.Errorf("bucketFor(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestSummarizeCategoryTiesStaySorted(t *testing.T) {
	p := summarizeCSV(t,
		"amount,category\n"+
			"-100,A\n"+
			"-100,B\n"+
			"-200,C\n")

	got := []string{p.ByCategory[0].Category, p.ByCategory[1].Category, p.ByCategory[2].Category}
	want := []string{"C", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("by_category order = %v, want %v", got, want)
			break
		}
	}
}
