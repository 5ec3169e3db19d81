package payments

import (
	"testing"
)

func TestDefaultFilters(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     Filters
	}{
		{"configured size", 10, Filters{Page: 1, PageSize: 10}},
		{"zero falls back", 0, Filters{Page: 1, PageSize: DefaultPageSize}},
		{"negative falls back", -3, Filters{Page: 1, PageSize: DefaultPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultFilters(tt.pageSize); got != tt.want {
				t.Errorf("DefaultFilters(%d) = %+v, want %+v", tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestCommit(t *testing.T) {
	current := Filters{Search: "old", Currency: "EUR", Page: 4, PageSize: 20}
	got := Commit(current, Inputs{Search: "acme", Currency: "GBP"})

	want := Filters{Search: "acme", Currency: "GBP", Page: 1, PageSize: 20}
	if got != want {
		t.Errorf("Commit() = %+v, want %+v", got, want)
	}

	// The argument is a value; the caller's copy must be unchanged.
	if current.Page != 4 || current.Search != "old" {
		t.Errorf("Commit mutated its input: %+v", current)
	}
}

func TestCommit_EmptyInputsClearCommittedValues(t *testing.T) {
	got := Commit(Filters{Search: "x", Currency: "USD", Page: 2, PageSize: 5}, Inputs{})
	want := Filters{Page: 1, PageSize: 5}
	if got != want {
		t.Errorf("Commit() = %+v, want %+v", got, want)
	}
}

func TestClear(t *testing.T) {
	filters, inputs := Clear(Filters{Search: "acme", Currency: "USD", Page: 3, PageSize: 7})

	if want := (Filters{Page: 1, PageSize: 7}); filters != want {
		t.Errorf("Clear() filters = %+v, want %+v", filters, want)
	}
	if inputs != (Inputs{}) {
		t.Errorf("Clear() inputs = %+v, want empty", inputs)
	}
}

func TestHasActiveFilters(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"none", Filters{Page: 1, PageSize: 5}, false},
		{"search only", Filters{Search: "a"}, true},
		{"currency only", Filters{Currency: "USD"}, true},
		{"both", Filters{Search: "a", Currency: "USD"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasActiveFilters(tt.filters); got != tt.want {
				t.Errorf("HasActiveFilters(%+v) = %v, want %v", tt.filters, got, tt.want)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    string
	}{
		{
			name:    "all parameters",
			filters: Filters{Search: "test", Currency: "USD", Page: 1, PageSize: 10},
			want:    "currency=USD&page=1&pageSize=10&search=test",
		},
		{
			name:    "no search or currency",
			filters: Filters{Page: 2, PageSize: 5},
			want:    "page=2&pageSize=5",
		},
		{
			name:    "currency only",
			filters: Filters{Currency: "GBP", Page: 1, PageSize: 5},
			want:    "currency=GBP&page=1&pageSize=5",
		},
		{
			name:    "search is encoded",
			filters: Filters{Search: "a&b c", Page: 1, PageSize: 5},
			want:    "page=1&pageSize=5&search=a%26b+c",
		},
		{
			name:    "out of range values pass through",
			filters: Filters{Page: 0, PageSize: -1},
			want:    "page=0&pageSize=-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.filters).Encode(); got != tt.want {
				t.Errorf("BuildQuery().Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusPending, StatusFailed, StatusRefunded} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("chargeback").Valid() {
		t.Error("unknown status should not be valid")
	}
}
