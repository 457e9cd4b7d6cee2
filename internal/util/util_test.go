package util

import "testing"

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"quoted"`, "quoted"},
		{`unquoted`, "unquoted"},
		{`""`, ""},
		{`"half`, "half"},
	}
	for _, tt := range tests {
		if got := TrimQuotes(tt.in); got != tt.want {
			t.Errorf("TrimQuotes(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParsePositionArray(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []float64
		wantErr bool
	}{
		{"two components", "[12.5, 3.75]", []float64{12.5, 3.75}, false},
		{"three components", "[12.5,3.75,140]", []float64{12.5, 3.75, 140}, false},
		{"padded", "  [1, 2]  ", []float64{1, 2}, false},
		{"negative", "[-122.4,37.7]", []float64{-122.4, 37.7}, false},
		{"no brackets", "1,2", nil, true},
		{"one component", "[1]", nil, true},
		{"four components", "[1,2,3,4]", nil, true},
		{"not numeric", "[a,b]", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePositionArray(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("component %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatPositionArrayRoundTrip(t *testing.T) {
	in := []float64{-122.4, 37.7, 12}
	got, err := ParsePositionArray(FormatPositionArray(in))
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("component %d = %v, want %v", i, got[i], in[i])
		}
	}
}
