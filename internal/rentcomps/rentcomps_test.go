package rentcomps

import (
	"testing"

	"github.com/yourorg/dealiq-engine/internal/model"
)

func TestWeighted(t *testing.T) {
	tests := []struct {
		name     string
		comps    []model.RentComp
		expected Estimate
	}{
		{
			name: "single comp",
			comps: []model.RentComp{
				{MonthlyRent: 2000, Provider: "rentcast"},
			},
			expected: Estimate{MonthlyRent: 2000, CompCount: 1, Method: "weighted"},
		},
		{
			name: "correlation weighting",
			comps: []model.RentComp{
				{MonthlyRent: 2000, Correlation: 1.0},
				{MonthlyRent: 3000, Correlation: 0.5},
			},
			expected: Estimate{
				MonthlyRent: 2333.33, // (2000*1 + 3000*0.5)/1.5
				CompCount:   2,
				Method:      "weighted",
			},
		},
		{
			name: "distance decay halves weight at 2 miles",
			comps: []model.RentComp{
				{MonthlyRent: 2000, DistanceMiles: 0},
				{MonthlyRent: 4000, DistanceMiles: 2},
			},
			expected: Estimate{
				MonthlyRent: 2666.67, // (2000*1 + 4000*0.5)/1.5
				CompCount:   2,
				Method:      "weighted",
			},
		},
		{
			name:     "empty input",
			comps:    []model.RentComp{},
			expected: Estimate{Method: "weighted"},
		},
		{
			name: "non positive rents ignored",
			comps: []model.RentComp{
				{MonthlyRent: 0},
				{MonthlyRent: -500},
			},
			expected: Estimate{Method: "weighted"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Weighted(tt.comps)
			if got.MonthlyRent != tt.expected.MonthlyRent {
				t.Errorf("MonthlyRent got = %v, want %v", got.MonthlyRent, tt.expected.MonthlyRent)
			}
			if got.CompCount != tt.expected.CompCount {
				t.Errorf("CompCount got = %v, want %v", got.CompCount, tt.expected.CompCount)
			}
			if got.Method != tt.expected.Method {
				t.Errorf("Method got = %v, want %v", got.Method, tt.expected.Method)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		comps    []model.RentComp
		expected float64
	}{
		{
			name: "odd count",
			comps: []model.RentComp{
				{MonthlyRent: 1800},
				{MonthlyRent: 2600},
				{MonthlyRent: 2000},
			},
			expected: 2000,
		},
		{
			name: "even count",
			comps: []model.RentComp{
				{MonthlyRent: 1800},
				{MonthlyRent: 2000},
				{MonthlyRent: 2400},
				{MonthlyRent: 2600},
			},
			expected: 2200,
		},
		{
			name:     "empty input",
			comps:    []model.RentComp{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Median(tt.comps)
			if got.MonthlyRent != tt.expected {
				t.Errorf("Median() = %v, want %v", got.MonthlyRent, tt.expected)
			}
		})
	}
}

func TestTrimmedMean(t *testing.T) {
	comps := make([]model.RentComp, 10)
	for i := range comps {
		comps[i] = model.RentComp{MonthlyRent: float64(i+1) * 1000, Correlation: 1.0}
	}

	got := TrimmedMean(comps, 0.1)
	// 1000 and 10000 trimmed, mean of 2000..9000
	if got.MonthlyRent != 5500 {
		t.Errorf("TrimmedMean() = %v, want 5500", got.MonthlyRent)
	}
	if got.Method != "trimmed" {
		t.Errorf("Method got = %v, want trimmed", got.Method)
	}

	small := comps[:2]
	fallback := TrimmedMean(small, 0.1)
	if fallback.Method != "weighted" {
		t.Errorf("small set should fall back to weighted, got %v", fallback.Method)
	}
}

func TestFilterOutliers(t *testing.T) {
	tests := []struct {
		name  string
		comps []model.RentComp
		want  int
	}{
		{
			name: "no outliers",
			comps: []model.RentComp{
				{MonthlyRent: 2000},
				{MonthlyRent: 2100},
				{MonthlyRent: 2200},
				{MonthlyRent: 2300},
				{MonthlyRent: 2400},
			},
			want: 5,
		},
		{
			name: "with outlier",
			comps: []model.RentComp{
				{MonthlyRent: 2000},
				{MonthlyRent: 2100},
				{MonthlyRent: 2200},
				{MonthlyRent: 2300},
				{MonthlyRent: 9000},
			},
			want: 4,
		},
		{
			name: "too few comps",
			comps: []model.RentComp{
				{MonthlyRent: 2000},
				{MonthlyRent: 9000},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterOutliers(tt.comps)
			if len(filtered) != tt.want {
				t.Errorf("FilterOutliers() got %v comps, want %v", len(filtered), tt.want)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	identical := []model.RentComp{
		{MonthlyRent: 2000},
		{MonthlyRent: 2000},
		{MonthlyRent: 2000},
	}
	if got := confidence(identical); got != 1.0 {
		t.Errorf("identical comps confidence = %v, want 1.0", got)
	}

	spread := []model.RentComp{
		{MonthlyRent: 1000},
		{MonthlyRent: 4000},
	}
	if got := confidence(spread); got >= 0.5 {
		t.Errorf("dispersed comps confidence = %v, want < 0.5", got)
	}

	single := []model.RentComp{{MonthlyRent: 2000}}
	if got := confidence(single); got != 0.5 {
		t.Errorf("single comp confidence = %v, want 0.5", got)
	}
}

func TestAggregate(t *testing.T) {
	comps := []model.RentComp{
		{MonthlyRent: 2000, Correlation: 1.0},
		{MonthlyRent: 2050, Correlation: 1.0},
		{MonthlyRent: 2100, Correlation: 1.0},
		{MonthlyRent: 5000, Correlation: 1.0},
	}

	tests := []struct {
		name string
		mode string
		want float64
	}{
		// IQR fences are wide for n=4 here, so 5000 survives filtering
		{name: "weighted default", mode: "", want: 2787.5},
		{name: "median", mode: "median", want: 2075},
		{name: "consensus drops the disagreeing comp", mode: "consensus", want: 2050},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(comps, tt.mode)
			if got.MonthlyRent != tt.want {
				t.Errorf("Aggregate(%q) = %v, want %v", tt.mode, got.MonthlyRent, tt.want)
			}
		})
	}
}

func BenchmarkWeighted(b *testing.B) {
	comps := make([]model.RentComp, 100)
	for i := 0; i < 100; i++ {
		comps[i] = model.RentComp{
			MonthlyRent:   1500 + float64(i)*10,
			DistanceMiles: float64(i) / 20,
			DaysOld:       i,
			Correlation:   0.9,
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Weighted(comps)
	}
}
