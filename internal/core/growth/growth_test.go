package growth_test

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/growth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func femaleWeightTable(t *testing.T) *growth.Table {
	t.Helper()
	table, err := growth.NewTable("test", []growth.Curve{
		{
			Metric: domain.MetricWeight,
			Sex:    domain.SexFemale,
			Points: []growth.Point{
				{AgeDays: 90, LMS: growth.LMS{L: 0.04, M: 5.8, S: 0.126}},
				{AgeDays: 30, LMS: growth.LMS{L: 0.17, M: 4.2, S: 0.137}},
				{AgeDays: 60, LMS: growth.LMS{L: 0.10, M: 4.5, S: 0.130}},
			},
		},
	})
	require.NoError(t, err)
	return table
}

func TestTable_Lookup_ExactAge(t *testing.T) {
	table := femaleWeightTable(t)

	lms, err := table.Lookup(domain.MetricWeight, domain.SexFemale, 60)

	require.NoError(t, err)
	assert.Equal(t, growth.LMS{L: 0.10, M: 4.5, S: 0.130}, lms)
}

func TestTable_Lookup_InterpolatesBetweenAges(t *testing.T) {
	table := femaleWeightTable(t)

	lms, err := table.Lookup(domain.MetricWeight, domain.SexFemale, 45)

	require.NoError(t, err)
	assert.InDelta(t, 0.135, lms.L, 1e-12)
	assert.InDelta(t, 4.35, lms.M, 1e-12)
	assert.InDelta(t, 0.1335, lms.S, 1e-12)
}

func TestTable_Lookup_SpanBoundariesInclusive(t *testing.T) {
	table := femaleWeightTable(t)

	_, err := table.Lookup(domain.MetricWeight, domain.SexFemale, 30)
	assert.NoError(t, err)
	_, err = table.Lookup(domain.MetricWeight, domain.SexFemale, 90)
	assert.NoError(t, err)
}

func TestTable_Lookup_OutOfRange(t *testing.T) {
	table := femaleWeightTable(t)

	tests := []struct {
		name    string
		metric  domain.Metric
		sex     domain.Sex
		ageDays int
	}{
		{"before first age", domain.MetricWeight, domain.SexFemale, 29},
		{"after last age", domain.MetricWeight, domain.SexFemale, 91},
		{"negative age", domain.MetricWeight, domain.SexFemale, -1},
		{"no curve for sex", domain.MetricWeight, domain.SexMale, 60},
		{"sex without reference", domain.MetricWeight, domain.SexOther, 60},
		{"no curve for metric", domain.MetricLength, domain.SexFemale, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := table.Lookup(tt.metric, tt.sex, tt.ageDays)
			assert.ErrorIs(t, err, domain.ErrOutOfRange)
		})
	}
}

func TestTable_Lookup_NilTable(t *testing.T) {
	var table *growth.Table

	_, err := table.Lookup(domain.MetricWeight, domain.SexFemale, 60)

	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestNewTable_RejectsInvalidCurves(t *testing.T) {
	point := growth.Point{AgeDays: 0, LMS: growth.LMS{L: 1, M: 50, S: 0.04}}

	tests := []struct {
		name   string
		curves []growth.Curve
	}{
		{"unknown metric", []growth.Curve{{Metric: "bmi", Sex: domain.SexMale, Points: []growth.Point{point}}}},
		{"sex without reference", []growth.Curve{{Metric: domain.MetricLength, Sex: domain.SexUnknown, Points: []growth.Point{point}}}},
		{"no points", []growth.Curve{{Metric: domain.MetricLength, Sex: domain.SexMale}}},
		{"duplicate age", []growth.Curve{{Metric: domain.MetricLength, Sex: domain.SexMale, Points: []growth.Point{point, point}}}},
		{"non-positive median", []growth.Curve{{Metric: domain.MetricLength, Sex: domain.SexMale, Points: []growth.Point{{AgeDays: 0, LMS: growth.LMS{L: 1, M: 0, S: 0.04}}}}}},
		{"duplicate curve", []growth.Curve{
			{Metric: domain.MetricLength, Sex: domain.SexMale, Points: []growth.Point{point}},
			{Metric: domain.MetricLength, Sex: domain.SexMale, Points: []growth.Point{point}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := growth.NewTable("test", tt.curves)
			assert.Error(t, err)
		})
	}
}

func TestLMS_ZScore(t *testing.T) {
	t.Run("median is zero", func(t *testing.T) {
		z, err := growth.LMS{L: 0.2, M: 5, S: 0.12}.ZScore(5)
		require.NoError(t, err)
		assert.InDelta(t, 0, z, 1e-12)
	})

	t.Run("box-cox power", func(t *testing.T) {
		z, err := growth.LMS{L: 1, M: 50, S: 0.04}.ZScore(52)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, z, 1e-12)
	})

	t.Run("zero power uses log", func(t *testing.T) {
		z, err := growth.LMS{L: 0, M: 10, S: 0.1}.ZScore(10 * math.Exp(0.1))
		require.NoError(t, err)
		assert.InDelta(t, 1.0, z, 1e-12)
	})

	t.Run("non-positive measurement", func(t *testing.T) {
		_, err := growth.LMS{L: 1, M: 50, S: 0.04}.ZScore(0)
		assert.Error(t, err)
	})
}

func TestPercentileFromZ(t *testing.T) {
	assert.InDelta(t, 50.0, growth.PercentileFromZ(0), 1e-9)
	assert.InDelta(t, 84.1345, growth.PercentileFromZ(1), 1e-4)
	assert.InDelta(t, 2.275, growth.PercentileFromZ(-2), 1e-3)
	assert.Equal(t, growth.MaxPercentile, growth.PercentileFromZ(5))
	assert.Equal(t, growth.MinPercentile, growth.PercentileFromZ(-5))
}

func TestEngine_Percentile_MedianAtTabulatedAge(t *testing.T) {
	engine := growth.NewEngine(femaleWeightTable(t))

	p, err := engine.Percentile(domain.MetricWeight, 4.5, 60, domain.SexFemale)

	require.NoError(t, err)
	assert.InDelta(t, 50.0, p, 0.01)
}

func TestEngine_Percentile_MonotonicInValue(t *testing.T) {
	table, err := growth.Default()
	require.NoError(t, err)
	engine := growth.NewEngine(table)

	previous := -1.0
	for value := 3.5; value <= 6.0; value += 0.05 {
		p, err := engine.Percentile(domain.MetricWeight, value, 45, domain.SexFemale)
		require.NoError(t, err)
		assert.Greater(t, p, previous, "value %.2f", value)
		previous = p
	}
}

func TestEngine_Percentile_NoReference(t *testing.T) {
	engine := growth.NewEngine(nil)

	_, err := engine.Percentile(domain.MetricWeight, 4.5, 60, domain.SexFemale)

	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestEngine_Percentiles_OmitsUnavailableMetrics(t *testing.T) {
	engine := growth.NewEngine(femaleWeightTable(t))

	result := engine.Percentiles(map[domain.Metric]float64{
		domain.MetricWeight: 4.5,
		domain.MetricLength: 55,
	}, 60, domain.SexFemale)

	require.Len(t, result, 1)
	assert.InDelta(t, 50.0, result[domain.MetricWeight], 0.01)
}

func TestEngine_Percentiles_EmptyForSexWithoutReference(t *testing.T) {
	table, err := growth.Default()
	require.NoError(t, err)
	engine := growth.NewEngine(table)

	result := engine.Percentiles(map[domain.Metric]float64{domain.MetricWeight: 5}, 60, domain.SexUnknown)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestDefault_CoversFirstYear(t *testing.T) {
	table, err := growth.Default()
	require.NoError(t, err)

	for _, metric := range domain.ValidMetrics() {
		for _, sex := range []domain.Sex{domain.SexMale, domain.SexFemale} {
			first, last, ok := table.Span(metric, sex)
			require.True(t, ok, "%s/%s", metric, sex)
			assert.Equal(t, 0, first)
			assert.Equal(t, 365, last)
		}
	}

	engine := growth.NewEngine(table)
	p, err := engine.Percentile(domain.MetricWeight, 5.1282, 61, domain.SexFemale)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, p, 0.01)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"short point", "curves:\n  - metric: weight\n    sex: male\n    points:\n      - [0, 1, 3.3]\n"},
		{"fractional age", "curves:\n  - metric: weight\n    sex: male\n    points:\n      - [0.5, 1, 3.3, 0.1]\n"},
		{"unknown field", "curves:\n  - metric: weight\n    sex: male\n    unit: kg\n    points:\n      - [0, 1, 3.3, 0.1]\n"},
		{"not yaml", "curves: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := growth.Load(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ParsesTable(t *testing.T) {
	doc := `
source: test table
curves:
  - metric: length
    sex: male
    points:
      - [0, 1, 50, 0.04]
      - [10, 1, 52, 0.04]
`
	table, err := growth.Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "test table", table.Source())
	lms, err := table.Lookup(domain.MetricLength, domain.SexMale, 5)
	require.NoError(t, err)
	assert.InDelta(t, 51.0, lms.M, 1e-12)
}

func TestStore_SwapReplacesWholeTable(t *testing.T) {
	store := growth.NewStore(nil)
	_, err := store.Lookup(domain.MetricWeight, domain.SexFemale, 60)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)

	table := femaleWeightTable(t)
	previous := store.Swap(table)

	assert.Nil(t, previous)
	assert.Same(t, table, store.Table())
	lms, err := store.Lookup(domain.MetricWeight, domain.SexFemale, 60)
	require.NoError(t, err)
	assert.Equal(t, 4.5, lms.M)
}

func TestStore_ConcurrentReadersDuringSwap(t *testing.T) {
	first := femaleWeightTable(t)
	second, err := growth.Default()
	require.NoError(t, err)
	store := growth.NewStore(first)
	engine := growth.NewEngine(store)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, err := engine.Percentile(domain.MetricWeight, 4.5, 60, domain.SexFemale)
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			store.Swap(second)
		} else {
			store.Swap(first)
		}
	}
	wg.Wait()
}
