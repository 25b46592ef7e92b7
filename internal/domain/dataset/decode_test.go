package dataset

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRecord struct {
	Name     string          `mapstructure:"name"`
	Quantity int             `mapstructure:"quantity"`
	Rating   float64         `mapstructure:"rating"`
	Price    decimal.Decimal `mapstructure:"unit_price"`
	Ordered  time.Time       `mapstructure:"order_date"`
	Active   bool            `mapstructure:"active"`
}

func TestDecodeRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  map[string]any
		want    sampleRecord
		wantErr bool
	}{
		{
			name: "string cells from a workbook",
			record: map[string]any{
				"name":       "Widget",
				"quantity":   "42",
				"rating":     "4.5",
				"unit_price": "$1,250.75",
				"order_date": "2024-03-15",
				"active":     "true",
			},
			want: sampleRecord{
				Name:     "Widget",
				Quantity: 42,
				Rating:   4.5,
				Price:    decimal.RequireFromString("1250.75"),
				Ordered:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
				Active:   true,
			},
		},
		{
			name: "typed cells from a json body",
			record: map[string]any{
				"name":       "Widget",
				"quantity":   float64(7),
				"rating":     3.25,
				"unit_price": 99.5,
				"order_date": "2024-03-15 10:30:00",
				"active":     true,
			},
			want: sampleRecord{
				Name:     "Widget",
				Quantity: 7,
				Rating:   3.25,
				Price:    decimal.NewFromFloat(99.5),
				Ordered:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
				Active:   true,
			},
		},
		{
			name: "blank cells decode to zero values",
			record: map[string]any{
				"name":       "Widget",
				"quantity":   "",
				"rating":     "",
				"unit_price": "",
				"order_date": "",
				"active":     "",
			},
			want: sampleRecord{Name: "Widget", Price: decimal.Zero},
		},
		{
			name:   "missing keys decode to zero values",
			record: map[string]any{"name": "Widget"},
			want:   sampleRecord{Name: "Widget"},
		},
		{
			name: "slash date layout",
			record: map[string]any{
				"order_date": "01/15/2024",
			},
			want: sampleRecord{Ordered: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		},
		{
			name:    "invalid numeric cell",
			record:  map[string]any{"unit_price": "abc"},
			wantErr: true,
		},
		{
			name:    "invalid date cell",
			record:  map[string]any{"order_date": "not-a-date"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sampleRecord
			err := DecodeRecord(tt.record, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.Quantity, got.Quantity)
			assert.Equal(t, tt.want.Rating, got.Rating)
			assert.True(t, tt.want.Price.Equal(got.Price), "price %s != %s", got.Price, tt.want.Price)
			assert.True(t, tt.want.Ordered.Equal(got.Ordered), "date %s != %s", got.Ordered, tt.want.Ordered)
			assert.Equal(t, tt.want.Active, got.Active)
		})
	}
}

func TestDecodeRecordIgnoresUnknownColumns(t *testing.T) {
	var got sampleRecord
	err := DecodeRecord(map[string]any{
		"name":         "Widget",
		"extra_column": "ignored",
	}, &got)
	require.NoError(t, err)
	assert.Equal(t, "Widget", got.Name)
}

func TestInRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := EndOfDay(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	assert.True(t, InRange(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), start, end))
	assert.True(t, InRange(time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC), start, end))
	assert.True(t, InRange(time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), start, end))
	assert.False(t, InRange(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), start, end))
	assert.False(t, InRange(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC), start, end))

	// open bounds
	assert.True(t, InRange(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}, end))
	assert.True(t, InRange(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), start, time.Time{}))
	assert.False(t, InRange(time.Time{}, start, end))
	assert.True(t, InRange(time.Time{}, time.Time{}, time.Time{}))
}

func TestEndOfDay(t *testing.T) {
	assert.True(t, EndOfDay(time.Time{}).IsZero())

	end := EndOfDay(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 999999999, time.UTC), end)

	// an intra-day bound still extends to the end of its own day
	assert.Equal(t, end, EndOfDay(time.Date(2024, 3, 10, 10, 30, 0, 0, time.UTC)))
}
