package reservation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

func mustSlot(t *testing.T, start, end string) domain.Slot {
	t.Helper()
	s, err := domain.NewSlot(start, end)
	require.NoError(t, err)
	return s
}

func TestComputePrice_HourlyWithPackageAndService(t *testing.T) {
	out, err := ComputePrice(PricingInput{
		Screen:    domain.Screen{ID: 1, PricePerHour: 1000, ComboPrice: 2500},
		PriceType: domain.PriceHourly,
		Package:   &domain.EventPackage{ID: 3, BasePrice: 500},
		Slot:      mustSlot(t, "14:00", "16:00"),
		Services:  domain.ServiceFlags{"decorations": true, "cake": false},
	})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, out.ResourceAmount)
	assert.Equal(t, 500.0, out.EventAmount)
	assert.Equal(t, 500.0, out.ServiceAmount)
	assert.Equal(t, 3000.0, out.Total)
	assert.Equal(t, []domain.ServiceLine{{Name: "decorations", Amount: 500}}, out.ServiceLines)
}

func TestComputePrice_ComboIgnoresDuration(t *testing.T) {
	in := PricingInput{
		Screen:    domain.Screen{PricePerHour: 1000, ComboPrice: 2500},
		PriceType: domain.PriceCombo,
		Slot:      mustSlot(t, "10:00", "13:30"),
	}
	out, err := ComputePrice(in)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, out.ResourceAmount)
	assert.Equal(t, 3.5, out.DurationHours)
	assert.Equal(t, 2500.0, out.Total)
}

func TestComputePrice_AdditionalAndDiscount(t *testing.T) {
	out, err := ComputePrice(PricingInput{
		Screen:     domain.Screen{PricePerHour: 1200},
		PriceType:  domain.PriceHourly,
		Slot:       mustSlot(t, "18:00", "19:30"),
		Services:   domain.ServiceFlags{"photography": true, "fog_entry": true},
		Additional: []domain.Charge{{Description: "extra chairs", Amount: 150.5}},
		Discount:   100,
	})
	require.NoError(t, err)

	assert.Equal(t, 1800.0, out.ResourceAmount)
	assert.Equal(t, 2200.0, out.ServiceAmount)
	assert.Equal(t, 150.5, out.AdditionalAmount)
	assert.Equal(t, 4050.5, out.Total)
	assert.Equal(t, "fog_entry", out.ServiceLines[0].Name)
}

func TestComputePrice_Deterministic(t *testing.T) {
	in := PricingInput{
		Screen:    domain.Screen{PricePerHour: 1200},
		PriceType: domain.PriceHourly,
		Slot:      mustSlot(t, "09:00", "11:00"),
		Services:  domain.ServiceFlags{"cake": true, "decorations": true, "rose_petal_path": true},
	}
	first, err := ComputePrice(in)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := ComputePrice(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputePrice_Errors(t *testing.T) {
	slot := mustSlot(t, "10:00", "12:00")
	cases := []struct {
		name string
		in   PricingInput
		want error
	}{
		{
			name: "missing hourly rate",
			in:   PricingInput{Screen: domain.Screen{}, PriceType: domain.PriceHourly, Slot: slot},
			want: ErrPricing,
		},
		{
			name: "missing combo price",
			in:   PricingInput{Screen: domain.Screen{PricePerHour: 100}, PriceType: domain.PriceCombo, Slot: slot},
			want: ErrPricing,
		},
		{
			name: "NaN rate",
			in:   PricingInput{Screen: domain.Screen{PricePerHour: math.NaN()}, PriceType: domain.PriceHourly, Slot: slot},
			want: ErrPricing,
		},
		{
			name: "infinite package price",
			in: PricingInput{
				Screen: domain.Screen{PricePerHour: 100}, PriceType: domain.PriceHourly, Slot: slot,
				Package: &domain.EventPackage{BasePrice: math.Inf(1)},
			},
			want: ErrPricing,
		},
		{
			name: "discount above subtotal",
			in:   PricingInput{Screen: domain.Screen{PricePerHour: 100}, PriceType: domain.PriceHourly, Slot: slot, Discount: 500},
			want: ErrValidation,
		},
		{
			name: "negative additional charge",
			in: PricingInput{
				Screen: domain.Screen{PricePerHour: 100}, PriceType: domain.PriceHourly, Slot: slot,
				Additional: []domain.Charge{{Description: "x", Amount: -1}},
			},
			want: ErrPricing,
		},
		{
			name: "unknown service",
			in: PricingInput{
				Screen: domain.Screen{PricePerHour: 100}, PriceType: domain.PriceHourly, Slot: slot,
				Services: domain.ServiceFlags{"fireworks": true},
			},
			want: ErrValidation,
		},
		{
			name: "unknown price type",
			in:   PricingInput{Screen: domain.Screen{PricePerHour: 100}, PriceType: "daily", Slot: slot},
			want: ErrValidation,
		},
		{
			name: "charge without description",
			in: PricingInput{
				Screen: domain.Screen{PricePerHour: 100}, PriceType: domain.PriceHourly, Slot: slot,
				Additional: []domain.Charge{{Amount: 10}},
			},
			want: ErrValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputePrice(tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
