package reservation

import (
	"math"
	"sort"
	"strings"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain"
)

// ServiceCatalog is the fixed price list for add-on services, in rupees.
var ServiceCatalog = map[string]float64{
	"decorations":      500,
	"cake":             800,
	"photography":      1500,
	"fog_entry":        700,
	"led_name_letters": 300,
	"rose_petal_path":  400,
}

type PricingInput struct {
	Screen     domain.Screen
	PriceType  domain.PriceType
	Package    *domain.EventPackage
	Slot       domain.Slot
	Services   domain.ServiceFlags
	Additional []domain.Charge
	Discount   float64
}

// ComputePrice derives the itemized price. It is pure: the same input
// always yields the same breakdown.
func ComputePrice(in PricingInput) (domain.PriceBreakdown, error) {
	out := domain.PriceBreakdown{
		PriceType:     in.PriceType,
		DurationHours: in.Slot.DurationHours,
	}
	if err := checkAmount("duration", in.Slot.DurationHours); err != nil {
		return out, err
	}
	if in.Slot.DurationHours == 0 {
		return out, pricingErr("slot duration is zero")
	}

	switch in.PriceType {
	case domain.PriceCombo:
		if err := checkRate("combo price", in.Screen.ComboPrice); err != nil {
			return out, err
		}
		out.ResourceAmount = round2(in.Screen.ComboPrice)
	case domain.PriceHourly:
		if err := checkRate("price per hour", in.Screen.PricePerHour); err != nil {
			return out, err
		}
		out.ResourceAmount = round2(in.Screen.PricePerHour * in.Slot.DurationHours)
	default:
		return out, invalid("unknown price type %q", in.PriceType)
	}
	if err := checkAmount("resource amount", out.ResourceAmount); err != nil {
		return out, err
	}

	if in.Package != nil {
		if err := checkAmount("event package price", in.Package.BasePrice); err != nil {
			return out, err
		}
		out.EventAmount = round2(in.Package.BasePrice)
	}

	names := in.Services.Selected()
	sort.Strings(names)
	for _, name := range names {
		price, ok := ServiceCatalog[name]
		if !ok {
			return out, invalid("unknown service %q", name)
		}
		out.ServiceLines = append(out.ServiceLines, domain.ServiceLine{Name: name, Amount: price})
		out.ServiceAmount += price
	}
	out.ServiceAmount = round2(out.ServiceAmount)
	if err := checkAmount("service amount", out.ServiceAmount); err != nil {
		return out, err
	}

	for i, c := range in.Additional {
		if strings.TrimSpace(c.Description) == "" {
			return out, invalid("additional charge %d has no description", i+1)
		}
		if err := checkAmount("additional charge "+c.Description, c.Amount); err != nil {
			return out, err
		}
		out.AdditionalAmount += c.Amount
	}
	out.AdditionalAmount = round2(out.AdditionalAmount)

	if err := checkAmount("discount", in.Discount); err != nil {
		return out, err
	}
	out.Discount = round2(in.Discount)

	subtotal := round2(out.ResourceAmount + out.EventAmount + out.ServiceAmount + out.AdditionalAmount)
	if out.Discount > subtotal {
		return out, invalid("discount %.2f exceeds subtotal %.2f", out.Discount, subtotal)
	}

	out.Total = round2(subtotal - out.Discount)
	if err := checkAmount("total", out.Total); err != nil {
		return out, err
	}
	return out, nil
}

func checkAmount(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return pricingErr("%s is not a finite number", name)
	}
	if v < 0 {
		return pricingErr("%s is negative (%.2f)", name, v)
	}
	return nil
}

// checkRate rejects rates that would price a slot at zero.
func checkRate(name string, v float64) error {
	if err := checkAmount(name, v); err != nil {
		return err
	}
	if v == 0 {
		return pricingErr("%s is missing", name)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
