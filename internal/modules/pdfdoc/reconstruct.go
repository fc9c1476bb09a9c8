// README: Price redistribution over extracted proposal content.
package pdfdoc

import (
	"fmt"
	"strings"

	"tripdesk/internal/modules/pricetext"
)

// flightPair groups consecutive rows of the same airline into one bookable
// option (outbound + return). Pairs are the unit prices scale against.
type flightPair struct {
	indices []int
	total   float64
}

// validFlights filters out rows that cannot be re-rendered. A row without
// leg detail is dropped entirely rather than zero-filled; rendering it
// would produce an empty segment block.
func validFlights(flights []Flight) []int {
	var idx []int
	for i, f := range flights {
		if f.Route != "" && f.Price > 0 && len(f.Legs) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func pairFlights(flights []Flight) []flightPair {
	valid := validFlights(flights)
	var pairs []flightPair
	for i := 0; i < len(valid); {
		cur := valid[i]
		pair := flightPair{indices: []int{cur}, total: flights[cur].Price}
		if i+1 < len(valid) {
			next := valid[i+1]
			if strings.EqualFold(flights[cur].Airline, flights[next].Airline) {
				pair.indices = append(pair.indices, next)
				pair.total += flights[next].Price
				i++
			}
		}
		pairs = append(pairs, pair)
		i++
	}
	return pairs
}

// scalePair rescales a pair to newTotal, splitting it proportionally to
// each leg's original share.
func scalePair(flights []Flight, p flightPair, newTotal float64) {
	if p.total <= 0 {
		return
	}
	for _, i := range p.indices {
		share := flights[i].Price / p.total
		flights[i].Price = round2(newTotal * share)
	}
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}

func cloneContent(c *Content) *Content {
	out := *c
	out.Flights = make([]Flight, len(c.Flights))
	for i, f := range c.Flights {
		out.Flights[i] = f
		out.Flights[i].Legs = append([]Leg(nil), f.Legs...)
	}
	out.Hotels = make([]Hotel, len(c.Hotels))
	for i, h := range c.Hotels {
		out.Hotels[i] = h
		if h.PackagePrice != nil {
			v := *h.PackagePrice
			out.Hotels[i].PackagePrice = &v
		}
		if h.OptionNumber != nil {
			v := *h.OptionNumber
			out.Hotels[i].OptionNumber = &v
		}
		if h.PackageMetadata != nil {
			v := *h.PackageMetadata
			out.Hotels[i].PackageMetadata = &v
		}
	}
	return &out
}

func originalTotal(c *Content) float64 {
	if c.TotalPrice > 0 {
		return c.TotalPrice
	}
	var sum float64
	for _, f := range c.Flights {
		sum += f.Price
	}
	for _, h := range c.Hotels {
		sum += h.Price
	}
	return sum
}

// Rebuild applies a price-change directive and returns the repriced content.
// The input is never mutated.
func Rebuild(c *Content, d *pricetext.Directive) (*Content, error) {
	switch d.Kind {
	case pricetext.KindTotal:
		return RebuildWithTotal(c, *d.TotalPrice)
	case pricetext.KindOptions:
		return RebuildWithOptions(c, d.Options)
	case pricetext.KindPositions:
		return RebuildWithPositions(c, d.Positions)
	case pricetext.KindRelative:
		return RebuildWithRelative(c, d.Relative)
	case pricetext.KindHotels:
		return RebuildWithHotelChanges(c, d.HotelChanges)
	default:
		return nil, fmt.Errorf("pdfdoc: unsupported directive kind %q", d.Kind)
	}
}

// RebuildWithTotal scales every component by newTotal/originalTotal.
func RebuildWithTotal(c *Content, newTotal float64) (*Content, error) {
	base := originalTotal(c)
	if base <= 0 {
		return nil, ErrNoPriceBase
	}
	ratio := newTotal / base

	out := cloneContent(c)
	for _, p := range pairFlights(out.Flights) {
		scalePair(out.Flights, p, p.total*ratio)
	}
	for i := range out.Hotels {
		h := &out.Hotels[i]
		h.Price = round2(h.Price * ratio)
		if h.PackagePrice != nil {
			v := round2(*h.PackagePrice * ratio)
			h.PackagePrice = &v
			if h.OptionNumber != nil {
				h.PackageMetadata = &PackageMetadata{
					OptionNumber:      *h.OptionNumber,
					TotalPackagePrice: v,
					IsModified:        true,
				}
			}
		}
	}
	out.TotalPrice = round2(newTotal)
	return out, nil
}

// RebuildWithOptions reprices individual package alternatives. Each option's
// ratio is computed against its own original package price; sibling options
// are financially independent and stay untouched.
func RebuildWithOptions(c *Content, opts *pricetext.OptionPrices) (*Content, error) {
	targets := map[int]*float64{1: opts.Option1, 2: opts.Option2, 3: opts.Option3}

	out := cloneContent(c)
	pairs := pairFlights(out.Flights)

	for n := 1; n <= 3; n++ {
		target := targets[n]
		if target == nil {
			continue
		}
		hi := hotelForOption(out.Hotels, n)
		if hi < 0 {
			return nil, fmt.Errorf("%w: opción %d no existe en el documento", ErrInsufficientOptions, n)
		}
		hotel := &out.Hotels[hi]

		switch {
		case n <= len(pairs):
			// Dedicated flight pair for this option.
			pair := pairs[n-1]
			origPackage := pair.total + hotel.Price
			if hotel.PackagePrice != nil && *hotel.PackagePrice > 0 {
				origPackage = *hotel.PackagePrice
			}
			if origPackage <= 0 {
				return nil, ErrNoPriceBase
			}
			ratio := *target / origPackage
			scalePair(out.Flights, pair, pair.total*ratio)
			var scaledFlights float64
			for _, i := range pair.indices {
				scaledFlights += out.Flights[i].Price
			}
			hotel.Price = round2(*target - scaledFlights)
		case len(pairs) == 1:
			// One shared flight pair across all options: only the hotel
			// absorbs the change.
			hotel.Price = round2(*target - pairs[0].total)
		default:
			return nil, fmt.Errorf("%w: opción %d no tiene vuelos asociados", ErrInsufficientOptions, n)
		}

		v := round2(*target)
		hotel.PackagePrice = &v
		hotel.PackageMetadata = &PackageMetadata{OptionNumber: n, TotalPackagePrice: v, IsModified: true}
	}

	// Untouched options keep their metadata for the renderer.
	for i := range out.Hotels {
		h := &out.Hotels[i]
		if h.OptionNumber != nil && h.PackageMetadata == nil && h.PackagePrice != nil {
			h.PackageMetadata = &PackageMetadata{
				OptionNumber:      *h.OptionNumber,
				TotalPackagePrice: *h.PackagePrice,
				IsModified:        false,
			}
		}
	}

	out.TotalPrice = recomputeTotal(out)
	return out, nil
}

// RebuildWithPositions applies per-pair ratios for "el primero a N" style
// changes. Hotels are untouched.
func RebuildWithPositions(c *Content, positions []pricetext.PositionPrice) (*Content, error) {
	out := cloneContent(c)
	pairs := pairFlights(out.Flights)

	for _, pp := range positions {
		if pp.Position < 1 || pp.Position > len(pairs) {
			return nil, fmt.Errorf("%w: posición %d, el documento tiene %d", ErrInsufficientOptions, pp.Position, len(pairs))
		}
		scalePair(out.Flights, pairs[pp.Position-1], pp.Price)
	}
	out.TotalPrice = recomputeTotal(out)
	return out, nil
}

// RebuildWithRelative applies a delta or percentage against the total or a
// single component.
func RebuildWithRelative(c *Content, rel *pricetext.RelativeChange) (*Content, error) {
	componentBase := func(base float64) (float64, error) {
		if base <= 0 {
			return 0, ErrNoPriceBase
		}
		switch rel.Operation {
		case pricetext.OpAdd:
			return base + rel.Value, nil
		case pricetext.OpSubtract:
			return base - rel.Value, nil
		case pricetext.OpPercentAdd:
			return base * (1 + rel.Value/100), nil
		case pricetext.OpPercentSubtract:
			return base * (1 - rel.Value/100), nil
		default:
			return 0, fmt.Errorf("pdfdoc: unknown relative operation %q", rel.Operation)
		}
	}

	switch rel.Target {
	case pricetext.TargetHotel:
		var hotelSum float64
		for _, h := range c.Hotels {
			hotelSum += h.Price
		}
		newSum, err := componentBase(hotelSum)
		if err != nil {
			return nil, err
		}
		ratio := newSum / hotelSum
		out := cloneContent(c)
		for i := range out.Hotels {
			h := &out.Hotels[i]
			delta := round2(h.Price*ratio) - h.Price
			h.Price = round2(h.Price * ratio)
			if h.PackagePrice != nil {
				v := round2(*h.PackagePrice + delta)
				h.PackagePrice = &v
			}
		}
		out.TotalPrice = recomputeTotal(out)
		return out, nil

	case pricetext.TargetFlights:
		pairs := pairFlights(c.Flights)
		var flightSum float64
		for _, p := range pairs {
			flightSum += p.total
		}
		newSum, err := componentBase(flightSum)
		if err != nil {
			return nil, err
		}
		ratio := newSum / flightSum
		out := cloneContent(c)
		for _, p := range pairFlights(out.Flights) {
			scalePair(out.Flights, p, p.total*ratio)
		}
		out.TotalPrice = recomputeTotal(out)
		return out, nil

	default:
		newTotal, err := componentBase(originalTotal(c))
		if err != nil {
			return nil, err
		}
		return RebuildWithTotal(c, newTotal)
	}
}

// RebuildWithHotelChanges reprices individual hotels referenced by position,
// name or price order.
func RebuildWithHotelChanges(c *Content, changes []pricetext.HotelPriceChange) (*Content, error) {
	out := cloneContent(c)

	for _, ch := range changes {
		idx := -1
		switch ch.ReferenceType {
		case pricetext.RefPosition, pricetext.RefName:
			if ch.HotelIndex >= 0 && ch.HotelIndex < len(out.Hotels) {
				idx = ch.HotelIndex
			}
		case pricetext.RefPriceOrder:
			idx = hotelByPriceOrder(out.Hotels, ch.PriceOrder)
		}
		if idx < 0 {
			return nil, fmt.Errorf("%w: no encuentro el hotel referido (%s)", ErrInsufficientOptions, ch.Name)
		}

		h := &out.Hotels[idx]
		delta := ch.NewPrice - h.Price
		h.Price = round2(ch.NewPrice)
		if h.PackagePrice != nil {
			v := round2(*h.PackagePrice + delta)
			h.PackagePrice = &v
			if h.OptionNumber != nil {
				h.PackageMetadata = &PackageMetadata{OptionNumber: *h.OptionNumber, TotalPackagePrice: v, IsModified: true}
			}
		}
	}
	out.TotalPrice = recomputeTotal(out)
	return out, nil
}

func hotelForOption(hotels []Hotel, n int) int {
	for i, h := range hotels {
		if h.OptionNumber != nil && *h.OptionNumber == n {
			return i
		}
	}
	return -1
}

func hotelByPriceOrder(hotels []Hotel, order string) int {
	if len(hotels) == 0 {
		return -1
	}
	idx := 0
	for i := range hotels {
		if order == "most_expensive" {
			if hotels[i].Price > hotels[idx].Price {
				idx = i
			}
		} else if hotels[i].Price < hotels[idx].Price {
			idx = i
		}
	}
	return idx
}

// recomputeTotal prefers the max package price when options are present
// (alternatives are not summed), otherwise flights + hotels.
func recomputeTotal(c *Content) float64 {
	var maxPackage float64
	hasOptions := false
	for _, h := range c.Hotels {
		if h.OptionNumber != nil && h.PackagePrice != nil {
			hasOptions = true
			if *h.PackagePrice > maxPackage {
				maxPackage = *h.PackagePrice
			}
		}
	}
	if hasOptions {
		return round2(maxPackage)
	}
	var sum float64
	for _, f := range c.Flights {
		sum += f.Price
	}
	for _, h := range c.Hotels {
		sum += h.Price
	}
	return round2(sum)
}
