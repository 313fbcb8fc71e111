// Package report derives dashboard and benchmark views from price
// observations. Every function is a pure, deterministic function of its
// inputs; no storage access happens here.
package report

import (
	"sort"

	"pricy/internal/model"
)

// All is the sentinel filter value meaning "do not filter on this field".
const All = ""

// Filter describes the three AND-combined dashboard filters. A zero-value
// field is a no-op.
type Filter struct {
	Product    string
	Concession string
	Location   model.Location
}

// ProductStats summarises all observations of one product.
type ProductStats struct {
	Product string  `json:"product"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
}

// Point is one observation in a chart series.
type Point struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Series is one chart line: all observations of a product at a single
// concession, ordered by date.
type Series struct {
	Concession string  `json:"concession"`
	Points     []Point `json:"points"`
}

type pairKey struct {
	product    string
	concession string
}

// Latest selects the most recent observation per (product, concession) pair.
// When two observations of a pair share the same date, the one with the
// highest ID (the later insertion) wins, so the result is deterministic
// regardless of input ordering. Output is sorted by product then concession
// name.
func Latest(prices []model.Price) []model.Price {
	latest := make(map[pairKey]model.Price, len(prices))
	for _, p := range prices {
		key := pairKey{product: p.Product, concession: p.Concession}
		current, ok := latest[key]
		if !ok || p.Date.After(current.Date) || (p.Date.Equal(current.Date) && p.ID > current.ID) {
			latest[key] = p
		}
	}

	out := make([]model.Price, 0, len(latest))
	for _, p := range latest {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].Concession < out[j].Concession
	})
	return out
}

// Stats computes mean, minimum and maximum amount per product. Products
// without observations do not appear. Output is sorted by product name.
func Stats(prices []model.Price) []ProductStats {
	type acc struct {
		sum   float64
		min   float64
		max   float64
		count int
	}

	byProduct := make(map[string]*acc)
	for _, p := range prices {
		a, ok := byProduct[p.Product]
		if !ok {
			byProduct[p.Product] = &acc{sum: p.Amount, min: p.Amount, max: p.Amount, count: 1}
			continue
		}
		a.sum += p.Amount
		a.count++
		if p.Amount < a.min {
			a.min = p.Amount
		}
		if p.Amount > a.max {
			a.max = p.Amount
		}
	}

	out := make([]ProductStats, 0, len(byProduct))
	for product, a := range byProduct {
		out = append(out, ProductStats{
			Product: product,
			Mean:    a.sum / float64(a.count),
			Min:     a.min,
			Max:     a.max,
			Count:   a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product < out[j].Product })
	return out
}

// Apply returns the observations matching every set filter field, preserving
// input order. The location filter selects observations whose concession
// carries the given location tag.
func (f Filter) Apply(prices []model.Price, concessions []model.Concession) []model.Price {
	var inLocation map[string]bool
	if f.Location != All {
		inLocation = make(map[string]bool, len(concessions))
		for _, c := range concessions {
			if c.Location == f.Location {
				inLocation[c.Name] = true
			}
		}
	}

	out := make([]model.Price, 0, len(prices))
	for _, p := range prices {
		if f.Product != All && p.Product != f.Product {
			continue
		}
		if f.Concession != All && p.Concession != f.Concession {
			continue
		}
		if inLocation != nil && !inLocation[p.Concession] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ForProduct returns all observations of one product, preserving input order.
func ForProduct(prices []model.Price, product string) []model.Price {
	return Filter{Product: product}.Apply(prices, nil)
}

// TimeSeries partitions one product's observations into per-concession
// series ordered by date (ties by insertion sequence), suitable for
// rendering one chart line per concession. Series are sorted by concession
// name.
func TimeSeries(prices []model.Price, product string) []Series {
	byConcession := make(map[string][]model.Price)
	for _, p := range prices {
		if p.Product != product {
			continue
		}
		byConcession[p.Concession] = append(byConcession[p.Concession], p)
	}

	names := make([]string, 0, len(byConcession))
	for name := range byConcession {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Series, 0, len(names))
	for _, name := range names {
		obs := byConcession[name]
		sort.SliceStable(obs, func(i, j int) bool {
			if !obs[i].Date.Equal(obs[j].Date) {
				return obs[i].Date.Before(obs[j].Date)
			}
			return obs[i].ID < obs[j].ID
		})

		points := make([]Point, len(obs))
		for i, p := range obs {
			points[i] = Point{Date: p.Date.Format(model.DateLayout), Amount: p.Amount}
		}
		out = append(out, Series{Concession: name, Points: points})
	}
	return out
}
