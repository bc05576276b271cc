package extract

import (
	"math"

	"github.com/shopsight/insights/internal/insights"
)

// PriceInsights computes catalog-wide pricing statistics: average, min
// and max over all non-nil primary prices, plus an average discount
// percentage over every variant whose compare-at price strictly exceeds
// its price. An empty catalog (or one with no priced product) yields a
// zero result, never an error.
func PriceInsights(catalog []insights.Product) insights.PriceInsights {
	var prices []float64
	totalVariants := 0
	for _, p := range catalog {
		totalVariants += len(p.Variants)
		if p.Price != nil {
			prices = append(prices, *p.Price)
		}
	}
	if len(prices) == 0 {
		return insights.PriceInsights{}
	}

	sum, minP, maxP := 0.0, prices[0], prices[0]
	for _, v := range prices {
		sum += v
		if v < minP {
			minP = v
		}
		if v > maxP {
			maxP = v
		}
	}

	var discounts []float64
	for _, p := range catalog {
		for _, v := range p.Variants {
			if v.CompareAt == nil || v.Price == nil || *v.CompareAt <= *v.Price {
				continue
			}
			discounts = append(discounts, (*v.CompareAt-*v.Price)/(*v.CompareAt)*100)
		}
	}
	avgDiscount := 0.0
	for _, d := range discounts {
		avgDiscount += d
	}
	if len(discounts) > 0 {
		avgDiscount = round2(avgDiscount / float64(len(discounts)))
	}

	return insights.PriceInsights{
		AveragePrice:   sum / float64(len(prices)),
		MinPrice:       minP,
		MaxPrice:       maxP,
		AvgDiscountPct: avgDiscount,
		ProductsOnSale: len(discounts),
		TotalProducts:  len(catalog),
		TotalVariants:  totalVariants,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
