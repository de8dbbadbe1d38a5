package core

import "github.com/shopspring/decimal"

// Sales tax percent strings as stored on order rows.
const (
	GeneralTaxRatePercent = "6.35"
	MealTaxRatePercent    = "7.35"
)

// Rate constants for the monthly rollup. The combined income tax rate is
// self-employment (15.3%) + personal income (10%) + state income (2%).
var (
	generalTaxRate = decimal.New(635, -4) // 0.0635
	incomeTaxRate  = decimal.New(273, -3) // 0.273
	payoutRate     = decimal.New(65, -2)  // 0.65
	reinvestRate   = decimal.New(35, -2)  // 0.35
)

// MonthlyFinancials is the rollup of one month's paid orders. All fields
// are integer cents.
type MonthlyFinancials struct {
	GrossRevenue             int64 `json:"grossRevenue"`
	StripeSales              int64 `json:"stripeSales"`
	CashSales                int64 `json:"cashSales"`
	GeneralSalesGrossRevenue int64 `json:"generalSalesGrossRevenue"`
	MealSalesGrossRevenue    int64 `json:"mealSalesGrossRevenue"`
	GeneralSalesTax          int64 `json:"generalSalesTax"`
	MealsSalesTax            int64 `json:"mealsSalesTax"`
	Taxes                    int64 `json:"taxes"`
	SalesTax                 int64 `json:"salesTax"`
	GrossPayout              int64 `json:"grossPayout"`
	NetPayout                int64 `json:"netPayout"`
	Reinvest                 int64 `json:"reinvest"`
}

// SummarizeMonth rolls a set of orders — expected to be the orders whose
// payment date falls inside one calendar month — into a MonthlyFinancials.
// Pure function: no I/O, empty input yields the zero value.
//
// Rounding is applied once per derived figure. GrossPayout and Reinvest
// are rounded independently, so they need not sum exactly to the
// tax-excluded revenue.
func SummarizeMonth(orders []Order) MonthlyFinancials {
	var f MonthlyFinancials
	salesTax := decimal.Zero

	for _, o := range orders {
		f.GrossRevenue += o.Total

		// An order with a zero sales_tax is treated as missing one and
		// estimated at the general rate, whatever its own rate bucket.
		if o.SalesTax != 0 {
			salesTax = salesTax.Add(decimal.NewFromInt(o.SalesTax))
		} else {
			salesTax = salesTax.Add(decimal.NewFromInt(o.Total).Mul(generalTaxRate))
		}

		switch o.PaymentMethod {
		case PaymentStripe:
			f.StripeSales += o.Total - o.SalesTax
		case PaymentCash:
			f.CashSales += o.Total - o.SalesTax
		}

		// Orders carrying a rate outside the two known constants stay out
		// of both buckets but still count toward the overall totals.
		switch o.SalesTaxRate {
		case GeneralTaxRatePercent:
			f.GeneralSalesGrossRevenue += o.TotalExcludingTax
			f.GeneralSalesTax += o.SalesTax
		case MealTaxRatePercent:
			f.MealSalesGrossRevenue += o.TotalExcludingTax
			f.MealsSalesTax += o.SalesTax
		}
	}

	excl := decimal.NewFromInt(grossRevenueExcludingTax(orders))
	f.SalesTax = salesTax.Round(0).IntPart()
	f.GrossPayout = excl.Mul(payoutRate).Round(0).IntPart()
	f.Taxes = excl.Mul(incomeTaxRate).Round(0).IntPart()
	f.NetPayout = f.GrossPayout - f.Taxes
	f.Reinvest = excl.Mul(reinvestRate).Round(0).IntPart()

	return f
}

func grossRevenueExcludingTax(orders []Order) int64 {
	var sum int64
	for _, o := range orders {
		sum += o.TotalExcludingTax
	}
	return sum
}
