package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// monthParam parses the date=YYYY-MM query parameter, defaulting to the
// current month.
func monthParam(r *http.Request) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return time.Now(), nil
	}
	ref, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM", raw)
	}
	return ref, nil
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	ref, err := monthParam(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	summary, err := s.orders.MonthlyFinancials(r.Context(), ref)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.dashboard.Metrics(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	metrics, err := s.dashboard.Metrics(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard metrics error", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	pending, err := s.orders.ListPendingOrders(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Pending orders error", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type pendingRow struct {
		ID       int64
		Customer string
		Total    string
		DueDate  string
	}
	data := struct {
		GrossRevenue    string
		PreviousRevenue string
		ChangePercent   string
		PendingCount    int
		Customers       int
		Charges         int
		Invoices        int
		Pending         []pendingRow
	}{
		GrossRevenue:    formatDollars(metrics.GrossRevenue),
		PreviousRevenue: formatDollars(metrics.PreviousGrossRevenue),
		ChangePercent:   fmt.Sprintf("%.1f%%", metrics.RevenueChangePercent),
		PendingCount:    metrics.PendingOrders,
		Customers:       metrics.Customers,
		Charges:         metrics.Charges,
		Invoices:        metrics.Invoices,
	}
	for _, o := range pending {
		row := pendingRow{ID: o.ID, Customer: o.CustomerName, Total: formatDollars(o.Total)}
		if o.DueDate != nil {
			row.DueDate = o.DueDate.Format("Jan 2, 2006")
		}
		data.Pending = append(data.Pending, row)
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleFinancialsPage(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ref, err := monthParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := s.orders.MonthlyFinancials(r.Context(), ref)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly financials error", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	draws, err := s.draws.ListDraws(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List draws error", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type drawRow struct {
		Date   string
		Amount string
	}
	data := struct {
		Month        string
		Summary      map[string]string
		SummaryOrder []string
		Draws        []drawRow
	}{
		Month: ref.Format("January 2006"),
		Summary: map[string]string{
			"Gross revenue":         formatDollars(summary.GrossRevenue),
			"Stripe sales":          formatDollars(summary.StripeSales),
			"Cash sales":            formatDollars(summary.CashSales),
			"General sales revenue": formatDollars(summary.GeneralSalesGrossRevenue),
			"Meal sales revenue":    formatDollars(summary.MealSalesGrossRevenue),
			"General sales tax":     formatDollars(summary.GeneralSalesTax),
			"Meals sales tax":       formatDollars(summary.MealsSalesTax),
			"Sales tax":             formatDollars(summary.SalesTax),
			"Taxes":                 formatDollars(summary.Taxes),
			"Gross payout":          formatDollars(summary.GrossPayout),
			"Net payout":            formatDollars(summary.NetPayout),
			"Reinvest":              formatDollars(summary.Reinvest),
		},
		SummaryOrder: []string{
			"Gross revenue", "Stripe sales", "Cash sales",
			"General sales revenue", "Meal sales revenue",
			"General sales tax", "Meals sales tax", "Sales tax",
			"Taxes", "Gross payout", "Net payout", "Reinvest",
		},
	}
	for _, d := range draws {
		data.Draws = append(data.Draws, drawRow{
			Date:   d.Date.Format("Jan 2, 2006"),
			Amount: formatDollars(d.Amount),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "financials.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Financials template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func formatDollars(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-$" + s
	}
	return "$" + s
}
