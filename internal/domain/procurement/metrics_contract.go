package procurement

import (
	"fmt"
	"sort"
	"time"

	"github.com/kpihub/backend/internal/domain/dataset"
	"github.com/kpihub/backend/internal/domain/metric"
)

func contractCompliance(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"compliance_status", "contracts", "value"}}
	if len(d.Contracts) == 0 {
		return view, metric.NoData("contract compliance")
	}
	asOf := params.Date("as_of", time.Now())
	counts := make(map[string]float64)
	values := make(map[string]float64)
	active := 0.0
	compliant := 0.0
	for _, c := range d.Contracts {
		counts[c.ComplianceStatus]++
		values[c.ComplianceStatus] += c.ContractValue.InexactFloat64()
		if c.ActiveOn(asOf) {
			active++
			if c.ComplianceStatus == "Compliant" {
				compliant++
			}
		}
	}
	for _, kv := range metric.SortedDesc(counts) {
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round2(values[kv.Key])})
	}
	if active == 0 {
		return view, "No contracts active on the reference date"
	}
	return view, "Contract compliance: " + metric.Percent(metric.Ratio(compliant, active)*100)
}

// contractUtilization compares order spend per supplier against the value
// of that supplier's contracts
func contractUtilization(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"supplier", "contract_value", "po_spend", "utilization_pct"}}
	if len(d.Contracts) == 0 {
		return view, metric.NoData("contract utilization")
	}
	names := d.supplierNames()
	contractValue := make(map[string]float64)
	for _, c := range d.Contracts {
		contractValue[c.SupplierID] += c.ContractValue.InexactFloat64()
	}
	spend := make(map[string]float64)
	for _, po := range d.activeOrders() {
		if _, ok := contractValue[po.SupplierID]; ok {
			spend[po.SupplierID] += po.Spend().InexactFloat64()
		}
	}
	utilization := make(map[string]float64, len(contractValue))
	labels := make(map[string]string, len(contractValue))
	for supplierID, value := range contractValue {
		label := supplierLabel(names, supplierID)
		labels[label] = supplierID
		utilization[label] = metric.Ratio(spend[supplierID], value) * 100
	}
	var all []float64
	for _, kv := range metric.SortedDesc(utilization) {
		supplierID := labels[kv.Key]
		view.Rows = append(view.Rows, []any{kv.Key, metric.Round2(contractValue[supplierID]), metric.Round2(spend[supplierID]), metric.Round1(kv.Value)})
		all = append(all, kv.Value)
	}
	return view, "Average contract utilization: " + metric.Percent(metric.Mean(all))
}

func contractRenewal(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"contract_id", "supplier", "end_date", "days_to_expiry", "auto_renewal"}}
	if len(d.Contracts) == 0 {
		return view, metric.NoData("contract renewal pipeline")
	}
	asOf := params.Date("as_of", time.Now())
	window := params.Int("days", 90)
	names := d.supplierNames()

	type expiring struct {
		contract Contract
		days     float64
	}
	var upcoming []expiring
	autoRenewals := 0
	for _, c := range d.Contracts {
		if c.EndDate.IsZero() || c.EndDate.Before(asOf) {
			continue
		}
		days := daysBetween(asOf, c.EndDate)
		if days > float64(window) {
			continue
		}
		upcoming = append(upcoming, expiring{contract: c, days: days})
		if c.AutoRenewal {
			autoRenewals++
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].days < upcoming[j].days })
	for _, e := range upcoming {
		view.Rows = append(view.Rows, []any{
			e.contract.ContractID, supplierLabel(names, e.contract.SupplierID),
			dataset.FormatDate(e.contract.EndDate), int(e.days), e.contract.AutoRenewal,
		})
	}
	if len(upcoming) == 0 {
		return view, fmt.Sprintf("No contracts expiring within %d days", window)
	}
	return view, fmt.Sprintf("%d contracts expiring within %d days (%d auto-renew)", len(upcoming), window, autoRenewals)
}

func rfqSavings(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"status", "rfqs", "estimated", "actual", "realization_pct"}}
	if len(d.RFQs) == 0 {
		return view, metric.NoData("RFQ savings")
	}
	counts := make(map[string]float64)
	estimated := make(map[string]float64)
	actual := make(map[string]float64)
	totalEstimated := 0.0
	totalActual := 0.0
	for _, r := range d.RFQs {
		counts[r.Status]++
		est := r.EstimatedSavings.InexactFloat64()
		act := r.ActualSavings.InexactFloat64()
		estimated[r.Status] += est
		actual[r.Status] += act
		totalEstimated += est
		totalActual += act
	}
	for _, kv := range metric.SortedDesc(counts) {
		realization := metric.Ratio(actual[kv.Key], estimated[kv.Key]) * 100
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round2(estimated[kv.Key]), metric.Round2(actual[kv.Key]), metric.Round1(realization)})
	}
	return view, "Savings realization: " + metric.Percent(metric.Ratio(totalActual, totalEstimated)*100)
}

// invoiceAccuracy treats an invoice as accurate when its amount is within
// 2% of the matched order spend
func invoiceAccuracy(d *Dataset, params metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"month", "invoices", "accurate", "accuracy_pct"}}
	if len(d.Invoices) == 0 {
		return view, metric.NoData("invoice accuracy")
	}
	tolerance := params.Float("tolerance", 0.02)
	orders := d.ordersByPOID()
	invoices := make(map[string]float64)
	accurate := make(map[string]float64)
	matched := 0.0
	accurateTotal := 0.0
	for _, inv := range d.Invoices {
		po, ok := orders[inv.POID]
		if !ok {
			continue
		}
		key := monthKey(inv.InvoiceDate)
		invoices[key]++
		matched++
		expected := po.Spend().InexactFloat64()
		diff := inv.Amount.InexactFloat64() - expected
		if diff < 0 {
			diff = -diff
		}
		if expected > 0 && diff/expected <= tolerance {
			accurate[key]++
			accurateTotal++
		}
	}
	if matched == 0 {
		return view, "No invoices matched to purchase orders"
	}
	for _, kv := range metric.SortedByKey(invoices) {
		pct := metric.Ratio(accurate[kv.Key], kv.Value) * 100
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), int(accurate[kv.Key]), metric.Round1(pct)})
	}
	return view, "Invoice accuracy: " + metric.Percent(metric.Ratio(accurateTotal, matched)*100)
}

func paymentTerms(d *Dataset, _ metric.Params) (dataset.View, string) {
	view := dataset.View{Columns: []string{"payment_terms_days", "invoices", "avg_days_to_pay", "discount_capture_pct"}}
	if len(d.Invoices) == 0 {
		return view, metric.NoData("payment terms")
	}
	orders := d.ordersByPOID()
	suppliers := d.suppliersByID()
	daysByTerms := make(map[string][]float64)
	discounts := make(map[string]float64)
	invoiceCounts := make(map[string]float64)
	var allDays []float64
	for _, inv := range d.Invoices {
		if inv.PaidDate.IsZero() || inv.InvoiceDate.IsZero() {
			continue
		}
		terms := "Unknown"
		if po, ok := orders[inv.POID]; ok {
			if s, ok := suppliers[po.SupplierID]; ok {
				terms = fmt.Sprintf("Net %d", s.PaymentTermsDays)
			}
		}
		days := daysBetween(inv.InvoiceDate, inv.PaidDate)
		daysByTerms[terms] = append(daysByTerms[terms], days)
		invoiceCounts[terms]++
		if inv.DiscountCaptured {
			discounts[terms]++
		}
		allDays = append(allDays, days)
	}
	if len(allDays) == 0 {
		return view, "No invoices with both invoice and paid dates"
	}
	for _, kv := range metric.SortedDesc(invoiceCounts) {
		capture := metric.Ratio(discounts[kv.Key], kv.Value) * 100
		view.Rows = append(view.Rows, []any{kv.Key, int(kv.Value), metric.Round1(metric.Mean(daysByTerms[kv.Key])), metric.Round1(capture)})
	}
	return view, fmt.Sprintf("Average days to pay: %.1f", metric.Mean(allDays))
}
