package procurement

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// sampleSeed fixes the demo dataset so repeated loads are identical
const sampleSeed = 42

const (
	sampleSuppliers = 20
	sampleItems     = 25
	sampleOrders    = 100
	sampleContracts = 15
	sampleBudgets   = 10
	sampleRFQs      = 30
)

var (
	sampleCountries   = []string{"USA", "China", "Germany", "India", "Brazil", "UK", "Japan", "Mexico"}
	sampleCities      = []string{"Chicago", "Shanghai", "Munich", "Mumbai", "Sao Paulo", "London", "Osaka", "Monterrey"}
	sampleCategories  = []string{"Raw Materials", "Office Supplies", "IT Equipment", "Services", "Machinery", "Packaging"}
	sampleUOMs        = []string{"Each", "Kg", "Liter", "Box"}
	sampleDepartments = []string{"Operations", "IT", "Finance", "HR", "Marketing"}
	samplePayTerms    = []int{15, 30, 45, 60}
)

// Sample generates the demonstration dataset anchored at now. The generator
// is seeded, so two datasets built from the same anchor are identical.
func Sample(now time.Time) *Dataset {
	return SampleSeeded(now, sampleSeed)
}

// SampleSeeded generates the demonstration dataset with a caller-chosen seed
func SampleSeeded(now time.Time, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	base := now.UTC().Truncate(24 * time.Hour)
	d := NewDataset()

	for i := 0; i < sampleSuppliers; i++ {
		d.Suppliers = append(d.Suppliers, Supplier{
			SupplierID:       fmt.Sprintf("SUP-%03d", i+1),
			SupplierName:     fmt.Sprintf("Supplier %d", i+1),
			Country:          pick(rng, sampleCountries),
			City:             pick(rng, sampleCities),
			ESGScore:         40 + rng.Float64()*60,
			Preferred:        rng.Float64() < 0.3,
			PaymentTermsDays: samplePayTerms[rng.Intn(len(samplePayTerms))],
		})
	}

	for i := 0; i < sampleItems; i++ {
		d.Items = append(d.Items, Item{
			ItemID:        fmt.Sprintf("ITM-%03d", i+1),
			ItemName:      fmt.Sprintf("Item %d", i+1),
			Category:      pick(rng, sampleCategories),
			UnitOfMeasure: pick(rng, sampleUOMs),
			StandardCost:  money(10 + rng.Float64()*490),
		})
	}

	for i := 0; i < sampleBudgets; i++ {
		d.Budgets = append(d.Budgets, Budget{
			BudgetCode: fmt.Sprintf("BUD-%03d", i+1),
			Department: sampleDepartments[i%len(sampleDepartments)],
			FiscalYear: base.Year(),
			Amount:     money(100000 + rng.Float64()*900000),
		})
	}

	for i := 0; i < sampleOrders; i++ {
		item := d.Items[rng.Intn(len(d.Items))]
		orderDate := base.AddDate(0, 0, -rng.Intn(365))
		po := PurchaseOrder{
			POID:       fmt.Sprintf("PO-%04d", i+1),
			SupplierID: d.Suppliers[rng.Intn(len(d.Suppliers))].SupplierID,
			ItemID:     item.ItemID,
			OrderDate:  orderDate,
			Quantity:   1 + rng.Intn(100),
			UnitPrice:  money(item.StandardCost.InexactFloat64() * (0.8 + rng.Float64()*0.5)),
			Department: pick(rng, sampleDepartments),
			BudgetCode: d.Budgets[rng.Intn(len(d.Budgets))].BudgetCode,
			Status:     sampleOrderStatus(rng),
		}
		d.PurchaseOrders = append(d.PurchaseOrders, po)

		expected := orderDate.AddDate(0, 0, 3+rng.Intn(19))
		actual := expected.AddDate(0, 0, rng.Intn(10)-2)
		received := po.Quantity
		if rng.Float64() < 0.05 {
			received = po.Quantity - rng.Intn(po.Quantity/2+1)
		}
		d.Deliveries = append(d.Deliveries, Delivery{
			DeliveryID:       fmt.Sprintf("DEL-%04d", i+1),
			POID:             po.POID,
			DeliveryDate:     expected,
			ActualDate:       actual,
			DefectFlag:       rng.Float64() < 0.08,
			QuantityReceived: received,
		})

		invoiceDate := actual.AddDate(0, 0, 1+rng.Intn(5))
		d.Invoices = append(d.Invoices, Invoice{
			InvoiceID:        fmt.Sprintf("INV-%04d", i+1),
			POID:             po.POID,
			InvoiceDate:      invoiceDate,
			Amount:           money(po.Spend().InexactFloat64() * (0.98 + rng.Float64()*0.04)),
			PaidDate:         invoiceDate.AddDate(0, 0, 15+rng.Intn(50)),
			DiscountCaptured: rng.Float64() < 0.2,
		})
	}

	for i := 0; i < sampleContracts; i++ {
		start := base.AddDate(0, 0, -(180 + rng.Intn(185)))
		d.Contracts = append(d.Contracts, Contract{
			ContractID:       fmt.Sprintf("CON-%03d", i+1),
			SupplierID:       d.Suppliers[i%len(d.Suppliers)].SupplierID,
			StartDate:        start,
			EndDate:          start.AddDate(1, 0, 0),
			ContractValue:    money(50000 + rng.Float64()*450000),
			ComplianceStatus: sampleComplianceStatus(rng),
			AutoRenewal:      rng.Float64() < 0.5,
		})
	}

	for i := 0; i < sampleRFQs; i++ {
		estimated := 1000 + rng.Float64()*19000
		d.RFQs = append(d.RFQs, RFQ{
			RFQID:             fmt.Sprintf("RFQ-%03d", i+1),
			ItemID:            d.Items[rng.Intn(len(d.Items))].ItemID,
			IssueDate:         base.AddDate(0, 0, -rng.Intn(180)),
			ResponsesReceived: 1 + rng.Intn(8),
			EstimatedSavings:  money(estimated),
			ActualSavings:     money(estimated * (0.5 + rng.Float64()*0.7)),
			Status:            pick(rng, []string{"Completed", "Awarded", "Open"}),
		})
	}

	return d
}

func sampleOrderStatus(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.55:
		return "Completed"
	case r < 0.75:
		return "Approved"
	case r < 0.90:
		return "Pending"
	case r < 0.95:
		return "Urgent"
	default:
		return "Cancelled"
	}
}

func sampleComplianceStatus(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.70:
		return "Compliant"
	case r < 0.85:
		return "Non-Compliant"
	default:
		return "Under Review"
	}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
