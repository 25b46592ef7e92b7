package sales

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// sampleSeed fixes the demo dataset so repeated loads are identical
const sampleSeed = 42

const (
	sampleCustomers     = 50
	sampleProducts      = 30
	sampleOrders        = 200
	sampleReps          = 15
	sampleLeads         = 100
	sampleOpportunities = 80
	sampleActivities    = 150
	sampleTargets       = 20
)

var (
	sampleCompanies  = []string{"Acme Corporation", "TechStart Inc", "Global Solutions Ltd", "Innovation Co", "Premium Services", "Elite Business Group", "Future Technologies", "Smart Solutions"}
	sampleIndustries = []string{"Technology", "Healthcare", "Finance", "Manufacturing", "Retail", "Education", "Consulting", "Real Estate"}
	sampleSegments   = []string{"Enterprise", "SMB", "Startup", "Individual"}
	sampleRegions    = []string{"North America", "Europe", "Asia Pacific", "Middle East", "Africa"}
	sampleCountries  = []string{"USA", "Canada", "UK", "Germany", "France", "Australia", "Japan", "Singapore"}

	sampleProductNames = []string{"Premium Software Suite", "Enterprise Solution", "Cloud Platform", "Analytics Dashboard", "CRM System", "Security Suite", "Collaboration Tool", "Data Analytics"}
	sampleCategories   = []string{"Software", "Platform", "Service", "Solution", "Tool", "System"}
	sampleSubcats      = []string{"Enterprise", "Cloud", "Mobile", "Web", "Desktop", "API"}

	sampleFirstNames = []string{"John", "Sarah", "Michael", "Emily", "David", "Lisa", "Robert", "Jennifer", "James", "Amanda"}
	sampleLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
	sampleTeams      = []string{"East Coast", "West Coast", "Central", "Northern", "Southern", "International"}

	sampleChannels      = []string{"Online", "In-Store", "Phone", "Partner"}
	sampleLeadSources   = []string{"Website", "Referral", "Cold Call", "Trade Show", "Social Media", "Email Campaign"}
	sampleLeadStatuses  = []string{"New", "Contacted", "Qualified", "Unqualified", "Converted"}
	sampleActivityTypes = []string{"Call", "Email", "Meeting", "Demo"}
	sampleProbabilities = []float64{10, 25, 50, 75, 90}
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

	for i := 0; i < sampleCustomers; i++ {
		company := fmt.Sprintf("%s %d", pick(rng, sampleCompanies), i+1)
		region := pick(rng, sampleRegions)
		d.Customers = append(d.Customers, Customer{
			CustomerID:      fmt.Sprintf("CUST-%03d", i+1),
			CustomerName:    company,
			Company:         company,
			Industry:        pick(rng, sampleIndustries),
			Region:          region,
			Country:         pick(rng, sampleCountries),
			CustomerSegment: pick(rng, sampleSegments),
			AcquisitionDate: base.AddDate(0, 0, -(90 + rng.Intn(1000))),
			Status:          sampleCustomerStatus(rng),
		})
	}

	for i := 0; i < sampleProducts; i++ {
		price := 50 + rng.Float64()*4950
		d.Products = append(d.Products, Product{
			ProductID:   fmt.Sprintf("PROD-%03d", i+1),
			ProductName: fmt.Sprintf("%s %d", pick(rng, sampleProductNames), i+1),
			Category:    pick(rng, sampleCategories),
			Subcategory: pick(rng, sampleSubcats),
			UnitPrice:   money(price),
			CostPrice:   money(price * (0.3 + rng.Float64()*0.4)),
			LaunchDate:  base.AddDate(0, 0, -(180 + rng.Intn(900))),
			Status:      sampleProductStatus(rng),
		})
	}

	for i := 0; i < sampleReps; i++ {
		d.SalesReps = append(d.SalesReps, SalesRep{
			SalesRepID:  fmt.Sprintf("REP-%03d", i+1),
			FirstName:   pick(rng, sampleFirstNames),
			LastName:    pick(rng, sampleLastNames),
			Region:      pick(rng, sampleRegions),
			Team:        pick(rng, sampleTeams),
			HireDate:    base.AddDate(0, 0, -(365 + rng.Intn(1500))),
			QuotaAnnual: money(50000 + rng.Float64()*450000),
			BaseSalary:  money(40000 + rng.Float64()*60000),
		})
	}

	for i := 0; i < sampleOrders; i++ {
		customer := d.Customers[rng.Intn(len(d.Customers))]
		product := d.Products[rng.Intn(len(d.Products))]
		quantity := 1 + rng.Intn(10)
		d.SalesOrders = append(d.SalesOrders, SalesOrder{
			OrderID:     fmt.Sprintf("ORD-%04d", i+1),
			CustomerID:  customer.CustomerID,
			OrderDate:   base.AddDate(0, 0, -rng.Intn(365)),
			ProductID:   product.ProductID,
			Quantity:    quantity,
			UnitPrice:   product.UnitPrice,
			TotalAmount: product.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
			SalesRepID:  d.SalesReps[rng.Intn(len(d.SalesReps))].SalesRepID,
			Region:      customer.Region,
			Channel:     pick(rng, sampleChannels),
		})
	}

	for i := 0; i < sampleLeads; i++ {
		d.Leads = append(d.Leads, Lead{
			LeadID:         fmt.Sprintf("LEAD-%04d", i+1),
			Source:         pick(rng, sampleLeadSources),
			CreatedDate:    base.AddDate(0, 0, -rng.Intn(365)),
			Status:         pick(rng, sampleLeadStatuses),
			EstimatedValue: money(5000 + rng.Float64()*95000),
		})
	}

	for i := 0; i < sampleOpportunities; i++ {
		created := base.AddDate(0, 0, -(30 + rng.Intn(335)))
		d.Opportunities = append(d.Opportunities, Opportunity{
			OpportunityID: fmt.Sprintf("OPP-%04d", i+1),
			LeadID:        d.Leads[rng.Intn(len(d.Leads))].LeadID,
			CustomerID:    d.Customers[rng.Intn(len(d.Customers))].CustomerID,
			Stage:         pick(rng, stageOrder),
			Amount:        money(10000 + rng.Float64()*190000),
			CreatedDate:   created,
			CloseDate:     created.AddDate(0, 0, 30+rng.Intn(150)),
			Probability:   sampleProbabilities[rng.Intn(len(sampleProbabilities))],
		})
	}

	for i := 0; i < sampleActivities; i++ {
		day := base.AddDate(0, 0, -rng.Intn(365))
		d.Activities = append(d.Activities, Activity{
			ActivityID:      fmt.Sprintf("ACT-%04d", i+1),
			SalesRepID:      d.SalesReps[rng.Intn(len(d.SalesReps))].SalesRepID,
			Type:            pick(rng, sampleActivityTypes),
			OccurredAt:      day.Add(time.Duration(8+rng.Intn(10)) * time.Hour),
			DurationMinutes: 15 + rng.Intn(106),
			Outcome:         sampleActivityOutcome(rng),
		})
	}

	quarters := []string{"Q1", "Q2", "Q3", "Q4"}
	for i := 0; i < sampleTargets; i++ {
		rep := d.SalesReps[i%len(d.SalesReps)]
		d.Targets = append(d.Targets, Target{
			TargetID:      fmt.Sprintf("TGT-%03d", i+1),
			SalesRepID:    rep.SalesRepID,
			Period:        fmt.Sprintf("%s %d", quarters[i%len(quarters)], base.Year()),
			RevenueTarget: money(50000 + rng.Float64()*450000),
			DealsTarget:   5 + rng.Intn(25),
		})
	}

	return d
}

func sampleCustomerStatus(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.60:
		return "Active"
	case r < 0.80:
		return "Inactive"
	default:
		return "Churned"
	}
}

func sampleProductStatus(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.75:
		return "Active"
	case r < 0.90:
		return "Coming Soon"
	default:
		return "Discontinued"
	}
}

func sampleActivityOutcome(rng *rand.Rand) string {
	switch r := rng.Float64(); {
	case r < 0.50:
		return "Successful"
	case r < 0.75:
		return "Follow-up Required"
	default:
		return "Unsuccessful"
	}
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
