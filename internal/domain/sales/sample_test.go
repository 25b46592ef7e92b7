package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleDeterminism(t *testing.T) {
	anchor := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	first := Sample(anchor)
	second := Sample(anchor)

	assert.Equal(t, first, second)
}

func TestSampleShape(t *testing.T) {
	d := Sample(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))

	assert.Len(t, d.Customers, 50)
	assert.Len(t, d.Products, 30)
	assert.Len(t, d.SalesOrders, 200)
	assert.Len(t, d.SalesReps, 15)
	assert.Len(t, d.Leads, 100)
	assert.Len(t, d.Opportunities, 80)
	assert.Len(t, d.Activities, 150)
	assert.Len(t, d.Targets, 20)
	assert.Equal(t, 645, d.TotalRows())
}

func TestSampleIntegrity(t *testing.T) {
	anchor := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	d := Sample(anchor)

	customerIDs := make(map[string]bool)
	for _, c := range d.Customers {
		customerIDs[c.CustomerID] = true
	}
	productIDs := make(map[string]bool)
	for _, p := range d.Products {
		productIDs[p.ProductID] = true
		assert.True(t, p.UnitPrice.IsPositive(), p.ProductID)
		assert.True(t, p.CostPrice.LessThan(p.UnitPrice), p.ProductID)
	}
	repIDs := make(map[string]bool)
	for _, r := range d.SalesReps {
		repIDs[r.SalesRepID] = true
		assert.True(t, r.QuotaAnnual.IsPositive(), r.SalesRepID)
	}
	leadIDs := make(map[string]bool)
	for _, l := range d.Leads {
		leadIDs[l.LeadID] = true
	}

	channels := map[string]bool{"Online": true, "In-Store": true, "Phone": true, "Partner": true}
	for _, o := range d.SalesOrders {
		assert.True(t, customerIDs[o.CustomerID], o.OrderID)
		assert.True(t, productIDs[o.ProductID], o.OrderID)
		assert.True(t, repIDs[o.SalesRepID], o.OrderID)
		assert.True(t, channels[o.Channel], o.Channel)
		assert.False(t, o.OrderDate.After(anchor), o.OrderID)
		assert.True(t, o.TotalAmount.Equal(o.Revenue()), o.OrderID)
	}

	stages := make(map[string]bool, len(stageOrder))
	for _, s := range stageOrder {
		stages[s] = true
	}
	for _, o := range d.Opportunities {
		assert.True(t, leadIDs[o.LeadID], o.OpportunityID)
		assert.True(t, customerIDs[o.CustomerID], o.OpportunityID)
		assert.True(t, stages[o.Stage], o.Stage)
		assert.True(t, o.CloseDate.After(o.CreatedDate), o.OpportunityID)
	}

	for _, a := range d.Activities {
		assert.True(t, repIDs[a.SalesRepID], a.ActivityID)
		assert.GreaterOrEqual(t, a.DurationMinutes, 15, a.ActivityID)
	}
	for _, tgt := range d.Targets {
		assert.True(t, repIDs[tgt.SalesRepID], tgt.TargetID)
		assert.True(t, tgt.RevenueTarget.IsPositive(), tgt.TargetID)
		assert.Positive(t, tgt.DealsTarget, tgt.TargetID)
	}
}

func TestSampleAnchorsAtDay(t *testing.T) {
	morning := Sample(time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	evening := Sample(time.Date(2024, 6, 15, 22, 45, 0, 0, time.UTC))

	assert.Equal(t, morning, evening)
}
