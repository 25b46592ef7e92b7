package workspace

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpihub/backend/internal/domain/sales"
	"github.com/kpihub/backend/internal/domain/shared"
)

func createTestWorkspace(t *testing.T) *Workspace {
	t.Helper()
	ws, err := New(sales.Domain, sales.NewDataset(), 30*time.Minute)
	require.NoError(t, err)
	ws.ClearDomainEvents()
	return ws
}

func TestNewWorkspace(t *testing.T) {
	t.Run("creates workspace successfully", func(t *testing.T) {
		ws, err := New(sales.Domain, sales.NewDataset(), 30*time.Minute)

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, ws.ID)
		assert.Equal(t, "sales", ws.Domain)
		assert.Equal(t, SourceNone, ws.Source)
		assert.Equal(t, 1, ws.GetVersion())
		assert.False(t, ws.Expired(time.Now()))
		assert.False(t, ws.HasData())

		events := ws.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeWorkspaceCreated, events[0].EventType())
		assert.Equal(t, ws.ID, events[0].WorkspaceID())
	})

	t.Run("fails with empty domain", func(t *testing.T) {
		ws, err := New("", sales.NewDataset(), 30*time.Minute)

		require.Error(t, err)
		assert.Nil(t, ws)
		assert.Contains(t, err.Error(), "Domain")
	})

	t.Run("fails with nil dataset", func(t *testing.T) {
		ws, err := New(sales.Domain, nil, 30*time.Minute)

		require.Error(t, err)
		assert.Nil(t, ws)
	})

	t.Run("fails when dataset belongs to another domain", func(t *testing.T) {
		ws, err := New("procurement", sales.NewDataset(), 30*time.Minute)

		require.Error(t, err)
		assert.Nil(t, ws)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DATASET", domainErr.Code)
	})

	t.Run("fails with non-positive ttl", func(t *testing.T) {
		ws, err := New(sales.Domain, sales.NewDataset(), 0)

		require.Error(t, err)
		assert.Nil(t, ws)
		assert.Contains(t, err.Error(), "TTL")
	})
}

func TestWorkspace_ImportDataset(t *testing.T) {
	t.Run("replaces tables wholesale", func(t *testing.T) {
		ws := createTestWorkspace(t)

		incoming := sales.NewDataset()
		require.NoError(t, incoming.Append(sales.TableCustomers, map[string]any{
			"customer_id":   "CUST-001",
			"customer_name": "Jane Doe",
			"company":       "Acme Corp",
		}))

		err := ws.ImportDataset(incoming, "q1.xlsx", 1, 0)

		require.NoError(t, err)
		assert.Equal(t, SourceUpload, ws.Source)
		assert.Equal(t, 2, ws.GetVersion())
		assert.True(t, ws.HasData())
		assert.Equal(t, 1, ws.Dataset.TotalRows())

		events := ws.GetDomainEvents()
		require.Len(t, events, 1)
		imported, ok := events[0].(*DatasetImportedEvent)
		require.True(t, ok)
		assert.Equal(t, "q1.xlsx", imported.FileName)
		assert.Equal(t, 1, imported.ValidRows)
		assert.Equal(t, 0, imported.ErrorRows)
		assert.Equal(t, 2, imported.Version)
	})

	t.Run("rejects dataset from another domain", func(t *testing.T) {
		ws := createTestWorkspace(t)
		ws.Domain = "procurement"

		err := ws.ImportDataset(sales.NewDataset(), "q1.xlsx", 0, 0)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DATASET", domainErr.Code)
		assert.Equal(t, 1, ws.GetVersion())
		assert.Empty(t, ws.GetDomainEvents())
	})
}

func TestWorkspace_LoadSample(t *testing.T) {
	ws := createTestWorkspace(t)

	sample := sales.Sample(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	err := ws.LoadSample(sample, 42)

	require.NoError(t, err)
	assert.Equal(t, SourceSample, ws.Source)
	assert.Equal(t, 2, ws.GetVersion())
	assert.True(t, ws.HasData())

	events := ws.GetDomainEvents()
	require.Len(t, events, 1)
	loaded, ok := events[0].(*SampleLoadedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(42), loaded.Seed)
	assert.Equal(t, sample.TotalRows(), loaded.Rows)
}

func TestWorkspace_AppendRow(t *testing.T) {
	t.Run("appends record and bumps version", func(t *testing.T) {
		ws := createTestWorkspace(t)

		err := ws.AppendRow(sales.TableLeads, map[string]any{
			"lead_id": "LEAD-0001",
			"source":  "Referral",
			"status":  "New",
		})

		require.NoError(t, err)
		assert.Equal(t, 2, ws.GetVersion())
		assert.Equal(t, 1, ws.Dataset.TotalRows())

		events := ws.GetDomainEvents()
		require.Len(t, events, 1)
		appended, ok := events[0].(*RowAppendedEvent)
		require.True(t, ok)
		assert.Equal(t, sales.TableLeads, appended.Table)
	})

	t.Run("rejects unknown table without mutating", func(t *testing.T) {
		ws := createTestWorkspace(t)

		err := ws.AppendRow("Invoices", map[string]any{"invoice_id": "INV-1"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
		assert.Equal(t, 1, ws.GetVersion())
		assert.Empty(t, ws.GetDomainEvents())
	})
}

func TestWorkspace_ClearAndReset(t *testing.T) {
	ws := createTestWorkspace(t)
	require.NoError(t, ws.AppendRow(sales.TableLeads, map[string]any{"lead_id": "LEAD-0001"}))
	require.NoError(t, ws.AppendRow(sales.TableActivities, map[string]any{"activity_id": "ACT-0001"}))
	ws.Source = SourceUpload
	ws.ClearDomainEvents()

	err := ws.ClearTable(sales.TableLeads)
	require.NoError(t, err)
	assert.Equal(t, 4, ws.GetVersion())
	assert.Equal(t, 1, ws.Dataset.TotalRows())

	ws.ResetTables()
	assert.Equal(t, 5, ws.GetVersion())
	assert.Equal(t, SourceNone, ws.Source)
	assert.False(t, ws.HasData())

	events := ws.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeTableCleared, events[0].EventType())
	assert.Equal(t, EventTypeTablesReset, events[1].EventType())
}

func TestWorkspace_Touch(t *testing.T) {
	ws := createTestWorkspace(t)
	before := ws.ExpiresAt

	ws.Touch(2 * time.Hour)

	assert.True(t, ws.ExpiresAt.After(before))
	assert.Equal(t, 1, ws.GetVersion(), "touch must not invalidate cached results")
	assert.Empty(t, ws.GetDomainEvents())
}

func TestWorkspace_Expired(t *testing.T) {
	ws := createTestWorkspace(t)

	assert.False(t, ws.Expired(time.Now()))
	assert.True(t, ws.Expired(ws.ExpiresAt.Add(time.Second)))
}

func TestWorkspace_MarkDeleted(t *testing.T) {
	ws := createTestWorkspace(t)

	ws.MarkDeleted()

	events := ws.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeWorkspaceDeleted, events[0].EventType())
	assert.Equal(t, 1, ws.GetVersion())
}
