package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelElias1999/CuyFI/domain"
)

func TestJournalDeploymentRoundTrip(t *testing.T) {
	j := NewJournal(NewMemoryStore())

	d := domain.Deployment{
		ID:               domain.NewDeploymentID(30102, 0),
		DestinationChain: 30102,
		DestinationVault: "spoke-vault",
		Amount:           600_000,
		UpdatedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, j.PutDeployment(d))

	got, err := j.LoadDeployments()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, d, got[0])

	require.NoError(t, j.DeleteDeployment(d.ID))
	got, err = j.LoadDeployments()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJournalSettlements(t *testing.T) {
	j := NewJournal(NewMemoryStore())

	p := domain.PendingSettlement{
		GUID:             "guid-1",
		Beneficiary:      "alice",
		BeneficiaryChain: 30102,
		Shares:           1_000_000,
		CreatedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Status:           domain.SettlementStatusPending,
	}
	require.NoError(t, j.PutSettlement(p))

	// Status updates overwrite in place.
	p.Status = domain.SettlementStatusCompleted
	require.NoError(t, j.PutSettlement(p))

	got, err := j.LoadSettlements()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.SettlementStatusCompleted, got[0].Status)
}

func TestMemoryStorePrefixList(t *testing.T) {
	m := NewMemoryStore()
	require.NoError(t, m.Put([]byte("dep/a"), []byte("1")))
	require.NoError(t, m.Put([]byte("dep/b"), []byte("2")))
	require.NoError(t, m.Put([]byte("pnd/x"), []byte("3")))

	rows, err := m.List([]byte("dep/"))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte("1"), []byte("2")}, rows)

	_, err = m.Get([]byte("missing"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Close())
	_, err = m.Get([]byte("dep/a"))
	assert.ErrorIs(t, err, ErrClosed)
}
