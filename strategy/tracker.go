package strategy

import (
	"fmt"
	"sync"
	"time"

	"github.com/ManuelElias1999/CuyFI/domain"
	"github.com/ManuelElias1999/CuyFI/safemath"
)

// DeploymentJournal persists deployment records so a restarted tracker
// resumes with the same view of remote capital.
type DeploymentJournal interface {
	PutDeployment(d domain.Deployment) error
	DeleteDeployment(id domain.DeploymentID) error
	LoadDeployments() ([]domain.Deployment, error)
}

// Tracker records capital sent to remote chains. It is the sole input to the
// vault's remote-assets term: per-destination totals always equal the sum of
// that destination's active deployment amounts.
type Tracker struct {
	mu          sync.Mutex
	deployments map[domain.DeploymentID]*domain.Deployment
	perDest     map[domain.ChainID]uint64
	total       uint64
	nonce       uint64

	journal DeploymentJournal
	now     func() time.Time
}

// NewTracker builds a tracker, reloading any journaled deployments.
// journal may be nil for a purely in-memory tracker.
func NewTracker(journal DeploymentJournal) (*Tracker, error) {
	t := &Tracker{
		deployments: make(map[domain.DeploymentID]*domain.Deployment),
		perDest:     make(map[domain.ChainID]uint64),
		journal:     journal,
		now:         time.Now,
	}
	if journal == nil {
		return t, nil
	}
	recs, err := journal.LoadDeployments()
	if err != nil {
		return nil, fmt.Errorf("load deployments: %w", err)
	}
	for _, d := range recs {
		d := d
		t.deployments[d.ID] = &d
		t.perDest[d.DestinationChain] += d.Amount
		t.total += d.Amount
		// Keep the nonce ahead of every restored id.
		var chain, nonce uint64
		if _, err := fmt.Sscanf(string(d.ID), "dep-%d-%d", &chain, &nonce); err == nil && nonce >= t.nonce {
			t.nonce = nonce + 1
		}
	}
	return t, nil
}

// record creates a deployment for capital just handed to the transport.
func (t *Tracker) record(dst domain.ChainID, destVault domain.Address, amount uint64) (domain.DeploymentID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	total, ok := safemath.Add64(t.total, amount)
	if !ok {
		return "", safemath.ErrOverflow
	}
	id := domain.NewDeploymentID(dst, t.nonce)
	d := &domain.Deployment{
		ID:               id,
		DestinationChain: dst,
		DestinationVault: destVault,
		Amount:           amount,
		UpdatedAt:        t.now(),
	}
	if err := t.persist(d); err != nil {
		return "", err
	}
	t.nonce++
	t.deployments[id] = d
	t.perDest[dst] += amount
	t.total = total
	return id, nil
}

// withdraw optimistically decrements a deployment; the physical asset return
// is a separate transport leg. The record is removed at zero.
func (t *Tracker) withdraw(id domain.DeploymentID, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.deployments[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrDeploymentNotFound)
	}
	remaining, ok := safemath.Sub64(d.Amount, amount)
	if !ok {
		return fmt.Errorf("%s has %d, want %d: %w", id, d.Amount, amount, ErrInsufficientDeployed)
	}
	if remaining == 0 {
		if t.journal != nil {
			if err := t.journal.DeleteDeployment(id); err != nil {
				return fmt.Errorf("journal delete %s: %w", id, err)
			}
		}
		delete(t.deployments, id)
	} else {
		d.Amount = remaining
		d.UpdatedAt = t.now()
		if err := t.persist(d); err != nil {
			d.Amount = remaining + amount
			return err
		}
	}
	t.perDest[d.DestinationChain] -= amount
	if t.perDest[d.DestinationChain] == 0 {
		delete(t.perDest, d.DestinationChain)
	}
	t.total -= amount
	return nil
}

// update overwrites a deployment's tracked amount. This is the only path by
// which remote yield or loss becomes visible to the ledger; it is trust-based
// and not independently verified.
func (t *Tracker) update(id domain.DeploymentID, newAmount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	d, ok := t.deployments[id]
	if !ok {
		return fmt.Errorf("%s: %w", id, ErrDeploymentNotFound)
	}
	total, ok := safemath.Sub64(t.total, d.Amount)
	if !ok {
		return safemath.ErrOverflow
	}
	total, ok = safemath.Add64(total, newAmount)
	if !ok {
		return safemath.ErrOverflow
	}

	prev := d.Amount
	d.Amount = newAmount
	d.UpdatedAt = t.now()
	if err := t.persist(d); err != nil {
		d.Amount = prev
		return err
	}
	t.perDest[d.DestinationChain] += newAmount
	t.perDest[d.DestinationChain] -= prev
	t.total = total
	return nil
}

func (t *Tracker) persist(d *domain.Deployment) error {
	if t.journal == nil {
		return nil
	}
	if err := t.journal.PutDeployment(*d); err != nil {
		return fmt.Errorf("journal put %s: %w", d.ID, err)
	}
	return nil
}

// TotalDeployed is read by the vault's totalAssets computation.
func (t *Tracker) TotalDeployed() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// DeployedTo returns the active total for one destination chain.
func (t *Tracker) DeployedTo(dst domain.ChainID) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.perDest[dst]
}

// Get returns a copy of the deployment record.
func (t *Tracker) Get(id domain.DeploymentID) (domain.Deployment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	d, ok := t.deployments[id]
	if !ok {
		return domain.Deployment{}, fmt.Errorf("%s: %w", id, ErrDeploymentNotFound)
	}
	return *d, nil
}

// Active returns the number of live deployment records.
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.deployments)
}
