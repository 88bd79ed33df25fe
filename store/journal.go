package store

import (
	"encoding/json"
	"fmt"

	"github.com/ManuelElias1999/CuyFI/domain"
)

var (
	keyPrefixDeployment = []byte("dep/")
	keyPrefixSettlement = []byte("pnd/")
)

// Journal persists deployment and pending-settlement records as JSON rows in
// a KVStore. It implements the tracker's and the composer's journal ports.
type Journal struct {
	kv KVStore
}

func NewJournal(kv KVStore) *Journal {
	return &Journal{kv: kv}
}

func deploymentKey(id domain.DeploymentID) []byte {
	return append(append([]byte{}, keyPrefixDeployment...), id...)
}

func settlementKey(guid string) []byte {
	return append(append([]byte{}, keyPrefixSettlement...), guid...)
}

func (j *Journal) PutDeployment(d domain.Deployment) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode deployment %s: %w", d.ID, err)
	}
	return j.kv.Put(deploymentKey(d.ID), raw)
}

func (j *Journal) DeleteDeployment(id domain.DeploymentID) error {
	return j.kv.Delete(deploymentKey(id))
}

func (j *Journal) LoadDeployments() ([]domain.Deployment, error) {
	rows, err := j.kv.List(keyPrefixDeployment)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Deployment, 0, len(rows))
	for _, raw := range rows {
		var d domain.Deployment
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("decode deployment: %w", err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (j *Journal) PutSettlement(p domain.PendingSettlement) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode settlement %s: %w", p.GUID, err)
	}
	return j.kv.Put(settlementKey(p.GUID), raw)
}

func (j *Journal) LoadSettlements() ([]domain.PendingSettlement, error) {
	rows, err := j.kv.List(keyPrefixSettlement)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PendingSettlement, 0, len(rows))
	for _, raw := range rows {
		var p domain.PendingSettlement
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode settlement: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}
