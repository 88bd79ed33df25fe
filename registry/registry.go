// Package registry is the access-control component consulted by every
// mutating operation: it holds the owner and agent identities and the
// independent allowlists for transports, protocol adapters, and swap targets.
package registry

import (
	"errors"
	"sync"

	"github.com/ManuelElias1999/CuyFI/domain"
)

var (
	ErrZeroAddress   = errors.New("zero address")
	ErrNotOwner      = errors.New("caller is not the owner")
	ErrNotAgent      = errors.New("caller is not the agent")
	ErrNotAuthorized = errors.New("caller is neither owner nor agent")
)

// Registry gates which callers may invoke privileged operations and which
// external addresses may be invoked. Owner is the highest trust tier
// (reconfiguration, unpause); agent is the automation identity (strategy and
// yield execution, pause).
type Registry struct {
	mu    sync.RWMutex
	owner domain.Address
	agent domain.Address

	transports  map[domain.Address]bool
	adapters    map[domain.Address]bool
	swapTargets map[domain.Address]bool
}

func New(owner, agent domain.Address) (*Registry, error) {
	if owner.IsZero() || agent.IsZero() {
		return nil, ErrZeroAddress
	}
	return &Registry{
		owner:       owner,
		agent:       agent,
		transports:  make(map[domain.Address]bool),
		adapters:    make(map[domain.Address]bool),
		swapTargets: make(map[domain.Address]bool),
	}, nil
}

func (r *Registry) Owner() domain.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owner
}

func (r *Registry) Agent() domain.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agent
}

// RequireOwner fails unless the caller is the owner.
func (r *Registry) RequireOwner(caller domain.Address) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if caller != r.owner {
		return ErrNotOwner
	}
	return nil
}

// RequireAgent fails unless the caller is the agent.
func (r *Registry) RequireAgent(caller domain.Address) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if caller != r.agent {
		return ErrNotAgent
	}
	return nil
}

// RequireOwnerOrAgent fails unless the caller holds either tier.
func (r *Registry) RequireOwnerOrAgent(caller domain.Address) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if caller != r.owner && caller != r.agent {
		return ErrNotAuthorized
	}
	return nil
}

// SetTransport toggles a transport binding. Owner-or-agent.
func (r *Registry) SetTransport(caller, transport domain.Address, approved bool) error {
	return r.set(caller, transport, approved, func(r *Registry) map[domain.Address]bool { return r.transports })
}

// SetAdapter toggles a protocol-adapter binding. Owner-or-agent.
func (r *Registry) SetAdapter(caller, adapter domain.Address, approved bool) error {
	return r.set(caller, adapter, approved, func(r *Registry) map[domain.Address]bool { return r.adapters })
}

// SetSwapTarget toggles a swap-target binding. Owner-or-agent.
func (r *Registry) SetSwapTarget(caller, target domain.Address, approved bool) error {
	return r.set(caller, target, approved, func(r *Registry) map[domain.Address]bool { return r.swapTargets })
}

func (r *Registry) set(caller, addr domain.Address, approved bool, pick func(*Registry) map[domain.Address]bool) error {
	if err := r.RequireOwnerOrAgent(caller); err != nil {
		return err
	}
	if addr.IsZero() {
		return ErrZeroAddress
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m := pick(r)
	if approved {
		m[addr] = true
	} else {
		delete(m, addr)
	}
	return nil
}

func (r *Registry) IsApprovedTransport(transport domain.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.transports[transport]
}

func (r *Registry) IsApprovedAdapter(adapter domain.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[adapter]
}

func (r *Registry) IsApprovedSwapTarget(target domain.Address) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.swapTargets[target]
}
