package audiounit

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// ImplementorValueObserver lets the owning unit react to every value change
// before observers hear about it.
type ImplementorValueObserver func(p *Parameter, value float32)

type observerEntry struct {
	token    ObserverToken
	observer ParameterObserver
}

// ParameterTree is the set of parameters a unit publishes. Observer
// registration is safe for concurrent use.
type ParameterTree struct {
	params       []*Parameter
	byIdentifier map[string]*Parameter
	byAddress    map[ParameterAddress]*Parameter

	mu          sync.RWMutex
	observers   []observerEntry
	implementor ImplementorValueObserver

	nextToken atomic.Uint64
}

// NewParameterTree builds a tree from params. Identifiers and addresses must
// be unique, and a parameter belongs to at most one tree.
func NewParameterTree(params ...*Parameter) (*ParameterTree, error) {
	t := &ParameterTree{
		params:       make([]*Parameter, 0, len(params)),
		byIdentifier: make(map[string]*Parameter, len(params)),
		byAddress:    make(map[ParameterAddress]*Parameter, len(params)),
	}

	for _, p := range params {
		if p == nil {
			continue
		}
		if p.tree != nil {
			return nil, fmt.Errorf("audiounit: parameter %q already belongs to a tree", p.identifier)
		}
		if _, dup := t.byIdentifier[p.identifier]; dup {
			return nil, fmt.Errorf("%w: identifier %q", ErrDuplicateParameter, p.identifier)
		}
		if _, dup := t.byAddress[p.address]; dup {
			return nil, fmt.Errorf("%w: address %d", ErrDuplicateParameter, p.address)
		}
		t.byIdentifier[p.identifier] = p
		t.byAddress[p.address] = p
		t.params = append(t.params, p)
	}

	for _, p := range t.params {
		p.tree = t
	}

	return t, nil
}

// Parameter looks a parameter up by identifier.
func (t *ParameterTree) Parameter(identifier string) (*Parameter, bool) {
	if t == nil {
		return nil, false
	}
	p, ok := t.byIdentifier[identifier]
	return p, ok
}

// ParameterByAddress looks a parameter up by address.
func (t *ParameterTree) ParameterByAddress(address ParameterAddress) (*Parameter, bool) {
	if t == nil {
		return nil, false
	}
	p, ok := t.byAddress[address]
	return p, ok
}

// Parameters returns the parameters in declaration order.
func (t *ParameterTree) Parameters() []*Parameter {
	if t == nil {
		return nil
	}
	out := make([]*Parameter, len(t.params))
	copy(out, t.params)
	return out
}

// SetImplementorValueObserver installs the owning unit's change hook.
func (t *ParameterTree) SetImplementorValueObserver(fn ImplementorValueObserver) {
	t.mu.Lock()
	t.implementor = fn
	t.mu.Unlock()
}

// TokenByAddingParameterObserver registers obs and returns its token.
func (t *ParameterTree) TokenByAddingParameterObserver(obs ParameterObserver) ObserverToken {
	if obs == nil {
		return 0
	}

	token := ObserverToken(t.nextToken.Inc())

	t.mu.Lock()
	t.observers = append(t.observers, observerEntry{token: token, observer: obs})
	t.mu.Unlock()

	return token
}

// RemoveParameterObserver unregisters the observer for token and reports
// whether it was registered.
func (t *ParameterTree) RemoveParameterObserver(token ObserverToken) bool {
	if token == 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i, e := range t.observers {
		if e.token == token {
			t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
			return true
		}
	}

	return false
}

// ObserverCount returns the number of registered observers.
func (t *ParameterTree) ObserverCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.observers)
}

func (t *ParameterTree) publish(p *Parameter, v float32, originator ObserverToken) {
	t.mu.RLock()
	implementor := t.implementor
	observers := make([]observerEntry, len(t.observers))
	copy(observers, t.observers)
	t.mu.RUnlock()

	if implementor != nil {
		implementor(p, v)
	}

	for _, e := range observers {
		if e.token == originator {
			continue
		}
		e.observer(p.address, v)
	}
}
