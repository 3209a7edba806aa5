package navigation

import (
	"context"
	"sync"

	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

// Listener is notified after every committed state change.
type Listener func(ctx context.Context, state State)

type NavigatorOptions struct {
	Logger *logger.Logger
	// ScrollToTop runs after each explicit Navigate, once listeners have seen the state.
	ScrollToTop func()
}

type subscription struct {
	id int
	fn Listener
}

// Navigator keeps the current State in step with a History. Explicit navigation goes
// State -> address -> push; load and history moves go address -> State through Resolve.
type Navigator struct {
	mu        sync.Mutex
	history   History
	state     State
	listeners []subscription
	nextID    int

	scrollToTop func()
	logg        *logger.Logger
}

func NewNavigator(history History, opts NavigatorOptions) *Navigator {
	if history == nil {
		history = NewMemoryHistory("/")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	scroll := opts.ScrollToTop
	if scroll == nil {
		scroll = func() {}
	}
	return &Navigator{
		history:     history,
		state:       Home(),
		scrollToTop: scroll,
		logg:        logg,
	}
}

// Subscribe registers l and returns a function that removes it.
func (n *Navigator) Subscribe(l Listener) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.listeners = append(n.listeners, subscription{id: id, fn: l})
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, sub := range n.listeners {
			if sub.id == id {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Load derives the initial state from the address the history currently shows.
func (n *Navigator) Load(ctx context.Context) State {
	return n.fromAddress(ctx, n.history.Current())
}

// PopState handles a history move made by the platform, e.g. the back button.
func (n *Navigator) PopState(ctx context.Context, address string) State {
	return n.fromAddress(ctx, address)
}

// Back walks the history one entry back. It reports false at the first entry.
func (n *Navigator) Back(ctx context.Context) (State, bool) {
	address, ok := n.history.Back()
	if !ok {
		return n.State(), false
	}
	return n.fromAddress(ctx, address), true
}

func (n *Navigator) Forward(ctx context.Context) (State, bool) {
	address, ok := n.history.Forward()
	if !ok {
		return n.State(), false
	}
	return n.fromAddress(ctx, address), true
}

// Navigate pushes the canonical address of target as a new history entry, commits
// the state parsed back from that address and scrolls to the top. The committed state
// is the one Back and Forward will derive for the same entry.
func (n *Navigator) Navigate(ctx context.Context, target State) (State, error) {
	if !target.Page.Known() {
		return n.State(), pkgerrors.New(pkgerrors.CodeValidation, "unknown page").
			WithDetails(map[string]string{"page": string(target.Page)})
	}
	address, err := EncodeAddress(target)
	if err != nil {
		return n.State(), err
	}
	n.history.Push(address)

	state := ParseAddress(address)
	n.commit(ctx, state, address)
	n.scrollToTop()
	return state, nil
}

func (n *Navigator) fromAddress(ctx context.Context, address string) State {
	state, recognized := Resolve(address)
	if !recognized {
		n.logg.Debug(n.logg.WithFields(ctx, map[string]any{
			"code":    string(pkgerrors.CodeUnknownAddress),
			"address": address,
		}), "navigation.unrecognized_address")
	}
	n.commit(ctx, state, address)
	return state
}

func (n *Navigator) commit(ctx context.Context, state State, address string) {
	n.mu.Lock()
	n.state = state
	listeners := make([]Listener, 0, len(n.listeners))
	for _, sub := range n.listeners {
		listeners = append(listeners, sub.fn)
	}
	n.mu.Unlock()

	ctx = n.logg.WithPage(ctx, string(state.Page))
	n.logg.Debug(n.logg.WithField(ctx, "address", address), "navigation.commit")
	for _, l := range listeners {
		l(ctx, state)
	}
}
