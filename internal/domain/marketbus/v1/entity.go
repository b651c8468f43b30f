package v1

import (
	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
)

// ScopeKind represents the kind of messages a subscription receives.
type ScopeKind string

const (
	// ScopeClientOrders delivers order events belonging to one client.
	ScopeClientOrders ScopeKind = "client_orders"
	// ScopePairQuotes delivers quote updates for one pair.
	ScopePairQuotes ScopeKind = "pair_quotes"
	// ScopeAllOrders delivers every order event. Used by internal consumers
	// such as the order archiver and the fill publisher.
	ScopeAllOrders ScopeKind = "all_orders"
)

// Scope selects which messages a subscription receives.
type Scope struct {
	Kind     ScopeKind
	ClientID string
	Pair     string
}

// ClientOrders returns a scope for one client's order events.
func ClientOrders(clientID string) Scope {
	return Scope{Kind: ScopeClientOrders, ClientID: clientID}
}

// PairQuotes returns a scope for one pair's quote updates.
func PairQuotes(pair string) Scope {
	return Scope{Kind: ScopePairQuotes, Pair: pair}
}

// AllOrders returns a scope for every order event.
func AllOrders() Scope {
	return Scope{Kind: ScopeAllOrders}
}

// MatchesOrderEvent reports whether the scope receives the given order event.
func (s Scope) MatchesOrderEvent(event orderv1.Event) bool {
	switch s.Kind {
	case ScopeAllOrders:
		return true
	case ScopeClientOrders:
		return s.ClientID == event.ClientID
	default:
		return false
	}
}

// MatchesQuote reports whether the scope receives the given quote.
func (s Scope) MatchesQuote(q quotev1.Quote) bool {
	return s.Kind == ScopePairQuotes && s.Pair == q.Pair
}

// Message is a single delivery on a subscription. Exactly one of the
// payload fields is set.
type Message struct {
	OrderEvent *orderv1.Event
	Quote      *quotev1.Quote
}
