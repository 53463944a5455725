package ledger

import "context"

// HandlerFunc executes one decoded instruction against the call's accounts.
type HandlerFunc func(ctx context.Context, call *Call) error

// Route is a decoded instruction ready to run.
type Route struct {
	// Name labels logs, metrics and spans ("initialize_asset", "transfer_hook", ...).
	Name    string
	Handler HandlerFunc
}

// Program decodes instruction data into a Route. Route must not read or write
// accounts: a payload that cannot be decoded is rejected before the runtime
// opens a store transaction.
type Program interface {
	Route(data []byte) (Route, error)
}
