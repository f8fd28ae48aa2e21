// Package action binds a route to the handler that serves it and to the
// shape of the response the handler produces.
package action

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/berfenger/devicecap/pkg/parameter"
	"github.com/berfenger/devicecap/pkg/route"
)

// Contract is the response shape of an action.
type Contract uint8

const (
	// Empty actions answer with a bare acknowledgement.
	Empty Contract = iota
	// Serial actions answer with a JSON document produced by the handler.
	Serial
	// Info actions answer with device information, see energy.DeviceInfo.
	Info
)

func (c Contract) String() string {
	switch c {
	case Empty:
		return "Empty"
	case Serial:
		return "Serial"
	case Info:
		return "Info"
	}
	return fmt.Sprintf("Contract(%d)", uint8(c))
}

func (c Contract) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Request is what a handler receives: resolved inputs and, for stateful
// actions, the appliance state owned by the caller.
type Request struct {
	Inputs parameter.Values
	State  any
}

type HandlerFunc func(ctx context.Context, req Request) (any, error)

// Action is immutable once built.
type Action struct {
	route    route.Route
	handler  HandlerFunc
	stateful bool
	contract Contract
}

func newAction(r route.Route, h HandlerFunc, contract Contract, stateful bool) Action {
	return Action{route: r, handler: h, contract: contract, stateful: stateful}
}

func NewEmpty(r route.Route, h HandlerFunc) Action {
	return newAction(r, h, Empty, false)
}

func NewEmptyStateful(r route.Route, h HandlerFunc) Action {
	return newAction(r, h, Empty, true)
}

func NewSerial(r route.Route, h HandlerFunc) Action {
	return newAction(r, h, Serial, false)
}

func NewSerialStateful(r route.Route, h HandlerFunc) Action {
	return newAction(r, h, Serial, true)
}

func NewInfo(r route.Route, h HandlerFunc) Action {
	return newAction(r, h, Info, false)
}

func NewInfoStateful(r route.Route, h HandlerFunc) Action {
	return newAction(r, h, Info, true)
}

func (a Action) Route() route.Route   { return a.route }
func (a Action) Key() route.Key       { return a.route.Key() }
func (a Action) Handler() HandlerFunc { return a.handler }
func (a Action) Stateful() bool       { return a.stateful }
func (a Action) Contract() Contract   { return a.contract }

// Validate checks the route and that a handler is present.
func (a Action) Validate() error {
	if err := a.route.Validate(); err != nil {
		return err
	}
	if a.handler == nil {
		return fmt.Errorf("action %s: missing handler", a.Key())
	}
	return nil
}

// Invoke runs the handler. Empty actions discard whatever the handler
// returns.
func (a Action) Invoke(ctx context.Context, req Request) (any, error) {
	if a.stateful && req.State == nil {
		return nil, Internal(fmt.Sprintf("action %s requires state", a.Key()))
	}
	out, err := a.handler(ctx, req)
	if err != nil {
		return nil, err
	}
	if a.contract == Empty {
		return nil, nil
	}
	return out, nil
}

// WithState adapts a handler that expects state of type S. A request
// carrying state of another type fails with an internal error.
func WithState[S any](fn func(ctx context.Context, state S, inputs parameter.Values) (any, error)) HandlerFunc {
	return func(ctx context.Context, req Request) (any, error) {
		state, ok := req.State.(S)
		if !ok {
			var zero S
			return nil, InternalWithError("unexpected state", fmt.Errorf("got %T, want %T", req.State, zero))
		}
		return fn(ctx, state, req.Inputs)
	}
}
