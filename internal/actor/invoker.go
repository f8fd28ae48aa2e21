package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/parameter"

	"github.com/asynkron/protoactor-go/actor"
)

// Invoker runs actions for the HTTP server. Stateful actions go through
// the device actor; stateless ones run on the calling goroutine.
type Invoker struct {
	root    *actor.RootContext
	device  *actor.PID
	timeout time.Duration
}

func NewInvoker(root *actor.RootContext, device *actor.PID, timeout time.Duration) *Invoker {
	return &Invoker{root: root, device: device, timeout: timeout}
}

func (i *Invoker) Invoke(ctx context.Context, a action.Action, inputs parameter.Values) (any, error) {
	if !a.Stateful() {
		ctx, cancel := context.WithTimeout(ctx, i.timeout)
		defer cancel()
		return a.Invoke(ctx, action.Request{Inputs: inputs})
	}

	// leave the appliance room to report its own timeout first
	res, err := i.root.RequestFuture(i.device, InvokeRequest{Key: a.Key(), Inputs: inputs}, i.timeout+time.Second).Result()
	if err != nil {
		return nil, action.InternalWithError("device did not answer", err)
	}
	resp, ok := res.(InvokeResponse)
	if !ok {
		return nil, action.Internal(fmt.Sprintf("unexpected response %T", res))
	}
	if resp.HasResponseError() {
		return nil, resp.GetResponseError()
	}
	return resp.Output, nil
}

// Healthy asks the device actor for an aggregated health check.
func (i *Invoker) Healthy(ctx context.Context) bool {
	res, err := i.root.RequestFuture(i.device, ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		return false
	}
	response, ok := res.(ActorHealthResponse)
	return ok && response.Healthy
}
