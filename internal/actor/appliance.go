package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/devicecap/internal/util/actorutil"
	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/device"
	"github.com/berfenger/devicecap/pkg/route"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// ApplianceActor owns the appliance state. Handlers run one at a time
// inside the actor, so they never see concurrent access to the state.
type ApplianceActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	state    any
	actions  map[route.Key]action.Action
	timeout  time.Duration
	invoked  uint64
	logger   *zap.Logger
}

func NewApplianceActor(finalized device.Finalized, state any, timeout time.Duration, logger *zap.Logger) *ApplianceActor {
	actions := make(map[route.Key]action.Action, len(finalized.Actions))
	for _, a := range finalized.Actions {
		actions[a.Key()] = a
	}
	act := &ApplianceActor{
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		state:    state,
		actions:  actions,
		timeout:  timeout,
		logger:   actorutil.ActorLogger(ACTOR_ID_APPLIANCE, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *ApplianceActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ApplianceActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("appliance@starting started", zap.Int("actions", len(state.actions)))
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("appliance@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *ApplianceActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case ActorHealthRequest:
		state.logger.Debug("appliance@default ActorHealthRequest")
		actorutil.ForRequest(msg).Respond(ctx, ActorHealthResponse{
			Id:      ACTOR_ID_APPLIANCE,
			Healthy: true,
			State:   fmt.Sprintf("invoked=%d", state.invoked),
		})
	case InvokeRequest:
		state.logger.Debug("appliance@default InvokeRequest", zap.Stringer("action", msg.Key))
		state.invoke(ctx, msg)
	case *actor.Stopping:
		state.logger.Debug("appliance@default stopping")
	default:
		state.logger.Debug("appliance@default ignored", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ApplianceActor) invoke(ctx actor.Context, msg InvokeRequest) {
	req := actorutil.ForRequest(msg)
	a, ok := state.actions[msg.Key]
	if !ok {
		req.Respond(ctx, InvokeResponse{
			Key: msg.Key,
			ResponseMixIn: actorutil.ResponseMixIn{
				ResponseError: action.InvalidDataError(fmt.Sprintf("unknown action %s", msg.Key)),
			},
		})
		return
	}

	state.invoked++
	task := actorutil.NewBackgroundTask(ctx, func(callCtx context.Context) (*InvokeResponse, error) {
		out, err := a.Invoke(callCtx, action.Request{Inputs: msg.Inputs, State: state.state})
		return &InvokeResponse{
			Key:           msg.Key,
			Output:        out,
			ResponseMixIn: actorutil.ResponseMixIn{ResponseError: err},
		}, nil
	}).WithTimeout(state.timeout).Recover(func(err error) InvokeResponse {
		state.logger.Error("appliance@default action failed", zap.Stringer("action", msg.Key), zap.Error(err))
		return InvokeResponse{
			Key: msg.Key,
			ResponseMixIn: actorutil.ResponseMixIn{
				ResponseError: action.InternalWithError("action did not complete", err),
			},
		}
	})
	actorutil.Respond(task, req)
}
