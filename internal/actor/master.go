package actor

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/berfenger/devicecap/internal/util/actorutil"
	"github.com/berfenger/devicecap/pkg/action"
	"github.com/berfenger/devicecap/pkg/device"
	"github.com/berfenger/devicecap/pkg/route"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type ApplianceActorProvider func() *ApplianceActor

type DiscoveryActorProvider func() actor.Actor

// DeviceActor supervises the appliance and discovery actors and routes
// invocations between them.
type DeviceActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash

	finalized          device.Finalized
	currentHealthCheck healthCheckResult
	applianceActor     *actor.PID
	discoveryActor     *actor.PID
	applianceProvider  ApplianceActorProvider
	discoveryProvider  DiscoveryActorProvider
	logger             *zap.Logger
}

type healthCheckResult struct {
	expected       int
	healthy        int
	checksReceived int
	respondTo      *actor.PID
}

// NewDeviceActor spawns no discovery child when discoveryProvider is nil.
func NewDeviceActor(finalized device.Finalized, applianceProvider ApplianceActorProvider,
	discoveryProvider DiscoveryActorProvider, logger *zap.Logger) *DeviceActor {
	act := &DeviceActor{
		behavior:          actor.NewBehavior(),
		stash:             &actorutil.Stash{},
		finalized:         finalized,
		applianceProvider: applianceProvider,
		discoveryProvider: discoveryProvider,
		logger:            actorutil.ActorLogger(ACTOR_ID_DEVICE, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *DeviceActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *DeviceActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("device@starting started")

		applianceActorPID, err := state.startApplianceActor(ctx)
		if err != nil {
			panic(err)
		}
		state.applianceActor = applianceActorPID

		if state.discoveryProvider != nil {
			discoveryActorPID, err := state.startDiscoveryActor(ctx)
			if err != nil {
				panic(err)
			}
			state.discoveryActor = discoveryActorPID
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("device@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *DeviceActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case ActorHealthRequest:
		state.logger.Debug("device@default ActorHealthRequest")
		state.currentHealthCheck.reset(state.children())
		state.currentHealthCheck.respondTo = actorutil.ForRequest(msg).ReplyTo(ctx)
		for _, pid := range state.childPIDs() {
			PipeHealth(ctx, pid)
		}
		ctx.SetReceiveTimeout(1 * time.Second)
		state.behavior.BecomeStacked(state.HealthCheckReceive)
	case InvokeRequest:
		ctx.Forward(state.applianceActor)
	case AnnounceRequest:
		if state.discoveryActor != nil {
			ctx.Forward(state.discoveryActor)
		} else {
			actorutil.ForRequest(msg).Respond(ctx, AnnounceResponse{})
		}
	case ParsedCommand:
		state.logger.Debug("device@default parsedCommand", zap.Any("command", msg.Command))
		state.invokeCommand(ctx, msg)
	case *actor.Terminated:
		state.logger.Error("device@default child terminated", zap.String("who", msg.Who.Id))
	default:
		state.logger.Debug("device@default ignored", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *DeviceActor) HealthCheckReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.ReceiveTimeout:
		// children that did not answer count as unhealthy
		state.currentHealthCheck.respond(ctx)
		ctx.CancelReceiveTimeout()
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case ActorHealthResponse:
		state.logger.Debug("device@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		state.currentHealthCheck.checksReceived++
		if msg.Healthy {
			state.currentHealthCheck.healthy++
		}
		if state.currentHealthCheck.allReceived() {
			state.currentHealthCheck.respond(ctx)
			ctx.CancelReceiveTimeout()
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
		}
	default:
		state.logger.Debug("device@healthcheck stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// PipeHealth asks pid for its health and delivers the answer, or an
// unhealthy response, to the caller's mailbox.
func PipeHealth(ctx actor.Context, pid *actor.PID) {
	actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(pid, ActorHealthRequest{}, 500*time.Millisecond), func(err error) any {
		return ActorHealthResponse{Id: pid.Id, Healthy: false}
	})
}

func (state *DeviceActor) invokeCommand(ctx actor.Context, msg ParsedCommand) {
	method, err := route.ParseMethod(msg.Command.Method)
	if err != nil {
		state.commandFailed(ctx, route.Key{Path: msg.Command.Path}, action.InvalidDataWithError("invalid method", err))
		return
	}
	key := route.Key{Method: method, Path: msg.Command.Path}
	var target *action.Action
	for i := range state.finalized.Actions {
		if state.finalized.Actions[i].Key() == key {
			target = &state.finalized.Actions[i]
			break
		}
	}
	if target == nil {
		state.commandFailed(ctx, key, action.InvalidDataError(fmt.Sprintf("unknown action %s", key)))
		return
	}

	raw := map[string]json.RawMessage{}
	if len(msg.Command.Payload) > 0 {
		if err := json.Unmarshal(msg.Command.Payload, &raw); err != nil {
			state.commandFailed(ctx, key, action.InvalidDataWithError("inputs must be a JSON object", err))
			return
		}
	}
	inputs, err := target.Route().Parameters().Resolve(raw)
	if err != nil {
		state.commandFailed(ctx, key, action.AsErrorResponse(err))
		return
	}
	ctx.Send(state.applianceActor, InvokeRequest{
		RequestMixIn: actorutil.RequestMixIn{ReplyToRef: state.discoveryActor},
		Key:          key,
		Inputs:       inputs,
	})
}

func (state *DeviceActor) commandFailed(ctx actor.Context, key route.Key, err error) {
	state.logger.Warn("device@default command rejected", zap.Stringer("action", key), zap.Error(err))
	if state.discoveryActor != nil {
		ctx.Send(state.discoveryActor, InvokeResponse{
			Key:           key,
			ResponseMixIn: actorutil.ResponseMixIn{ResponseError: err},
		})
	}
}

func (state *DeviceActor) children() int {
	return len(state.childPIDs())
}

func (state *DeviceActor) childPIDs() []*actor.PID {
	pids := []*actor.PID{state.applianceActor}
	if state.discoveryActor != nil {
		pids = append(pids, state.discoveryActor)
	}
	return pids
}

func (state *DeviceActor) startApplianceActor(ctx actor.Context) (*actor.PID, error) {

	decider := func(reason interface{}) actor.Directive {
		log.Printf("handling failure for child. reason: %v", reason)
		return actor.ResumeDirective
	}
	supervisor := actor.NewOneForOneStrategy(10, 10*time.Second, decider)

	applianceProps := actor.PropsFromProducer(func() actor.Actor {
		return state.applianceProvider()
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(applianceProps, ACTOR_ID_APPLIANCE)
}

func (state *DeviceActor) startDiscoveryActor(ctx actor.Context) (*actor.PID, error) {

	supervisor := actor.NewExponentialBackoffStrategy(10*time.Second, 1*time.Second)

	discoveryProps := actor.PropsFromProducer(func() actor.Actor {
		return state.discoveryProvider()
	}, actor.WithSupervisor(supervisor))
	return ctx.SpawnNamed(discoveryProps, ACTOR_ID_DISCOVERY)
}

func (state *healthCheckResult) reset(expected int) {
	state.expected = expected
	state.healthy = 0
	state.checksReceived = 0
	state.respondTo = nil
}

func (state *healthCheckResult) allReceived() bool {
	return state.checksReceived == state.expected
}

func (state *healthCheckResult) allHealthy() bool {
	return state.healthy == state.expected
}

func (state *healthCheckResult) respond(ctx actor.Context) {
	resp := ActorHealthResponse{
		Id:      ACTOR_ID_DEVICE,
		Healthy: state.allHealthy(),
	}
	if state.respondTo != nil {
		ctx.Send(state.respondTo, resp)
	}
}
