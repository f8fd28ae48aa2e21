package actor

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/berfenger/devicecap/internal/config"
	"github.com/berfenger/devicecap/internal/mqtt"
	"github.com/berfenger/devicecap/internal/util/actorutil"
	"github.com/berfenger/devicecap/pkg/action"

	"github.com/asynkron/protoactor-go/actor"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// DiscoveryActor keeps the MQTT session of the device: it announces the
// device, tracks availability and relays commands to its parent.
type DiscoveryActor struct {
	config   *config.Config
	info     mqtt.AnnouncementInfo
	behavior actor.Behavior
	stash    *actorutil.Stash
	client   *mqtt.MQTTClient
	logger   *zap.Logger
}

type MQTTConnected struct {
}

type MQTTSubscribed struct {
}

type MQTTConnectionLost struct {
	Error error
}

type publishResult struct {
	ReplyTo *actor.PID
	Error   error
}

// CommandResult is published on the result topic after an MQTT command.
type CommandResult struct {
	Route  string                `json:"route"`
	Method string                `json:"method"`
	Output any                   `json:"output,omitempty"`
	Error  *action.ErrorResponse `json:"error,omitempty"`
}

func NewDiscoveryActor(config *config.Config, info mqtt.AnnouncementInfo, logger *zap.Logger) *DiscoveryActor {
	act := &DiscoveryActor{
		config:   config,
		info:     info,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(ACTOR_ID_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *DiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *DiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("discovery@starting started")

		// create MQTT client
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), func(_ pahomqtt.Client) {
		}, func(_ pahomqtt.Client, err error) {
			ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
		})

		// connect to MQTT server
		state.client.Connect(func(err error) {
			if err != nil {
				ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
			} else {
				ctx.Send(ctx.Self(), MQTTConnected{})
			}
		}, 10*time.Second)

	case MQTTConnected:
		state.logger.Debug("discovery@starting connected")

		state.client.Publish(state.client.AvailabilityTopic(), mqtt.MQTT_PAYLOAD_ONLINE, 1, true, func(error) {}, 500*time.Millisecond)

		// subscribe to MQTT command topic
		state.client.SubscribeToCommandTopic(func(c pahomqtt.Client, m pahomqtt.Message) {
			cmd, err := state.client.ParseMQTTCommand(m)
			if err == nil && cmd != nil {
				ctx.Send(ctx.Self(), ParsedCommand{Command: cmd})
			}
		}, func(err error) {
			if err != nil {
				ctx.Send(ctx.Self(), MQTTConnectionLost{Error: err})
			} else {
				ctx.Send(ctx.Self(), MQTTSubscribed{})
			}
		}, 1*time.Second)
	case MQTTSubscribed:
		// init completed, announce and transition to default state
		state.logger.Debug("discovery@starting subscribed")
		state.behavior.Become(state.DefaultReceive)
		ctx.Send(ctx.Self(), AnnounceRequest{})
		state.stash.UnstashAll(ctx)
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("discovery@starting connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	case *actor.Restarting:
		state.stop()
	default:
		state.logger.Debug("discovery@starting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *DiscoveryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Restarting:
		state.stop()
	case *actor.Stopping:
		state.stop()
	case ActorHealthRequest:
		state.logger.Debug("discovery@default ActorHealthRequest")
		actorutil.ForRequest(msg).Respond(ctx, ActorHealthResponse{
			Id:      ACTOR_ID_DISCOVERY,
			Healthy: state.client.IsConnected(),
			State:   "idle",
		})
	case ParsedCommand:
		// route command to parent
		state.logger.Debug("discovery@default parsedCommand", zap.Any("command", msg.Command))
		ctx.Send(ctx.Parent(), msg)
	case AnnounceRequest:
		state.logger.Debug("discovery@default AnnounceRequest")
		payload, err := json.Marshal(mqtt.NewAnnouncement(state.client, state.info))
		if err != nil {
			state.logger.Error("discovery@default announcement", zap.Error(err))
			return
		}
		state.publish(ctx, state.client.AnnouncementTopic(), payload, true, actorutil.ForRequest(msg).ReplyTo(ctx))
	case InvokeResponse:
		state.logger.Debug("discovery@default InvokeResponse", zap.Stringer("action", msg.Key))
		payload, err := json.Marshal(commandResult(msg))
		if err != nil {
			state.logger.Error("discovery@default result", zap.Error(err))
			return
		}
		state.publish(ctx, state.client.ResultTopic(), payload, false, nil)
	case MQTTConnectionLost:
		// if connection lost, stop actor and let supervisor decide
		state.logger.Error("discovery@default connection lost", zap.Error(msg.Error))
		panic(msg.Error)
	default:
		state.logger.Debug("discovery@default ignored", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func commandResult(msg InvokeResponse) CommandResult {
	result := CommandResult{
		Route:  msg.Key.Path,
		Method: msg.Key.Method.String(),
		Output: msg.Output,
	}
	if msg.HasResponseError() {
		result.Error = action.AsErrorResponse(msg.GetResponseError())
	}
	return result
}

func (state *DiscoveryActor) publish(ctx actor.Context, topic string, payload []byte, retain bool, replyTo *actor.PID) {
	state.logger.Sugar().Debugf("discovery@publish: %s => %d bytes", topic, len(payload))
	state.client.Publish(topic, payload, 1, retain, func(err error) {
		ctx.Send(ctx.Self(), publishResult{ReplyTo: replyTo, Error: err})
	}, 5*time.Second)
	state.behavior.BecomeStacked(state.PublishResultReceive)
}

func (state *DiscoveryActor) PublishResultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case publishResult:
		// log error and return to default state
		if msg.Error != nil {
			state.logger.Error("discovery@publishing could not publish a message", zap.Error(msg.Error))
		}
		if msg.ReplyTo != nil {
			ctx.Send(msg.ReplyTo, AnnounceResponse{
				ResponseMixIn: actorutil.ResponseMixIn{
					ResponseError: msg.Error,
				},
			})
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashOldest(ctx)
	default:
		state.logger.Debug("discovery@publishing stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *DiscoveryActor) stop() {
	state.logger.Debug("discovery: disconnect")
	if state.client != nil {
		state.client.Publish(state.client.AvailabilityTopic(), mqtt.MQTT_PAYLOAD_OFFLINE, 1, true, func(error) {}, 500*time.Millisecond)
		state.client.Disconnect(500 * time.Millisecond)
	}
}

// TestDiscoveryActor stands in for DiscoveryActor without a broker. It
// records what would have been published.
type TestDiscoveryActor struct {
	Announcements chan mqtt.Announcement
	Results       chan CommandResult
	info          mqtt.AnnouncementInfo
	client        *mqtt.MQTTClient
	config        *config.Config
}

func NewTestDiscoveryActor(config *config.Config, info mqtt.AnnouncementInfo) *TestDiscoveryActor {
	return &TestDiscoveryActor{
		Announcements: make(chan mqtt.Announcement, 16),
		Results:       make(chan CommandResult, 16),
		info:          info,
		config:        config,
	}
}

func (state *TestDiscoveryActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.client = mqtt.CreateMQTTClient(state.config, mqtt.OptsFromConfig(state.config), nil, nil)
	case ActorHealthRequest:
		actorutil.ForRequest(msg).Respond(ctx, ActorHealthResponse{
			Id:      ACTOR_ID_DISCOVERY,
			Healthy: true,
			State:   "idle",
		})
	case ParsedCommand:
		ctx.Send(ctx.Parent(), msg)
	case AnnounceRequest:
		select {
		case state.Announcements <- mqtt.NewAnnouncement(state.client, state.info):
		default:
		}
		if msg.ReplyTo() != nil || ctx.Sender() != nil {
			actorutil.ForRequest(msg).Respond(ctx, AnnounceResponse{})
		}
	case InvokeResponse:
		select {
		case state.Results <- commandResult(msg):
		default:
		}
	}
}
