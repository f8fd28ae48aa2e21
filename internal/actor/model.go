package actor

import (
	"github.com/berfenger/devicecap/internal/mqtt"
	"github.com/berfenger/devicecap/internal/util/actorutil"
	"github.com/berfenger/devicecap/pkg/parameter"
	"github.com/berfenger/devicecap/pkg/route"
)

const (
	ACTOR_ID_DEVICE    = "device"
	ACTOR_ID_APPLIANCE = "appliance"
	ACTOR_ID_DISCOVERY = "discovery"
)

type ActorHealthRequest struct {
	actorutil.RequestMixIn
}

type ActorHealthResponse struct {
	actorutil.ResponseMixIn
	Id      string
	Healthy bool
	State   string
}

// InvokeRequest asks the appliance to run the action bound to Key with
// already resolved inputs.
type InvokeRequest struct {
	actorutil.RequestMixIn
	Key    route.Key
	Inputs parameter.Values
}

type InvokeResponse struct {
	actorutil.ResponseMixIn
	Key    route.Key
	Output any
}

type AnnounceRequest struct {
	actorutil.RequestMixIn
}

type AnnounceResponse struct {
	actorutil.ResponseMixIn
}

// ParsedCommand carries an action invocation received over MQTT.
type ParsedCommand struct {
	Command *mqtt.ParsedMQTTCommand
}
