package actorutil

import (
	"github.com/asynkron/protoactor-go/actor"
)

// RequestMixIn lets a request name an explicit reply target instead of the
// sender, for messages forwarded between actors.
type RequestMixIn struct {
	ReplyToRef *actor.PID
}

type Request interface {
	ReplyTo() *actor.PID
}

func (r RequestMixIn) ReplyTo() *actor.PID {
	return r.ReplyToRef
}

type ResponseMixIn struct {
	ResponseError error
}

func (r ResponseMixIn) GetResponseError() error {
	return r.ResponseError
}

func (r ResponseMixIn) HasResponseError() bool {
	return r.ResponseError != nil
}

type Response interface {
	GetResponseError() error
	HasResponseError() bool
}

type forRequest struct {
	req Request
}

type ExtendedRequest interface {
	Respond(ctx actor.Context, resp Response)
	ReplyTo(ctx actor.Context) *actor.PID
}

func ForRequest(r Request) ExtendedRequest {
	return forRequest{req: r}
}

func (r forRequest) Respond(ctx actor.Context, resp Response) {
	if r.req.ReplyTo() != nil {
		ctx.Send(r.req.ReplyTo(), resp)
	} else {
		ctx.Respond(resp)
	}
}

func (r forRequest) ReplyTo(ctx actor.Context) *actor.PID {
	if r.req.ReplyTo() != nil {
		return r.req.ReplyTo()
	}
	return ctx.Sender()
}
