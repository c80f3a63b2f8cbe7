package ama

import "context"

// Host is the lifecycle hook registry of the conversation framework.
// Register attaches one handler to each hook.
type Host interface {
	OnRequestStarted(func(ctx context.Context, req *Request))
	OnSessionStarted(func(ctx context.Context, req *Request) *Delivery)
	OnBeforeStateChanged(func(ctx context.Context, req *Request, state string))
	OnIntentDispatch(func(ctx context.Context, req *Request) *Delivery)
	OnBeforeReplySent(func(ctx context.Context, req *Request, t *Transition) *Delivery)
	OnSessionEnded(func(ctx context.Context, req *Request) *Delivery)
	OnUnhandledError(func(ctx context.Context, req *Request, err error) *Delivery)
}

// Register validates cfg, builds a Plugin and attaches it to host. Nothing
// is attached when the configuration is invalid.
func Register(host Host, cfg Config, opts ...Option) (*Plugin, error) {
	p, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	p.Attach(host)
	return p, nil
}

// Attach registers the plugin's handlers on host.
func (p *Plugin) Attach(host Host) {
	host.OnRequestStarted(p.RequestStarted)
	host.OnSessionStarted(p.SessionStarted)
	host.OnBeforeStateChanged(p.BeforeStateChanged)
	host.OnIntentDispatch(p.IntentDispatched)
	host.OnBeforeReplySent(p.BeforeReplySent)
	host.OnSessionEnded(p.SessionEnded)
	host.OnUnhandledError(p.UnhandledError)
}
