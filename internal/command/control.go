package command

import (
	"context"
	"fmt"
)

// Control is the server control surface the handlers call.
type Control interface {
	Pause(ctx context.Context) error
	Add(ctx context.Context) error
	Remove(ctx context.Context, id string) error
	Update(ctx context.Context, id string, speed, heading float64) error
}

// RegisterControl binds every command kind to ctl with the same options.
func RegisterControl(d *Dispatcher, ctl Control, opts ...Option) {
	d.Register(KindPause, func(ctx context.Context, _ Command) error {
		return ctl.Pause(ctx)
	}, opts...)

	d.Register(KindAdd, func(ctx context.Context, _ Command) error {
		return ctl.Add(ctx)
	}, opts...)

	d.Register(KindRemove, func(ctx context.Context, c Command) error {
		if c.TargetID == "" {
			return fmt.Errorf("remove: missing target")
		}
		return ctl.Remove(ctx, c.TargetID)
	}, opts...)

	d.Register(KindUpdate, func(ctx context.Context, c Command) error {
		if c.TargetID == "" {
			return fmt.Errorf("update: missing target")
		}
		return ctl.Update(ctx, c.TargetID, c.Speed, c.Heading)
	}, opts...)
}
