package platform

import (
	"context"

	"github.com/aretw0/notelin/pkg/core"
)

// New opens the note store for a data directory.
//
//	svc, err := platform.New(ctx, "~/.notelin", platform.WithAdapter("memory"))
func New(ctx context.Context, dir string, opts ...Option) (*core.Service, error) {
	repo, err := Init(ctx, dir, opts...)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	var serviceOpts []core.ServiceOption
	if o.logger != nil {
		serviceOpts = append(serviceOpts, core.WithServiceLogger(o.logger))
	}
	if o.clock != nil {
		serviceOpts = append(serviceOpts, core.WithClock(o.clock))
	}

	return core.NewService(repo, serviceOpts...), nil
}
