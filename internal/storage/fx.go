package storage

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("storage",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, c *Client) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return c.EnsureBucket(ctx)
			},
		})
	}),
)
