package globals

import (
	"context"

	"dramalist-backend/internal/components/telemetry"
	"dramalist-backend/internal/config"
	"dramalist-backend/internal/dramas"
)

type keyType int

const key keyType = 0

type Value struct {
	Config  config.Config
	Tel     telemetry.API
	Service dramas.Service
	// JSON prints raw json instead of tables.
	JSON bool
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
