package common

import (
	"context"

	"github.com/pumasi/core/src/utils/config"
)

type contextKey struct{}

var configKey = contextKey{}

func SetConfig(ctx context.Context, conf *config.Config) context.Context {
	return context.WithValue(ctx, configKey, conf)
}

func GetConfig(ctx context.Context) *config.Config {
	conf, _ := ctx.Value(configKey).(*config.Config)
	return conf
}
