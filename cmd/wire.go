package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	codec "github.com/avass/simstep/internal/adapters/codec/msgpack"
	"github.com/avass/simstep/internal/adapters/transport/ws"
	"github.com/avass/simstep/internal/application"
)

// config is the loop configuration surface: endpoint, response size limit,
// initialization drain cap, optional rig description.
type config struct {
	Endpoint     string
	ReadLimit    int64
	InitDrainCap int
	RigPath      string
}

func loadConfig() config {
	v := viper.New()
	v.SetEnvPrefix("SIMSTEP")
	v.AutomaticEnv()
	v.SetDefault("endpoint", "ws://127.0.0.1:1071/step")
	v.SetDefault("read_limit", 0)
	v.SetDefault("init_drain_cap", 0)
	v.SetDefault("rig", "")

	return config{
		Endpoint:     v.GetString("endpoint"),
		ReadLimit:    v.GetInt64("read_limit"),
		InitDrainCap: v.GetInt("init_drain_cap"),
		RigPath:      v.GetString("rig"),
	}
}

// wireController dials the engine and assembles the frame loop. The caller
// owns the returned controller and must Close it.
func wireController(ctx context.Context, cfg config) (*application.Controller, error) {
	transport, err := ws.Dial(ctx, cfg.Endpoint, ws.Options{ReadLimit: cfg.ReadLimit})
	if err != nil {
		return nil, fmt.Errorf("wire engine transport: %w", err)
	}

	return application.NewController(transport, codec.Encoder{}, application.Config{
		InitDrainCap: cfg.InitDrainCap,
	}), nil
}
