package config

import (
	"strings"

	"github.com/abgdnv/inventory/pkg/config"
	"github.com/abgdnv/inventory/pkg/config/configloader"
)

var _ configloader.Validator = (*ClientConfig)(nil)

// ClientConfig configures inventoryctl, the command line client of the gRPC API.
type ClientConfig struct {
	GrpcClient config.GrpcClientConfig `koanf:"grpcclient"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	Log        config.LogConfig        `koanf:"log"`
}

func (c *ClientConfig) String() string {
	var b strings.Builder
	b.WriteString(c.GrpcClient.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.Log.String())
	return b.String()
}

func (c *ClientConfig) Validate() error {
	for _, v := range []configloader.Validator{&c.GrpcClient, &c.Resilience, &c.Log} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
