package config

import (
	"errors"
	"fmt"
	"strings"
)

// GrpcServerConfig configures the listener of the inventory gRPC API.
type GrpcServerConfig struct {
	Port              string `koanf:"port"`
	ReflectionEnabled bool   `koanf:"reflection"`
}

func (c *GrpcServerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC ---\n")
	fmt.Fprintf(&b, "  port: %s\n", c.Port)
	fmt.Fprintf(&b, "  reflection: %t\n", c.ReflectionEnabled)
	return b.String()
}

func (c *GrpcServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("grpc port is empty")
	}
	return nil
}
