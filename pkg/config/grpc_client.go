package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// GrpcClientConfig points a client at the inventory gRPC API.
type GrpcClientConfig struct {
	Addr    string        `koanf:"addr"`
	Timeout time.Duration `koanf:"timeout"`
}

func (c *GrpcClientConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- gRPC Client ---\n")
	fmt.Fprintf(&b, "  addr: %s\n", c.Addr)
	fmt.Fprintf(&b, "  timeout: %s\n", c.Timeout)
	return b.String()
}

func (c *GrpcClientConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("grpc client addr is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid grpc client timeout: %v", c.Timeout)
	}
	return nil
}
