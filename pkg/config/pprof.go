package config

import (
	"errors"
	"fmt"
	"strings"
)

// PProfConfig controls the optional net/http/pprof listener. It is never exposed on the API port.
type PProfConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func (c *PProfConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- PProf ---\n")
	fmt.Fprintf(&b, "  enabled: %t\n", c.Enabled)
	if c.Enabled {
		fmt.Fprintf(&b, "  addr: %s\n", c.Addr)
	}
	return b.String()
}

func (c *PProfConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return errors.New("pprof is enabled but addr is empty")
	}
	return nil
}
