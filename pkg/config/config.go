// Kunhua Huang 2026

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ecstasoy/oneshot/pkg/protocol"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	Backlog       int      `yaml:"backlog"`
	BufferSize    int      `yaml:"buffer_size"`
	Message       string   `yaml:"message"`
	FullWrite     bool     `yaml:"full_write"`
	AcceptTimeout Duration `yaml:"accept_timeout"`
}

// Address is the host:port the server binds.
func (c ServerConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type ClientConfig struct {
	// Host defaults to loopback; the wildcard address is not a meaningful
	// connect target even though some stacks route it to localhost.
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	BufferSize  int      `yaml:"buffer_size"`
	FullRead    bool     `yaml:"full_read"`
	DialTimeout Duration `yaml:"dial_timeout"`
	ReadTimeout Duration `yaml:"read_timeout"`
}

func (c ClientConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type MetricsConfig struct {
	Address string `yaml:"address"` // empty disables /metrics
}

type Duration struct{ time.Duration }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default is port 9602, backlog 5 and a 256-byte buffer.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       protocol.DefaultPort,
			Backlog:    protocol.DefaultBacklog,
			BufferSize: protocol.DefaultBufferSize,
			Message:    protocol.DefaultMessage,
		},
		Client: ClientConfig{
			Host:       "127.0.0.1",
			Port:       protocol.DefaultPort,
			BufferSize: protocol.DefaultBufferSize,
		},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if !validPort(c.Server.Port) {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.Backlog < 1 {
		errs = append(errs, fmt.Errorf("server.backlog must be >= 1, got %d", c.Server.Backlog))
	}
	if c.Server.BufferSize < 1 {
		errs = append(errs, fmt.Errorf("server.buffer_size must be >= 1, got %d", c.Server.BufferSize))
	} else if len(c.Server.Message) > c.Server.BufferSize {
		errs = append(errs, fmt.Errorf("server.message: %w", protocol.ErrMessageTooLarge))
	}
	if !validPort(c.Client.Port) {
		errs = append(errs, fmt.Errorf("client.port %d out of range", c.Client.Port))
	}
	if c.Client.BufferSize < 1 {
		errs = append(errs, fmt.Errorf("client.buffer_size must be >= 1, got %d", c.Client.BufferSize))
	}
	if c.Server.AcceptTimeout.Duration < 0 || c.Client.DialTimeout.Duration < 0 || c.Client.ReadTimeout.Duration < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}

	return errors.Join(errs...)
}

func validPort(p int) bool {
	return p >= 0 && p <= 65535
}
