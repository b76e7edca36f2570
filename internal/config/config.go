// Package config holds the server settings. Defaults are overridden by
// command-line flags, and flags by CHESS_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	ListenAddr      string
	AllowOrigins    string
	ReadBufferSize  int
	WriteBufferSize int
	LogLevel        string
}

func Default() Config {
	return Config{
		ListenAddr:      ":3000",
		AllowOrigins:    "http://localhost:5173",
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		LogLevel:        "info",
	}
}

// Load parses args (without the program name) and then applies the
// environment looked up through getenv.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "address to listen on")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "comma-separated CORS origins")
	fs.IntVar(&cfg.ReadBufferSize, "ws-read-buffer", cfg.ReadBufferSize, "websocket read buffer size")
	fs.IntVar(&cfg.WriteBufferSize, "ws-write-buffer", cfg.WriteBufferSize, "websocket write buffer size")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn, error or fatal")
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if v := getenv("CHESS_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := getenv("CHESS_ORIGINS"); v != "" {
		cfg.AllowOrigins = v
	}
	if v := getenv("CHESS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	for name, dst := range map[string]*int{
		"CHESS_WS_READ_BUFFER":  &cfg.ReadBufferSize,
		"CHESS_WS_WRITE_BUFFER": &cfg.WriteBufferSize,
	} {
		v := getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, name, v)
		}
		*dst = n
	}

	return cfg, cfg.Validate()
}

// FromEnvironment loads the configuration for the running process.
func FromEnvironment() (Config, error) {
	return Load(os.Args[1:], os.Getenv)
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalidConfig)
	}
	if len(c.Origins()) == 0 {
		return fmt.Errorf("%w: no CORS origins", ErrInvalidConfig)
	}
	if c.ReadBufferSize <= 0 || c.WriteBufferSize <= 0 {
		return fmt.Errorf("%w: websocket buffers must be positive", ErrInvalidConfig)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Origins splits AllowOrigins into its entries.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level returns the parsed log level; Validate has already checked it.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
