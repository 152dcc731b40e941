package node

import (
	"fmt"
	"strings"
	"time"
)

const (
	delimiter     = '|'
	commandPrefix = "/"

	// DefaultBufferSize bounds a single receive. Longer payloads arrive split
	// across reads and the tail is parsed as its own envelope.
	DefaultBufferSize   = 1024
	DefaultPollInterval = time.Second
	DefaultDialTimeout  = 5 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// Config carries everything a Node needs at construction time.
type Config struct {
	Host string
	Port int
	Name string

	BufferSize   int
	PollInterval time.Duration
	DialTimeout  time.Duration
	// WriteTimeout bounds a single send during broadcast; zero means no deadline.
	WriteTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BufferSize <= 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	return c
}

func (c Config) validate() error {
	if c.Name == "" || strings.ContainsRune(c.Name, delimiter) {
		return fmt.Errorf("%w: %q", ErrInvalidName, c.Name)
	}
	if strings.ContainsRune(c.Host, delimiter) {
		return fmt.Errorf("%w: host %q", ErrInvalidName, c.Host)
	}
	return nil
}

// Identity is the sender tag stamped on every local envelope.
func Identity(name, host string, port int) string {
	return fmt.Sprintf("%s (%s:%d)", name, host, port)
}
