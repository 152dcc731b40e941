package main

import (
	"fmt"
	"time"

	"floodchat/internal/node"
)

type Config struct {
	Host         string        `env:"CHAT_HOST,default=127.0.0.1"`
	Port         int           `env:"CHAT_PORT,default=5000"`
	Name         string        `env:"CHAT_NAME,default=peer"`
	BufferSize   int           `env:"CHAT_BUFFER_SIZE,default=1024"`
	PollInterval time.Duration `env:"CHAT_POLL_INTERVAL,default=1s"`
	DialTimeout  time.Duration `env:"CHAT_DIAL_TIMEOUT,default=5s"`
	WriteTimeout time.Duration `env:"CHAT_WRITE_TIMEOUT,default=10s"`
	JoinGrace    time.Duration `env:"CHAT_JOIN_GRACE,default=1s"`
	History      string        `env:"CHAT_HISTORY,default=file"`
	HistoryPath  string        `env:"CHAT_HISTORY_PATH"`
	LogLevel     string        `env:"LOG_LEVEL,default=warn"`
	LogFile      string        `env:"LOG_FILE"`
	NoColor      bool          `env:"CHAT_NO_COLOR,default=false"`
}

func (c Config) node() node.Config {
	return node.Config{
		Host:         c.Host,
		Port:         c.Port,
		Name:         c.Name,
		BufferSize:   c.BufferSize,
		PollInterval: c.PollInterval,
		DialTimeout:  c.DialTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

// historyPath defaults to one history per listening port.
func (c Config) historyPath() string {
	if c.HistoryPath != "" {
		return c.HistoryPath
	}
	if c.History == "badger" {
		return fmt.Sprintf("chat_history_%d.db", c.Port)
	}
	return fmt.Sprintf("chat_history_%d.log", c.Port)
}
