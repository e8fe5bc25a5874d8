package websockutil

import (
	"time"

	"github.com/gorilla/websocket"
)

type Options struct {
	BufferSize    int           `toml:"buffer-size"`
	WriteDeadline time.Duration `toml:"write-deadline"`
	PingInterval  time.Duration `toml:"ping-interval"`
	PongTimeout   time.Duration `toml:"pong-timeout"`
	QueueSize     int           `toml:"queue-size"`
	Compress      bool          `toml:"compress"`
}

func (o *Options) FillDefaults() {
	if o.BufferSize == 0 {
		o.BufferSize = 1024
	}
	if o.WriteDeadline == 0 {
		o.WriteDeadline = 10 * time.Second
	}
	if o.PingInterval == 0 {
		o.PingInterval = 30 * time.Second
	}
	if o.PongTimeout == 0 {
		o.PongTimeout = 75 * time.Second
	}
	if o.QueueSize == 0 {
		o.QueueSize = 4
	}
}

func (o *Options) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:    o.BufferSize,
		WriteBufferSize:   o.BufferSize,
		EnableCompression: o.Compress,
	}
}
