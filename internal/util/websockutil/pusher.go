// Package websockutil implements server-to-client notification sockets.
package websockutil

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/alex65536/league/internal/util/slogx"
	"github.com/gorilla/websocket"
)

// Clients only answer pings, so anything bigger is a misbehaving client.
const maxClientMsg = 512

var ErrClosed = errors.New("socket closed")

type Factory struct {
	o        Options
	upgrader websocket.Upgrader
}

func NewFactory(o Options) *Factory {
	o.FillDefaults()
	return &Factory{o: o, upgrader: o.upgrader()}
}

// Pusher is a websocket which only sends messages to the client. Messages from the client are
// discarded.
type Pusher struct {
	conn *websocket.Conn
	log  *slog.Logger
	o    *Options

	msgs      chan []byte
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	doneOnce  sync.Once
	wg        sync.WaitGroup
}

// Upgrade switches the connection to the websocket protocol. On failure, the error response is
// already written.
func (f *Factory) Upgrade(w http.ResponseWriter, req *http.Request, log *slog.Logger) (*Pusher, error) {
	conn, err := f.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Warn("could not upgrade websocket", slogx.Err(err))
		return nil, fmt.Errorf("upgrade: %w", err)
	}
	p := &Pusher{
		conn:    conn,
		log:     log,
		o:       &f.o,
		msgs:    make(chan []byte, f.o.QueueSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	p.wg.Add(2)
	go p.readLoop()
	go p.writeLoop()
	return p, nil
}

// Done is closed when the connection is gone.
func (p *Pusher) Done() <-chan struct{} {
	return p.done
}

func (p *Pusher) finish() {
	p.doneOnce.Do(func() {
		close(p.done)
		if err := p.conn.Close(); err != nil {
			p.log.Info("could not close websocket", slogx.Err(err))
		}
	})
}

// Push queues a text message. It blocks while the queue is full.
func (p *Pusher) Push(data []byte) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.msgs <- data:
		return nil
	case <-p.done:
		return ErrClosed
	}
}

// Shutdown sends the close frame after the queued messages and waits until the connection is
// gone.
func (p *Pusher) Shutdown() {
	p.closeOnce.Do(func() { close(p.closing) })
	p.wg.Wait()
}

// Close drops the connection immediately.
func (p *Pusher) Close() {
	p.finish()
	p.wg.Wait()
}

func (p *Pusher) readLoop() {
	defer p.wg.Done()
	defer p.finish()
	p.conn.SetReadLimit(maxClientMsg)
	_ = p.conn.SetReadDeadline(time.Now().Add(p.o.PongTimeout))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(p.o.PongTimeout))
	})
	for {
		if _, _, err := p.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.log.Info("websocket read failed", slogx.Err(err))
			}
			return
		}
	}
}

func (p *Pusher) write(kind int, data []byte) error {
	_ = p.conn.SetWriteDeadline(time.Now().Add(p.o.WriteDeadline))
	return p.conn.WriteMessage(kind, data)
}

func (p *Pusher) drain() error {
	for {
		select {
		case data := <-p.msgs:
			if err := p.write(websocket.TextMessage, data); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *Pusher) writeLoop() {
	defer p.wg.Done()
	defer p.finish()
	ticker := time.NewTicker(p.o.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case data := <-p.msgs:
			if err := p.write(websocket.TextMessage, data); err != nil {
				p.log.Info("could not write message", slogx.Err(err))
				return
			}
		case <-ticker.C:
			if err := p.write(websocket.PingMessage, nil); err != nil {
				p.log.Info("could not write ping", slogx.Err(err))
				return
			}
		case <-p.closing:
			if err := p.drain(); err != nil {
				p.log.Info("could not write message", slogx.Err(err))
				return
			}
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
			if err := p.write(websocket.CloseMessage, msg); err != nil {
				p.log.Info("could not write close message", slogx.Err(err))
			}
			return
		case <-p.done:
			return
		}
	}
}
