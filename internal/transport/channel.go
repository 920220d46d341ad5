// Package transport wraps the single websocket connection a chat screen uses
// to talk to the server.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 8192

	defaultQueueSize   = 32
	defaultInboundSize = 64
)

var (
	// ErrClosed is returned by Send once the channel has been closed.
	ErrClosed = errors.New("channel closed")
	// ErrBackpressure is returned when the outbound queue is full.
	ErrBackpressure = errors.New("send queue full")
	// ErrRateLimited is returned when sends exceed the configured rate.
	ErrRateLimited = errors.New("send rate exceeded")
)

// Options configures Dial. Zero values pick defaults; a SendRate of zero
// disables throttling.
type Options struct {
	URL              string
	Header           http.Header
	HandshakeTimeout time.Duration
	SendRate         float64
	SendBurst        int
	QueueSize        int
	Stats            *Stats
}

// Channel is one persistent connection. Send never blocks; inbound text
// frames are delivered on Inbound until the connection ends.
type Channel struct {
	conn    *websocket.Conn
	send    chan []byte
	inbound chan string
	limiter *rate.Limiter
	stats   *Stats

	mu         sync.RWMutex
	closed     bool
	err        error
	done       chan struct{}
	closeOnce  sync.Once
	writerDone chan struct{}
}

// Dial opens the websocket and starts the read and write pumps.
func Dial(ctx context.Context, opts Options) (*Channel, error) {
	if opts.URL == "" {
		return nil, errors.New("server URL is required")
	}
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: opts.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, opts.URL, opts.Header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", opts.URL, err)
	}
	channel := newChannel(conn, opts)
	go channel.writePump()
	go channel.readPump()
	return channel, nil
}

func newChannel(conn *websocket.Conn, opts Options) *Channel {
	queueSize := opts.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	stats := opts.Stats
	if stats == nil {
		stats = NewStats()
	}
	var limiter *rate.Limiter
	if opts.SendRate > 0 {
		burst := opts.SendBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.SendRate), burst)
	}
	return &Channel{
		conn:       conn,
		send:       make(chan []byte, queueSize),
		inbound:    make(chan string, defaultInboundSize),
		limiter:    limiter,
		stats:      stats,
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
}

// Send queues a pre-serialized frame. It reports failure instead of blocking;
// there is no acknowledgment of delivery and nothing is retried.
func (c *Channel) Send(payload string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.stats.IncSendFailure()
		return ErrClosed
	}
	if c.limiter != nil && !c.limiter.Allow() {
		c.stats.IncSendFailure()
		return ErrRateLimited
	}
	select {
	case c.send <- []byte(payload):
		return nil
	default:
		c.stats.IncSendFailure()
		return ErrBackpressure
	}
}

// Inbound yields text frames in arrival order. It is closed when the
// connection ends.
func (c *Channel) Inbound() <-chan string {
	return c.inbound
}

// Stats returns the counters shared with this channel.
func (c *Channel) Stats() *Stats {
	return c.stats
}

// Err returns the error that ended the connection, or nil if it is still
// open or was closed cleanly.
func (c *Channel) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Close sends a normal closure and waits for the writer to stop. Frames still
// queued are discarded.
func (c *Channel) Close() error {
	c.shutdown(nil)
	<-c.writerDone
	return nil
}

func (c *Channel) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		if cause != nil && !websocket.IsCloseError(cause, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			c.err = cause
		}
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *Channel) readPump() {
	defer close(c.inbound)
	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		messageType, payload, err := c.conn.ReadMessage()
		if err != nil {
			c.shutdown(err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.stats.IncReceived()
		select {
		case c.inbound <- string(payload):
		case <-c.done:
			return
		}
	}
}

func (c *Channel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
		close(c.writerDone)
	}()
	for {
		select {
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.stats.IncSendFailure()
				c.shutdown(err)
				return
			}
			c.stats.IncSent()
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown(err)
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client close"))
			return
		}
	}
}
