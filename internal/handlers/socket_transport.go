package handlers

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	defaultSendBuffer   = 64
	defaultWriteTimeout = 5 * time.Second
)

// WSTransport adapts a gorilla websocket connection to signaling.Transport.
// Data frames are queued and written by a single pump goroutine; control
// frames go through WriteControl, which gorilla allows concurrently.
type WSTransport struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	sendCh       chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	wg           sync.WaitGroup
	open         atomic.Bool

	pongMu sync.Mutex
	onPong func()
}

func NewWSTransport(conn *websocket.Conn, sendBuffer int, writeTimeout time.Duration) *WSTransport {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	t := &WSTransport{
		conn:         conn,
		writeTimeout: writeTimeout,
		sendCh:       make(chan []byte, sendBuffer),
		done:         make(chan struct{}),
	}
	t.open.Store(true)
	conn.SetPongHandler(func(string) error {
		t.pongMu.Lock()
		fn := t.onPong
		t.pongMu.Unlock()
		if fn != nil {
			fn()
		}
		return nil
	})

	t.wg.Add(1)
	go t.run()
	return t
}

func (t *WSTransport) run() {
	defer t.wg.Done()
	for {
		select {
		case msg := <-t.sendCh:
			_ = t.conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
			if err := t.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug().Str("module", "handlers.transport").Err(err).Msg("write failed")
				if t.markClosed() {
					_ = t.conn.Close()
				}
				return
			}
		case <-t.done:
			return
		}
	}
}

// Send queues data without blocking. A full buffer drops the frame.
func (t *WSTransport) Send(data []byte) error {
	if !t.open.Load() {
		return errs.ErrTransportClosed
	}
	select {
	case t.sendCh <- data:
		return nil
	case <-t.done:
		return errs.ErrTransportClosed
	default:
		return errs.ErrSendBufferFull
	}
}

func (t *WSTransport) Ping() error {
	if !t.open.Load() {
		return errs.ErrTransportClosed
	}
	return t.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(t.writeTimeout))
}

// Close stops the pump, writes a close frame and releases the socket.
// Frames still queued are discarded.
func (t *WSTransport) Close(code int, reason string) error {
	if !t.markClosed() {
		return nil
	}
	t.wg.Wait()

	msg := websocket.FormatCloseMessage(code, reason)
	err := t.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(t.writeTimeout))
	_ = t.conn.Close()
	return err
}

func (t *WSTransport) Terminate() {
	if t.markClosed() {
		_ = t.conn.Close()
	}
}

func (t *WSTransport) IsOpen() bool {
	return t.open.Load()
}

func (t *WSTransport) OnPong(fn func()) {
	t.pongMu.Lock()
	t.onPong = fn
	t.pongMu.Unlock()
}

// markClosed reports whether this call performed the transition.
func (t *WSTransport) markClosed() bool {
	first := false
	t.closeOnce.Do(func() {
		first = true
		t.open.Store(false)
		close(t.done)
	})
	return first
}
