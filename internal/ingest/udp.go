// Package ingest receives pose frames from the external estimator process.
//
// The estimator emits one JSON frame per UDP datagram (the same wire form
// .poselog files store). The engine never touches the network itself; ingest
// decodes, applies the detector confidence floor via the pose codec, and
// invokes the handler synchronously, preserving the engine's one-frame-at-a-
// time contract.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/repgate/repgate/internal/monitoring"
	"github.com/repgate/repgate/internal/pose"
)

// FrameHandler consumes one received frame. A nil snapshot means the
// estimator reported no body this frame.
type FrameHandler func(s *pose.Snapshot, now time.Time)

// UDPListenerConfig contains configuration options for the UDP listener.
type UDPListenerConfig struct {
	Address     string
	RcvBuf      int           // socket receive buffer; 0 keeps the OS default
	LogInterval time.Duration // stats logging cadence; 0 means one minute
	Handler     FrameHandler
}

// UDPListener receives JSON pose frames over UDP and forwards them to a
// handler.
type UDPListener struct {
	address     string
	rcvBuf      int
	logInterval time.Duration
	handler     FrameHandler

	mu   sync.Mutex
	conn *net.UDPConn

	frames  int64
	dropped int64
}

// Addr returns the bound local address, or nil before Start has opened the
// socket. Useful when listening on port 0.
func (l *UDPListener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// NewUDPListener creates a listener with the provided configuration.
func NewUDPListener(config UDPListenerConfig) *UDPListener {
	logInterval := config.LogInterval
	if logInterval == 0 {
		logInterval = time.Minute
	}
	return &UDPListener{
		address:     config.Address,
		rcvBuf:      config.RcvBuf,
		logInterval: logInterval,
		handler:     config.Handler,
	}
}

// Start listens for pose frames until the context is cancelled. Malformed
// datagrams are counted and dropped, never fatal: the stream continues with
// the next frame.
func (l *UDPListener) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", l.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.address, err)
	}
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
	defer conn.Close()

	if l.rcvBuf > 0 {
		if err := conn.SetReadBuffer(l.rcvBuf); err != nil {
			monitoring.Logf("failed to set UDP receive buffer to %d: %v", l.rcvBuf, err)
		}
	}
	monitoring.Logf("pose ingest listening on %s", l.address)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	lastLog := time.Now()
	buffer := make([]byte, 64*1024)
	for {
		n, _, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				monitoring.Logf("pose ingest stopped: %d frames, %d dropped", l.frames, l.dropped)
				return nil
			}
			monitoring.Logf("read error: %v", err)
			continue
		}

		now := time.Now()
		frame, err := pose.DecodeFrame(buffer[:n])
		if err != nil {
			l.dropped++
			continue
		}
		l.frames++
		if l.handler != nil {
			l.handler(frame.Snapshot(), now)
		}

		if now.Sub(lastLog) >= l.logInterval {
			monitoring.Logf("pose ingest: %d frames, %d dropped", l.frames, l.dropped)
			lastLog = now
		}
	}
}
