package wire

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Dial opens a plain TCP connection to addr, bounded by ctx. Used
// directly by fire-and-forget tick-time traffic, which never retries.
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	d := net.Dialer{}
	return d.DialContext(ctx, "tcp", addr)
}

// DialWithBackoff retries TCP connect with exponential backoff: an
// initial 100ms delay, doubling up to a 2s cap, within a 10s total
// budget. This is the only place in the system that retries — everywhere
// else, a connect failure is logged and dropped. Used exclusively by the
// init handshake (§4.3).
func DialWithBackoff(ctx context.Context, addr string) (net.Conn, error) {
	const (
		initialDelay = 100 * time.Millisecond
		maxDelay     = 2 * time.Second
		totalBudget  = 10 * time.Second
	)
	deadline := time.Now().Add(totalBudget)
	delay := initialDelay
	var lastErr error
	for {
		dialCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		conn, err := Dial(dialCtx, addr)
		cancel()
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("wire: dial %s: giving up after %s: %w", addr, totalBudget, lastErr)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

// Call sends req over a fresh connection to addr and returns the single
// response envelope. The simulation's RPC pattern is request/response
// over a short-lived or pooled connection — Call always closes its
// connection when done, independent of pool reuse (see Pool for the
// persistent-connection path used by the worker's adjacency fan-out).
func Call(ctx context.Context, addr string, req Envelope) (Envelope, error) {
	conn, err := Dial(ctx, addr)
	if err != nil {
		return Envelope{}, fmt.Errorf("wire: connect %s: %w", addr, err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if err := Encode(conn, req); err != nil {
		return Envelope{}, err
	}
	return Decode(conn)
}

// pooledConn guards one persistent connection to a peer behind a mutex,
// so concurrent callers serialize on it rather than racing writes onto
// the same socket.
type pooledConn struct {
	mu   sync.Mutex
	conn net.Conn
}

// Pool holds one persistent connection per peer address, per the
// "framed stream reuse" design note: on any I/O error the slot is
// invalidated and the next call reconnects (without backoff — only the
// init handshake backs off).
type Pool struct {
	mu    sync.Mutex
	peers map[string]*pooledConn
}

// NewPool returns an empty connection pool.
func NewPool() *Pool {
	return &Pool{peers: make(map[string]*pooledConn)}
}

func (p *Pool) slot(addr string) *pooledConn {
	p.mu.Lock()
	defer p.mu.Unlock()
	pc, ok := p.peers[addr]
	if !ok {
		pc = &pooledConn{}
		p.peers[addr] = pc
	}
	return pc
}

// Call sends req to addr over the pooled connection, dialing lazily on
// first use or after a prior error invalidated the slot.
func (p *Pool) Call(ctx context.Context, addr string, req Envelope) (Envelope, error) {
	pc := p.slot(addr)
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.conn == nil {
		conn, err := Dial(ctx, addr)
		if err != nil {
			return Envelope{}, fmt.Errorf("wire: pool dial %s: %w", addr, err)
		}
		pc.conn = conn
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = pc.conn.SetDeadline(deadline)
	}
	if err := Encode(pc.conn, req); err != nil {
		pc.conn.Close()
		pc.conn = nil
		return Envelope{}, err
	}
	resp, err := Decode(pc.conn)
	if err != nil {
		pc.conn.Close()
		pc.conn = nil
		return Envelope{}, err
	}
	return resp, nil
}

// Close tears down every pooled connection.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pc := range p.peers {
		pc.mu.Lock()
		if pc.conn != nil {
			pc.conn.Close()
		}
		pc.mu.Unlock()
	}
}
