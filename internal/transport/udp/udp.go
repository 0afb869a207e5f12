package udp

import (
	"context"
	"errors"
	"log"
	"net"
)

// Endpoint is one agent's datagram socket. Delivery is at most once
// with no ordering guarantee; that is all the swarm protocol assumes.
type Endpoint struct {
	conn *net.UDPConn
	log  *log.Logger
}

// Listen binds a UDP socket. Pass "127.0.0.1:0" to let the kernel
// pick a free port; Addr reports the bound address for the peer list.
func Listen(addr string, logger *log.Logger) (*Endpoint, error) {
	ua, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", ua)
	if err != nil {
		return nil, err
	}
	return &Endpoint{conn: conn, log: logger}, nil
}

func (e *Endpoint) Addr() string { return e.conn.LocalAddr().String() }

func (e *Endpoint) Send(addr string, payload []byte) error {
	ua, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	_, err = e.conn.WriteToUDP(payload, ua)
	return err
}

// Run reads datagrams until ctx is canceled, handing each payload and
// source address to deliver. Transient read errors are logged and
// skipped.
func (e *Endpoint) Run(ctx context.Context, deliver func(payload []byte, from string)) error {
	go func() {
		<-ctx.Done()
		_ = e.conn.Close()
	}()
	buf := make([]byte, 64*1024)
	for {
		n, from, err := e.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			e.log.Printf("udp read: %v", err)
			continue
		}
		b := make([]byte, n)
		copy(b, buf[:n])
		deliver(b, from.String())
	}
}

func (e *Endpoint) Close() error { return e.conn.Close() }
