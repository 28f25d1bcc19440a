package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"dualnet/util"
)

func listenUDP(t *testing.T) *net.UDPConn {
	t.Helper()
	ln, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	return ln
}

// TestUDPDialer_Connect verifies that a datagram written on the dialed
// socket reaches a local listener.
func TestUDPDialer_Connect(t *testing.T) {
	ln := listenUDP(t)

	d := &UDPDialer{Timeout: 2 * time.Second}
	conn, err := d.Dial(context.Background(), ln.LocalAddr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	ln.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck
	buf := make([]byte, 16)
	n, from, err := ln.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(buf[:n]) != "ping" {
		t.Errorf("got %q, want ping", buf[:n])
	}
	if from.Port != conn.LocalAddr().(*net.UDPAddr).Port {
		t.Errorf("sender port = %d, want %d", from.Port, conn.LocalAddr().(*net.UDPAddr).Port)
	}
}

// TestUDPDialer_LocalPort verifies source-port binding.
func TestUDPDialer_LocalPort(t *testing.T) {
	ln := listenUDP(t)

	spare, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	port := spare.LocalAddr().(*net.UDPAddr).Port
	spare.Close()

	d := &UDPDialer{LocalPort: port, Network: "udp4"}
	conn, err := d.Dial(context.Background(), util.FormatAddr("127.0.0.1", ln.LocalAddr().(*net.UDPAddr).Port))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if got := conn.LocalAddr().(*net.UDPAddr).Port; got != port {
		t.Errorf("local port = %d, want %d", got, port)
	}
}

// TestUDPDialer_ContextCancel verifies that a cancelled context stops
// the dial.
func TestUDPDialer_ContextCancel(t *testing.T) {
	d := &UDPDialer{Timeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Dial(ctx, "127.0.0.1:1"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestUDPDialer_BadAddress(t *testing.T) {
	d := &UDPDialer{}
	if _, err := d.Dial(context.Background(), "no-port-here"); err == nil {
		t.Fatal("expected error")
	}
}

// TestUDPDialer_Close verifies Close is a no-op and returns nil.
func TestUDPDialer_Close(t *testing.T) {
	d := &UDPDialer{}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
