package startup

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// maxPortAttempts bounds how many consecutive ports bindWithRetry tries
// before giving up.
const maxPortAttempts = 100

// bindWithRetry binds a TCP listener on bindAddr starting at startPort,
// incrementing the port on address-in-use up to maxPortAttempts times. Any
// other bind error aborts immediately.
func bindWithRetry(bindAddr string, startPort int) (net.Listener, int, error) {
	port := startPort
	for i := 0; i < maxPortAttempts; i++ {
		addr := fmt.Sprintf("%s:%d", bindAddr, port)
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
				port = tcp.Port
			}
			return ln, port, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, 0, fmt.Errorf("bind %s failed: %w", addr, err)
		}
		port++
	}
	return nil, 0, fmt.Errorf("exhausted %d port candidates starting at %d; all ports in use", maxPortAttempts, startPort)
}
