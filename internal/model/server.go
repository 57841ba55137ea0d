package model

import (
	"context"
	"net"
)

// SecurityLayer produces the network listener a server accepts connections
// on, either plain TCP or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server defines the lifecycle of a network server.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
