package plex

import (
	"context"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"
)

// ServiceType is the mDNS service a Plex Media Server advertises.
const ServiceType = "_plexmediasvr._tcp"

// Server is a media server found on the local network.
type Server struct {
	Name string
	Host string
	Port int
}

// Discover browses mDNS for a media server and returns the first one with an
// IPv4 address. It gives up with ErrNoServer after timeout.
func Discover(ctx context.Context, timeout time.Duration) (Server, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return Server{}, fmt.Errorf("init mdns resolver: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, ServiceType, "local.", entries); err != nil {
		return Server{}, fmt.Errorf("browse %s: %w", ServiceType, err)
	}

	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return Server{}, ErrNoServer
			}
			if srv, ok := serverFromEntry(entry); ok {
				return srv, nil
			}
		case <-ctx.Done():
			return Server{}, ErrNoServer
		}
	}
}

func serverFromEntry(entry *zeroconf.ServiceEntry) (Server, bool) {
	if entry == nil || len(entry.AddrIPv4) == 0 {
		return Server{}, false
	}
	port := entry.Port
	if port == 0 {
		port = 32400
	}
	return Server{
		Name: entry.Instance,
		Host: entry.AddrIPv4[0].String(),
		Port: port,
	}, true
}
