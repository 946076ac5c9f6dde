package net

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_sketchboard._tcp"

// Advertise announces a board server listening on listenAddr to the LAN.
// Close the returned server to withdraw the announcement.
func Advertise(listenAddr string) (*mdns.Server, error) {
	port, err := listenPort(listenAddr)
	if err != nil {
		return nil, err
	}
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"SketchBoard"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discover lists board servers answering on the LAN within timeout, as
// browser URLs.
func Discover(timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan []string)
	go func() {
		var urls []string
		seen := make(map[string]bool)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			u := fmt.Sprintf("http://%s:%d/", e.AddrV4.String(), e.Port)
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
		found <- urls
	}()

	err := mdns.Query(&mdns.QueryParam{
		Service:     serviceType,
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	})
	close(entries)
	urls := <-found
	if err != nil {
		return urls, fmt.Errorf("mDNS query: %w", err)
	}
	return urls, nil
}
