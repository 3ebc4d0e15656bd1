package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/myhub/pkg/device"
)

// Shelly devices announce themselves under this mDNS service.
const (
	DefaultMDNSService = "_shelly._tcp"
	DefaultMDNSDomain  = "local."
	DefaultMDNSWindow  = 3 * time.Second
)

// BrowseFunc streams mDNS entries for service into entries until ctx is
// done, then closes entries.
type BrowseFunc func(ctx context.Context, service, domain string, entries chan *zeroconf.ServiceEntry) error

// ZeroconfSource browses mDNS for Shelly devices on the local network.
type ZeroconfSource struct {
	service string
	domain  string
	window  time.Duration
	browse  BrowseFunc
}

// ZeroconfOption configures a ZeroconfSource.
type ZeroconfOption func(*ZeroconfSource)

// WithBrowseWindow sets how long entries are collected per scan.
func WithBrowseWindow(d time.Duration) ZeroconfOption {
	return func(s *ZeroconfSource) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithBrowser replaces the mDNS browser, mainly for tests.
func WithBrowser(fn BrowseFunc) ZeroconfOption {
	return func(s *ZeroconfSource) { s.browse = fn }
}

// NewZeroconfSource creates an mDNS source for service in domain.
func NewZeroconfSource(service, domain string, opts ...ZeroconfOption) *ZeroconfSource {
	if service == "" {
		service = DefaultMDNSService
	}
	if domain == "" {
		domain = DefaultMDNSDomain
	}
	s := &ZeroconfSource{
		service: service,
		domain:  domain,
		window:  DefaultMDNSWindow,
		browse:  browseMDNS,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func browseMDNS(ctx context.Context, service, domain string, entries chan *zeroconf.ServiceEntry) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return err
	}
	return resolver.Browse(ctx, service, domain, entries)
}

func (s *ZeroconfSource) Name() string {
	return "zeroconf"
}

func (s *ZeroconfSource) Transport() device.Transport {
	return device.TransportWiFi
}

func (s *ZeroconfSource) Method() string {
	return fmt.Sprintf("zeroconf scan for Shelly devices (%s.%s)", s.service, s.domain)
}

// Scan collects entries for the browse window. Hitting the window is a
// normal end of scan; ctx ending first is an error.
func (s *ZeroconfSource) Scan(ctx context.Context) ([]device.Candidate, error) {
	browseCtx, cancel := context.WithTimeout(ctx, s.window)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 16)
	if err := s.browse(browseCtx, s.service, s.domain, entries); err != nil {
		return nil, fmt.Errorf("%w: mdns browse failed: %v", device.ErrUpstreamUnavailable, err)
	}

	candidates := []device.Candidate{}
	seen := map[string]bool{}
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				return s.finish(ctx, candidates)
			}
			c, ok := candidateFromEntry(entry)
			if !ok || seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			log.Debug().Str("id", c.ID).Str("ip", c.IP).Msg("Found Shelly device")
			candidates = append(candidates, c)
		case <-browseCtx.Done():
			// The resolver may still be sending; keep receiving until it
			// closes entries so its goroutine can exit.
			go drain(entries)
			return s.finish(ctx, candidates)
		}
	}
}

func drain(entries <-chan *zeroconf.ServiceEntry) {
	for range entries {
	}
}

func (s *ZeroconfSource) finish(ctx context.Context, candidates []device.Candidate) ([]device.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: mdns browse: %v", device.ErrUpstreamUnavailable, err)
	}
	return candidates, nil
}

// candidateFromEntry maps a Shelly announcement onto a candidate. Entries
// that are not Shelly devices or carry no usable IPv4 address are skipped.
func candidateFromEntry(entry *zeroconf.ServiceEntry) (device.Candidate, bool) {
	if entry == nil {
		return device.Candidate{}, false
	}
	instance := strings.ToLower(entry.Instance)
	if !strings.Contains(instance, "shelly") {
		return device.Candidate{}, false
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		if !addr.IsLinkLocalUnicast() && !addr.IsUnspecified() {
			ip = addr.String()
			break
		}
	}
	if ip == "" {
		return device.Candidate{}, false
	}

	id := device.DeriveID(strings.ReplaceAll(instance, "-", " "))
	if !strings.HasPrefix(id, "shelly") {
		id = "shelly_" + id
	}

	kind := device.KindSwitch
	label := "Switch"
	switch {
	case strings.Contains(instance, "plug"):
		kind, label = device.KindPlug, "Plug"
	case strings.Contains(instance, "dimmer"):
		kind, label = device.KindDimmer, "Dimmer"
	}

	port := entry.Port
	if port == 0 {
		port = 80
	}

	return device.Candidate{
		ID:            id,
		Name:          "Shelly " + label,
		Transport:     device.TransportWiFi,
		Kind:          kind,
		IP:            ip,
		Port:          port,
		Manufacturer:  "Shelly",
		Product:       txtValue(entry.Text, "app"),
		DiscoveredVia: ViaZeroconf,
	}, true
}

// txtValue returns the value of key in mDNS TXT records of the form k=v.
func txtValue(txt []string, key string) string {
	for _, kv := range txt {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
