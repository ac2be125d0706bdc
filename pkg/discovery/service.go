package discovery

import (
	"context"
	"net"
	"os"
	"strconv"

	"github.com/google/uuid"
)

const (
	DefaultServiceType = "_tuifs._tcp"
	DefaultDomain      = "local"
)

type ServiceInfo struct {
	Name   string // instance name
	Type   string // service name, e.g., "_tuifs._tcp"
	Domain string // domain, e.g., "local"
	Addr   net.IP
	Port   int
}

// Address is the host:port a client connects to.
func (s ServiceInfo) Address() string {
	host := ""
	if s.Addr != nil {
		host = s.Addr.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(s.Port))
}

// DiscoveryResult contains either a snapshot of services or an error.
type DiscoveryResult struct {
	Services []ServiceInfo
	Error    error
}

type Adapter interface {
	Announce(ctx context.Context, service ServiceInfo) error
	Discover(ctx context.Context, service string) <-chan DiscoveryResult
}

// NewServerInfo describes a tuifs server on port. The instance name is the
// hostname plus a short random suffix so two servers on one host differ.
func NewServerInfo(port int) ServiceInfo {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "tuifs"
	}
	return ServiceInfo{
		Name:   host + "-" + uuid.NewString()[:8],
		Type:   DefaultServiceType,
		Domain: DefaultDomain,
		Port:   port,
	}
}
