package bot

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-resty/resty/v2"
)

// ErrPrivateAddress is returned when a media request would reach a host that
// is not on the public internet.
var ErrPrivateAddress = errors.New("address is not public")

const (
	httpTimeout  = 10 * time.Second
	maxRedirects = 3
)

// NewHTTPClient returns the client used for fetching user supplied media.
// It only connects to public addresses, whatever the URL or a redirect names.
func NewHTTPClient() *resty.Client {
	dialer := &net.Dialer{Timeout: httpTimeout, Control: publicOnly}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	client := resty.New()
	client.SetTransport(transport)
	client.SetTimeout(httpTimeout)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))
	client.SetRetryCount(1)
	client.AddRetryCondition(func(_ *resty.Response, err error) bool {
		return err != nil && !errors.Is(err, ErrPrivateAddress) && !errors.Is(err, resty.ErrResponseBodyTooLarge)
	})
	client.SetHeader("User-Agent", "HelpBot (https://github.com/bwmarrin/discordgo, "+discordgo.VERSION+")")
	return client
}

// PublicAddr reports whether addr is routable on the public internet.
func PublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsValid() &&
		!addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsUnspecified() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsInterfaceLocalMulticast() &&
		!addr.IsMulticast()
}

// publicOnly runs after name resolution, so it sees the address actually dialed.
func publicOnly(network, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, address)
	}
	if !PublicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, ap.Addr())
	}
	return nil
}
