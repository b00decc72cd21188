package pharos

import (
	"fmt"
	"net/netip"
	"strings"
)

// ValidHost reports whether addr is a well-formed IPv4 dotted quad. Ports,
// IPv6 literals, zones and hostnames are rejected.
func ValidHost(addr string) bool {
	if addr == "" || strings.Count(addr, ".") != 3 {
		return false
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return false
	}
	return ip.Is4()
}

func invalidHostError(op, addr string) error {
	return &Error{
		Op:      op,
		Kind:    KindInvalidHostFormat,
		Message: fmt.Sprintf("the provided host (%s) does not match the required pattern", addr),
	}
}
