package util

import (
	"strconv"
	"strings"
)

// ParsePort parses a TCP port, returning def when s is empty, malformed or out of range.
func ParsePort(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 || v > 65535 {
		return def
	}
	return v
}

// SplitHostPort splits "host:port". A bare host keeps defPort.
func SplitHostPort(addr string, defPort int) (string, int) {
	host, port, ok := strings.Cut(addr, ":")
	if !ok {
		return addr, defPort
	}
	return host, ParsePort(port, defPort)
}
