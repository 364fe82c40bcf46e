package system

import (
	"errors"
	"net"
	"strings"
)

var ErrNoAddress = errors.New("no non-loopback IPv4 address")

// LANIPv4 returns the first IPv4 address of an up, non-loopback interface.
func LANIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLinkLocalUnicast() {
				return ip4.String(), nil
			}
		}
	}
	return "", ErrNoAddress
}

// StatusURL builds the URL a phone should open for the web UI. host wins over
// the host part of listenAddr unless it is empty; port 80 is left out.
func StatusURL(host, listenAddr string) string {
	h, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		h, port = listenAddr, ""
	}
	if host == "" {
		host = h
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port == "" || port == "80" {
		return "http://" + host + "/"
	}
	return "http://" + host + ":" + port + "/"
}
