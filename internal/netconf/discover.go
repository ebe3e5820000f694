// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import (
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// Handle is the part of [netlink.Handle] used for discovery.
type Handle interface {
	LinkByName(name string) (netlink.Link, error)
	AddrList(link netlink.Link, family int) ([]netlink.Addr, error)
	RouteListFiltered(
		family int,
		filter *netlink.Route,
		filterMask uint64,
	) ([]netlink.Route, error)
}

// HostState is the snapshot of the host configuration taken before the
// topology is changed.
type HostState struct {
	// Address and prefix length of the guest facing interface.
	Address netip.Prefix

	// Default gateway. Invalid if the host has none.
	Gateway netip.Addr
}

// Discover captures the [HostState] for the given interface.
//
// A missing default gateway is reported as [ErrNoGateway].
func Discover(handle Handle, name string) (HostState, error) {
	addr, err := InterfaceAddress(handle, name)
	if err != nil {
		return HostState{}, err
	}

	gateway, err := DefaultGateway(handle)
	if err != nil {
		return HostState{}, err
	}

	if !gateway.IsValid() {
		return HostState{}, ErrNoGateway
	}

	return HostState{
		Address: addr,
		Gateway: gateway,
	}, nil
}

// InterfaceAddress returns the first IPv4 address of the interface with the
// given name in the order netlink lists them.
//
// It returns [ErrNotFound] if the interface does not exist or has no IPv4
// address.
func InterfaceAddress(handle Handle, name string) (netip.Prefix, error) {
	link, err := handle.LinkByName(name)
	if err != nil {
		if isLinkNotFound(err) {
			return netip.Prefix{}, fmt.Errorf("interface %s: %w", name, ErrNotFound)
		}

		return netip.Prefix{}, &QueryError{Op: "link " + name, Err: err}
	}

	addrs, err := handle.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return netip.Prefix{}, &QueryError{Op: "addresses of " + name, Err: err}
	}

	for _, addr := range addrs {
		prefix, ok := prefixFromIPNet(addr.IPNet)
		if ok {
			return prefix, nil
		}
	}

	return netip.Prefix{}, fmt.Errorf("ipv4 address on %s: %w", name, ErrNotFound)
}

// DefaultGateway returns the gateway of the first nexthop of the first IPv4
// unicast default route of any routing table.
//
// If there is no default route, the returned address is invalid and the error
// is nil.
func DefaultGateway(handle Handle) (netip.Addr, error) {
	// Without the table filter, netlink only lists the main table.
	filter := &netlink.Route{
		Type:  unix.RTN_UNICAST,
		Table: unix.RT_TABLE_UNSPEC,
	}

	routes, err := handle.RouteListFiltered(
		netlink.FAMILY_V4,
		filter,
		netlink.RT_FILTER_TYPE|netlink.RT_FILTER_TABLE,
	)
	if err != nil {
		return netip.Addr{}, &QueryError{Op: "routes", Err: err}
	}

	for _, route := range routes {
		if !isDefaultRoute(route) {
			continue
		}

		return firstNexthopGateway(route), nil
	}

	return netip.Addr{}, nil
}

func isDefaultRoute(route netlink.Route) bool {
	if route.Dst == nil {
		return true
	}

	ones, _ := route.Dst.Mask.Size()

	return ones == 0 && route.Dst.IP.IsUnspecified()
}

func firstNexthopGateway(route netlink.Route) netip.Addr {
	gw := route.Gw
	if gw == nil && len(route.MultiPath) > 0 {
		gw = route.MultiPath[0].Gw
	}

	addr, ok := netip.AddrFromSlice(gw.To4())
	if !ok {
		return netip.Addr{}
	}

	return addr
}

func prefixFromIPNet(ipNet *net.IPNet) (netip.Prefix, bool) {
	if ipNet == nil {
		return netip.Prefix{}, false
	}

	addr, ok := netip.AddrFromSlice(ipNet.IP.To4())
	if !ok {
		return netip.Prefix{}, false
	}

	ones, bits := ipNet.Mask.Size()
	if bits != net.IPv4len*8 {
		return netip.Prefix{}, false
	}

	return netip.PrefixFrom(addr, ones), true
}

func isLinkNotFound(err error) bool {
	var notFound netlink.LinkNotFoundError
	if errors.As(err, &notFound) {
		return true
	}

	return errors.Is(err, unix.ENODEV)
}
