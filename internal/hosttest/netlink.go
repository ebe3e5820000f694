// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hosttest

import (
	"fmt"
	"net"
	"os"
	"slices"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// Netlink is an in-memory netlink handle.
//
// Errors can be injected per call by adding them to Errors with the log entry
// of the call as key, e.g. "LinkAdd br0".
type Netlink struct {
	Log     *Log
	Errors  map[string]error
	Links   map[string]netlink.Link
	Addrs   map[string][]netlink.Addr
	Routes  []netlink.Route
	Masters map[string]string
	Up      map[string]bool
	Closed  bool

	lastIndex int
}

// NewNetlink returns an empty [Netlink] that records into log.
func NewNetlink(log *Log) *Netlink {
	return &Netlink{
		Log:     log,
		Errors:  map[string]error{},
		Links:   map[string]netlink.Link{},
		Addrs:   map[string][]netlink.Addr{},
		Masters: map[string]string{},
		Up:      map[string]bool{},
	}
}

// AddDevice adds a plain device link with the given name.
func (n *Netlink) AddDevice(name string) {
	n.addLink(&netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: name}})
}

// AddAddress adds an address in CIDR notation to the link with the given
// name.
func (n *Netlink) AddAddress(name, cidr string) {
	ip, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(err)
	}

	ipNet.IP = ip
	n.Addrs[name] = append(n.Addrs[name], netlink.Addr{IPNet: ipNet})
}

// AddDefaultRoute adds an IPv4 unicast default route via the given gateway.
func (n *Netlink) AddDefaultRoute(gateway string) {
	n.Routes = append(n.Routes, netlink.Route{
		Type: unix.RTN_UNICAST,
		Gw:   net.ParseIP(gateway),
	})
}

// Setup returns a [Netlink] with a guest facing interface with the given
// address and a default route via the given gateway.
func Setup(log *Log, name, cidr, gateway string) *Netlink {
	n := NewNetlink(log)
	n.AddDevice(name)
	n.AddAddress(name, cidr)
	n.AddDefaultRoute(gateway)

	return n
}

func (n *Netlink) call(entry ...string) error {
	n.Log.Add(entry...)

	key := n.Log.entries[len(n.Log.entries)-1]
	if err, exists := n.Errors[key]; exists {
		return err
	}

	return nil
}

func (n *Netlink) addLink(link netlink.Link) {
	n.lastIndex++
	link.Attrs().Index = n.lastIndex
	n.Links[link.Attrs().Name] = link
}

func (n *Netlink) known(link netlink.Link) (string, error) {
	name := link.Attrs().Name
	if _, exists := n.Links[name]; !exists {
		return "", fmt.Errorf("link %s: %w", name, unix.ENODEV)
	}

	return name, nil
}

// LinkByName implements the netlink handle method.
func (n *Netlink) LinkByName(name string) (netlink.Link, error) {
	if err := n.call("LinkByName", name); err != nil {
		return nil, err
	}

	link, exists := n.Links[name]
	if !exists {
		return nil, fmt.Errorf("link %s: %w", name, unix.ENODEV)
	}

	return link, nil
}

// LinkAdd implements the netlink handle method.
func (n *Netlink) LinkAdd(link netlink.Link) error {
	name := link.Attrs().Name
	if err := n.call("LinkAdd", name); err != nil {
		return err
	}

	if _, exists := n.Links[name]; exists {
		return unix.EEXIST
	}

	n.addLink(link)

	return nil
}

// LinkDel implements the netlink handle method.
func (n *Netlink) LinkDel(link netlink.Link) error {
	if err := n.call("LinkDel", link.Attrs().Name); err != nil {
		return err
	}

	name, err := n.known(link)
	if err != nil {
		return err
	}

	delete(n.Links, name)
	delete(n.Masters, name)
	delete(n.Up, name)

	for member, master := range n.Masters {
		if master == name {
			delete(n.Masters, member)
		}
	}

	return nil
}

// LinkSetMaster implements the netlink handle method.
func (n *Netlink) LinkSetMaster(link, master netlink.Link) error {
	if err := n.call("LinkSetMaster", link.Attrs().Name, master.Attrs().Name); err != nil {
		return err
	}

	name, err := n.known(link)
	if err != nil {
		return err
	}

	masterName, err := n.known(master)
	if err != nil {
		return err
	}

	n.Masters[name] = masterName

	return nil
}

// LinkSetUp implements the netlink handle method.
func (n *Netlink) LinkSetUp(link netlink.Link) error {
	if err := n.call("LinkSetUp", link.Attrs().Name); err != nil {
		return err
	}

	name, err := n.known(link)
	if err != nil {
		return err
	}

	n.Up[name] = true

	return nil
}

// AddrList implements the netlink handle method.
func (n *Netlink) AddrList(link netlink.Link, _ int) ([]netlink.Addr, error) {
	if err := n.call("AddrList", link.Attrs().Name); err != nil {
		return nil, err
	}

	return slices.Clone(n.Addrs[link.Attrs().Name]), nil
}

// AddrDel implements the netlink handle method.
func (n *Netlink) AddrDel(link netlink.Link, addr *netlink.Addr) error {
	name := link.Attrs().Name
	if err := n.call("AddrDel", name, addr.IPNet.String()); err != nil {
		return err
	}

	idx := slices.IndexFunc(n.Addrs[name], func(a netlink.Addr) bool {
		return a.IPNet.String() == addr.IPNet.String()
	})
	if idx < 0 {
		return unix.EADDRNOTAVAIL
	}

	n.Addrs[name] = slices.Delete(n.Addrs[name], idx, idx+1)

	return nil
}

// RouteListFiltered implements the netlink handle method.
func (n *Netlink) RouteListFiltered(
	_ int,
	filter *netlink.Route,
	filterMask uint64,
) ([]netlink.Route, error) {
	if err := n.call("RouteList"); err != nil {
		return nil, err
	}

	var routes []netlink.Route

	tableFilter := filterMask&netlink.RT_FILTER_TABLE != 0

	for _, route := range n.Routes {
		if filterMask&netlink.RT_FILTER_TYPE != 0 && route.Type != filter.Type {
			continue
		}

		// Like the kernel handle, only the main table is listed unless
		// filtered by table. Table 0 is treated as the main table.
		mainTable := route.Table == 0 || route.Table == unix.RT_TABLE_MAIN
		if !tableFilter && !mainTable {
			continue
		}

		if tableFilter && filter.Table != unix.RT_TABLE_UNSPEC &&
			route.Table != filter.Table {
			continue
		}

		routes = append(routes, route)
	}

	return routes, nil
}

// Close implements the netlink handle method.
func (n *Netlink) Close() {
	n.Log.Add("Close")
	n.Closed = true
}

// CreateTap creates a tap link as the tun device does.
//
// For non-persistent taps, a file that must be closed by the caller is
// returned.
func (n *Netlink) CreateTap(name string, persistent bool) (*os.File, error) {
	if err := n.call("CreateTap", name); err != nil {
		return nil, err
	}

	if _, exists := n.Links[name]; exists {
		return nil, unix.EBUSY
	}

	n.addLink(&netlink.Tuntap{
		LinkAttrs:  netlink.LinkAttrs{Name: name},
		Mode:       netlink.TUNTAP_MODE_TAP,
		NonPersist: !persistent,
	})

	if persistent {
		return nil, nil
	}

	file, err := os.Open(os.DevNull)
	if err != nil {
		return nil, fmt.Errorf("open tap file: %w", err)
	}

	return file, nil
}
