// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package topology

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"slices"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// Handle is the part of [netlink.Handle] used for changing the topology.
type Handle interface {
	LinkByName(name string) (netlink.Link, error)
	LinkAdd(link netlink.Link) error
	LinkDel(link netlink.Link) error
	LinkSetMaster(link, master netlink.Link) error
	LinkSetUp(link netlink.Link) error
	AddrDel(link netlink.Link, addr *netlink.Addr) error
}

// TapCreator creates tap interfaces. [TunDevice] is the implementation for
// the running host.
type TapCreator interface {
	CreateTap(name string, persistent bool) (*os.File, error)
}

// Builder applies topology changes one by one.
//
// It keeps track of the interfaces it created, so they can be removed again
// by [Builder.Teardown].
type Builder struct {
	handle  Handle
	tun     TapCreator
	links   map[string]netlink.Link
	masters map[string]string
	created []netlink.Link
	files   []*os.File
}

// NewBuilder creates a new [Builder] using the given handle and tap creator.
func NewBuilder(handle Handle, tun TapCreator) *Builder {
	return &Builder{
		handle:  handle,
		tun:     tun,
		links:   map[string]netlink.Link{},
		masters: map[string]string{},
	}
}

// CreateBridge creates a bridge with the given name.
func (b *Builder) CreateBridge(name string) error {
	bridge := &netlink.Bridge{
		LinkAttrs: netlink.LinkAttrs{Name: name},
	}

	err := b.handle.LinkAdd(bridge)
	if err != nil {
		return &Error{Op: "create bridge", Interface: name, Err: collision(err)}
	}

	b.created = append(b.created, bridge)

	return nil
}

// CreateTap creates a tap interface with the given name.
//
// If persistent is false, the returned file is bound to the tap interface. It
// is owned by the [Builder] and closed by [Builder.Teardown].
func (b *Builder) CreateTap(name string, persistent bool) (*os.File, error) {
	file, err := b.tun.CreateTap(name, persistent)
	if err != nil {
		return nil, &Error{Op: "create tap", Interface: name, Err: collision(err)}
	}

	b.created = append(b.created, &netlink.Tuntap{
		LinkAttrs:  netlink.LinkAttrs{Name: name},
		Mode:       netlink.TUNTAP_MODE_TAP,
		NonPersist: !persistent,
	})

	if file != nil {
		b.files = append(b.files, file)
	}

	return file, nil
}

// Refresh looks up the current state of the interfaces with the given names.
//
// Interfaces must be refreshed before they can be used with any of the
// modifying methods.
func (b *Builder) Refresh(names ...string) error {
	for _, name := range names {
		link, err := b.handle.LinkByName(name)
		if err != nil {
			return &Error{Op: "refresh", Interface: name, Err: err}
		}

		b.links[name] = link
	}

	return nil
}

// Enslave attaches the member interface to the bridge.
func (b *Builder) Enslave(bridge, member string) error {
	bridgeLink, err := b.link(bridge)
	if err != nil {
		return &Error{Op: "enslave", Interface: member, Err: err}
	}

	memberLink, err := b.link(member)
	if err != nil {
		return &Error{Op: "enslave", Interface: member, Err: err}
	}

	err = b.handle.LinkSetMaster(memberLink, bridgeLink)
	if err != nil {
		return &Error{
			Op:        "enslave",
			Interface: member,
			Err:       fmt.Errorf("to %s: %w", bridge, err),
		}
	}

	b.masters[member] = bridge

	return nil
}

// MigrateAddress removes the given address from the interface.
//
// The interface must be enslaved to a bridge already, together with at least
// one other member, so the host stays reachable via the bridge.
func (b *Builder) MigrateAddress(name string, prefix netip.Prefix) error {
	bridge, enslaved := b.masters[name]
	if !enslaved {
		return &Error{Op: "migrate address", Interface: name, Err: ErrNotEnslaved}
	}

	if len(b.Members(bridge)) < 2 {
		return &Error{
			Op:        "migrate address",
			Interface: name,
			Err:       fmt.Errorf("%w: %s has no other member", ErrNotEnslaved, bridge),
		}
	}

	link, err := b.link(name)
	if err != nil {
		return &Error{Op: "migrate address", Interface: name, Err: err}
	}

	addr := &netlink.Addr{
		IPNet: &net.IPNet{
			IP:   net.IP(prefix.Addr().AsSlice()),
			Mask: net.CIDRMask(prefix.Bits(), prefix.Addr().BitLen()),
		},
	}

	err = b.handle.AddrDel(link, addr)
	if err != nil {
		return &Error{
			Op:        "migrate address",
			Interface: name,
			Err:       fmt.Errorf("delete %s: %w", prefix, err),
		}
	}

	return nil
}

// BringUp sets the administrative up flag of the interface.
//
// This is IFF_UP in the interface flags. Setting the operational state does
// not make the interface usable.
func (b *Builder) BringUp(name string) error {
	link, err := b.link(name)
	if err != nil {
		return &Error{Op: "bring up", Interface: name, Err: err}
	}

	err = b.handle.LinkSetUp(link)
	if err != nil {
		return &Error{Op: "bring up", Interface: name, Err: err}
	}

	return nil
}

// Members returns the names of the interfaces enslaved to the given bridge in
// lexical order.
func (b *Builder) Members(bridge string) []string {
	var members []string

	for member, master := range b.masters {
		if master == bridge {
			members = append(members, member)
		}
	}

	slices.Sort(members)

	return members
}

// Teardown closes all tap files and deletes all created interfaces in reverse
// order of their creation.
//
// Interfaces enslaved to a deleted bridge are released by the kernel, so they
// are not touched. Removed addresses are not restored.
func (b *Builder) Teardown() error {
	var errs []error

	for _, file := range b.files {
		err := file.Close()
		if err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, fmt.Errorf("close tap file: %w", err))
		}
	}

	for _, link := range slices.Backward(b.created) {
		name := link.Attrs().Name
		if refreshed, exists := b.links[name]; exists {
			link = refreshed
		}

		// Non-persistent taps vanish with their file.
		err := b.handle.LinkDel(link)
		if err != nil && !errors.Is(err, unix.ENODEV) {
			errs = append(errs, &Error{Op: "delete", Interface: name, Err: err})
		}

		delete(b.links, name)
		delete(b.masters, name)

		for member, master := range b.masters {
			if master == name {
				delete(b.masters, member)
			}
		}
	}

	b.files = nil
	b.created = nil

	return errors.Join(errs...)
}

func (b *Builder) link(name string) (netlink.Link, error) {
	link, exists := b.links[name]
	if !exists {
		return nil, ErrUnknownInterface
	}

	return link, nil
}

func collision(err error) error {
	if errors.Is(err, unix.EEXIST) || errors.Is(err, unix.EBUSY) {
		return fmt.Errorf("%w: %w", ErrNameCollision, err)
	}

	return err
}
