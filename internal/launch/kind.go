// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import "slices"

const (
	// KindQEMU runs the guest kernel in QEMU with TCG.
	KindQEMU Kind = "qemu"
	// KindKVM runs the guest kernel in QEMU with KVM acceleration.
	KindKVM Kind = "kvm"
	// KindUKVM runs the guest in the ukvm monitor. The monitor gets the tap
	// interface as open file descriptor.
	KindUKVM Kind = "ukvm"
	// KindUnix executes the guest directly as host process.
	KindUnix Kind = "unix"
)

// Kind is the guest runtime variant.
type Kind string

// Kinds returns all known kinds.
func Kinds() []Kind {
	return []Kind{
		KindQEMU,
		KindKVM,
		KindUKVM,
		KindUnix,
	}
}

func (k *Kind) isKnown() bool {
	return slices.Contains(Kinds(), *k)
}

// NeedsTapFile returns true if the guest runtime needs an open file bound to
// the tap interface.
func (k *Kind) NeedsTapFile() bool {
	return *k == KindUKVM
}

// String implements [fmt.Stringer].
func (k *Kind) String() string {
	if !k.isKnown() {
		return ""
	}

	return string(*k)
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	s := k.String()
	if s == "" {
		return nil, ErrKindInvalid
	}

	return []byte(s), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(text []byte) error {
	kind := Kind(text)

	if !kind.isKnown() {
		return ErrKindInvalid
	}

	*k = kind

	return nil
}
