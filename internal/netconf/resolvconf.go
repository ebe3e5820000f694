// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import (
	"bufio"
	"fmt"
	"io/fs"
	"net/netip"
	"strings"
)

// maxNameservers is the resolver limit of nameservers considered.
const maxNameservers = 3

// DNSConfig is the resolver configuration of the host.
type DNSConfig struct {
	Nameservers []netip.Addr
	Search      []string
}

// ReadResolvConf reads the nameservers and search domains from a file in
// resolv.conf(5) format.
//
// Only IP addresses are accepted as nameservers. A "domain" line sets the
// search list to just this domain. Unknown options are ignored.
func ReadResolvConf(fsys fs.FS, name string) (DNSConfig, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return DNSConfig{}, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	var conf DNSConfig

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		switch fields[0] {
		case "nameserver":
			if len(conf.Nameservers) >= maxNameservers {
				continue
			}

			addr, err := netip.ParseAddr(fields[1])
			if err != nil {
				continue
			}

			conf.Nameservers = append(conf.Nameservers, addr)
		case "domain":
			conf.Search = []string{fields[1]}
		case "search":
			conf.Search = fields[1:]
		}
	}

	if err := scanner.Err(); err != nil {
		return DNSConfig{}, fmt.Errorf("read: %w", err)
	}

	return conf, nil
}
