// wifiswitch/wifictl/networksetup.go
package wifictl

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strings"
)

// Prefixes networksetup prints on stdout when a join did not happen, even
// though it exits zero.
var joinFailurePrefixes = []string{
	"Could not find network",
	"Failed to join network",
	"Error:",
}

var currentNetworkPrefixes = []string{
	"Current Wi-Fi Network:",
	"Current AirPort Network:",
}

// ParsePreferredNetworks turns `networksetup -listpreferredwirelessnetworks`
// output into network names. The first line is a header.
func ParsePreferredNetworks(output string) []string {
	networks := []string{}
	scanner := bufio.NewScanner(strings.NewReader(output))
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		name := strings.TrimLeft(scanner.Text(), " \t")
		name = strings.TrimRight(name, "\r")
		if strings.TrimSpace(name) == "" {
			continue
		}
		networks = append(networks, name)
	}
	return networks
}

// ParseCurrentNetwork extracts the associated network name from
// `networksetup -getairportnetwork` output. ok is false when the interface is
// not associated.
func ParseCurrentNetwork(output string) (name string, ok bool) {
	line := strings.TrimSpace(output)
	for _, prefix := range currentNetworkPrefixes {
		if strings.HasPrefix(line, prefix) {
			name = strings.TrimSpace(strings.TrimPrefix(line, prefix))
			return name, name != ""
		}
	}
	return "", false
}

// PreferredNetworks lists the remembered networks of the interface in the
// order networksetup reports them.
func (c *Client) PreferredNetworks(ctx context.Context) ([]string, error) {
	cmd := Command{
		Name: c.networksetupPath(),
		Args: []string{"-listpreferredwirelessnetworks", c.iface},
	}
	res, err := c.run(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferred networks on %s: %w", c.iface, err)
	}
	networks := ParsePreferredNetworks(res.Stdout)
	log.Printf("Found %d preferred networks on %s", len(networks), c.iface)
	return networks, nil
}

// CurrentNetwork reports the network the interface is associated with, or ""
// when it is not associated.
func (c *Client) CurrentNetwork(ctx context.Context) (string, error) {
	cmd := Command{
		Name: c.networksetupPath(),
		Args: []string{"-getairportnetwork", c.iface},
	}
	res, err := c.run(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("failed to get current network on %s: %w", c.iface, err)
	}
	name, _ := ParseCurrentNetwork(res.Stdout)
	return name, nil
}

// Join associates the interface with network using password. The process
// gets only PATH and PASSWORD_STORE_DIR in its environment.
func (c *Client) Join(ctx context.Context, network, password string) error {
	if strings.TrimSpace(network) == "" {
		return ErrEmptyNetwork
	}
	cmd := Command{
		Name:   c.networksetupPath(),
		Args:   []string{"-setairportnetwork", c.iface, network, password},
		Env:    c.joinEnv(),
		Secret: []int{3},
	}
	res, err := c.run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to join network '%s': %w", network, err)
	}
	out := strings.TrimSpace(res.Stdout)
	for _, prefix := range joinFailurePrefixes {
		if strings.HasPrefix(out, prefix) {
			return fmt.Errorf("failed to join network '%s': %w", network,
				&CommandError{Command: cmd.String(), Stderr: out})
		}
	}
	log.Printf("Joined network '%s' on %s", network, c.iface)
	return nil
}
