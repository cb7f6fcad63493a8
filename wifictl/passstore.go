// wifiswitch/wifictl/passstore.go
package wifictl

import (
	"context"
	"fmt"
	"path"
	"strings"
)

const secretDelimiter = ": "

// ParsePassword picks the secret for network out of `pass` output made of
// `<label>: <secret>` lines. An exact label match wins, then a label that
// contains the name, then any line containing it; the secret is whatever
// follows the last delimiter on the line.
func ParsePassword(output, network string) (string, error) {
	if strings.TrimSpace(network) == "" {
		return "", ErrEmptyNetwork
	}
	var labelMatch, lineMatch string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.Contains(line, network) {
			continue
		}
		idx := strings.LastIndex(line, secretDelimiter)
		if idx < 0 {
			continue
		}
		secret := strings.TrimSpace(line[idx+len(secretDelimiter):])
		if secret == "" {
			continue
		}
		label := strings.TrimSpace(line[:idx])
		if label == network || path.Base(label) == network {
			return secret, nil
		}
		if labelMatch == "" && strings.Contains(label, network) {
			labelMatch = secret
		}
		if lineMatch == "" {
			lineMatch = secret
		}
	}
	switch {
	case labelMatch != "":
		return labelMatch, nil
	case lineMatch != "":
		return lineMatch, nil
	}
	return "", ErrPasswordNotFound
}

// Password resolves the stored secret for network from the password store.
// Stdout of the lookup holds every Wi-Fi secret, so it is never logged.
func (c *Client) Password(ctx context.Context, network string) (string, error) {
	if strings.TrimSpace(network) == "" {
		return "", ErrEmptyNetwork
	}
	env, searchPath := c.lookupEnv()
	cmd := Command{
		Name:    c.findIn(passBin, searchPath),
		Args:    []string{c.passEntry},
		Env:     env,
		Timeout: c.lookupTimeout,
	}
	res, err := c.run(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("failed to look up password for '%s': %w", network, err)
	}
	secret, err := ParsePassword(res.Stdout, network)
	if err != nil {
		return "", fmt.Errorf("failed to look up password for '%s': %w", network, err)
	}
	return secret, nil
}
