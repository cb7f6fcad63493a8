// wifiswitch/wifictl/client.go
package wifictl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrEmptyNetwork     = errors.New("network name cannot be empty")
	ErrPasswordNotFound = errors.New("password not found in store")
)

// Options configures a Client. Zero fields fall back to the defaults below.
type Options struct {
	Interface     string
	StoreDir      string
	PassEntry     string
	LookupTimeout time.Duration
	JoinPath      string
	ExtraPath     string
}

const (
	DefaultInterface     = "en0"
	DefaultPassEntry     = "wifi"
	DefaultLookupTimeout = 2 * time.Second
	DefaultJoinPath      = "/usr/sbin"
	DefaultExtraPath     = "/opt/homebrew/bin"

	networksetupBin = "networksetup"
	passBin         = "pass"
	storeDirEnv     = "PASSWORD_STORE_DIR"
)

// Client lists, resolves and joins preferred Wi-Fi networks of one interface.
type Client struct {
	runner        Runner
	iface         string
	storeDir      string
	passEntry     string
	lookupTimeout time.Duration
	joinPath      string
	extraPath     string

	environ  func() []string
	lookPath func(string) (string, error)
}

// NewClient returns a Client that runs its commands through r, or through
// ExecRunner when r is nil.
func NewClient(r Runner, opts Options) *Client {
	if r == nil {
		r = ExecRunner{}
	}
	c := &Client{
		runner:        r,
		iface:         opts.Interface,
		storeDir:      opts.StoreDir,
		passEntry:     opts.PassEntry,
		lookupTimeout: opts.LookupTimeout,
		joinPath:      opts.JoinPath,
		extraPath:     opts.ExtraPath,
		environ:       os.Environ,
		lookPath:      exec.LookPath,
	}
	if c.iface == "" {
		c.iface = DefaultInterface
	}
	if c.passEntry == "" {
		c.passEntry = DefaultPassEntry
	}
	if c.lookupTimeout <= 0 {
		c.lookupTimeout = DefaultLookupTimeout
	}
	if c.joinPath == "" {
		c.joinPath = DefaultJoinPath
	}
	if c.extraPath == "" {
		c.extraPath = DefaultExtraPath
	}
	return c
}

// Interface returns the device name the client operates on.
func (c *Client) Interface() string { return c.iface }

// run applies the stderr rule on top of whatever the runner reports.
func (c *Client) run(ctx context.Context, cmd Command) (Result, error) {
	res, err := c.runner.Run(ctx, cmd)
	if err != nil {
		return res, err
	}
	if stderr := strings.TrimSpace(res.Stderr); stderr != "" {
		return res, &CommandError{Command: cmd.String(), Stderr: stderr}
	}
	return res, nil
}

// networksetupPath is resolved against the join search path rather than the
// inherited PATH.
func (c *Client) networksetupPath() string {
	return c.findIn(networksetupBin, c.joinPath)
}

func (c *Client) findIn(name, pathList string) string {
	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if p, err := c.lookPath(candidate); err == nil {
			return p
		}
	}
	return name
}

// lookupEnv is the inherited environment with PATH extended by extraPath and
// the password store directory overridden.
func (c *Client) lookupEnv() (env []string, path string) {
	for _, kv := range c.environ() {
		switch {
		case strings.HasPrefix(kv, "PATH="):
			path = strings.TrimPrefix(kv, "PATH=")
		case strings.HasPrefix(kv, storeDirEnv+"="):
		default:
			env = append(env, kv)
		}
	}
	if c.extraPath != "" {
		if path == "" {
			path = c.extraPath
		} else {
			path = path + string(filepath.ListSeparator) + c.extraPath
		}
	}
	env = append(env, "PATH="+path)
	if c.storeDir != "" {
		env = append(env, storeDirEnv+"="+c.storeDir)
	}
	return env, path
}

// joinEnv is the whole environment of the join command, nothing inherited.
func (c *Client) joinEnv() []string {
	env := []string{"PATH=" + c.joinPath}
	if c.storeDir != "" {
		env = append(env, storeDirEnv+"="+c.storeDir)
	}
	return env
}

// Switch resolves the password for network and joins it.
func (c *Client) Switch(ctx context.Context, network string) error {
	password, err := c.Password(ctx, network)
	if err != nil {
		return err
	}
	return c.Join(ctx, network, password)
}

// CheckTools reports whether networksetup and pass can be found on the
// search paths the client will use.
func (c *Client) CheckTools() error {
	if p := c.networksetupPath(); p == networksetupBin {
		return fmt.Errorf("'%s' not found in %s", networksetupBin, c.joinPath)
	}
	_, searchPath := c.lookupEnv()
	if p := c.findIn(passBin, searchPath); p == passBin {
		return fmt.Errorf("'%s' not found in PATH or %s", passBin, c.extraPath)
	}
	return nil
}
