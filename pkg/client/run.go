package client

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	dcontainer "github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/container"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/logging"
)

// DefaultStartupTimeout bounds how long a launched app may take to bind its
// port before run gives up.
const DefaultStartupTimeout = 30 * time.Second

// RunOptions describes configuration needed to build an app image and
// launch a container from it.
type RunOptions struct {
	BuildOptions

	// Ports are [host-ip:]host:container publish specs. A bare number
	// publishes that port to localhost. Defaults to the app port on both
	// sides.
	Ports []string

	// StartupTimeout bounds the wait for the app to bind its port.
	// Defaults to DefaultStartupTimeout.
	StartupTimeout time.Duration
}

// Run builds the app image and starts a container from it, streaming the
// app's output until the container exits or ctx is cancelled. Run fails
// when the published port is not accepting connections within the startup
// timeout, and when the container exits with a non-zero status.
func (c *Client) Run(ctx context.Context, opts RunOptions) error {
	if opts.Publish {
		return errors.New("run does not support publishing to a registry")
	}

	if err := c.Build(ctx, opts.BuildOptions); err != nil {
		return err
	}

	appPort := resolvePort(opts.BuildOptions)

	ports := opts.Ports
	if len(ports) == 0 {
		ports = []string{fmt.Sprintf("%d:%d", appPort, appPort)}
	}

	exposedPorts, portBindings, err := parsePorts(ports)
	if err != nil {
		return errors.Wrap(err, "parsing ports")
	}

	c.logger.Info(style.Step("RUNNING"))

	ctr, err := c.docker.ContainerCreate(ctx,
		&dcontainer.Config{
			Image:        opts.Image,
			ExposedPorts: exposedPorts,
			Labels:       map[string]string{"build.gantry.app": "true"},
		},
		&dcontainer.HostConfig{
			PortBindings: portBindings,
		},
		nil, nil, "")
	if err != nil {
		return errors.Wrap(err, "creating app container")
	}
	defer func() {
		if err := c.docker.ContainerRemove(context.Background(), ctr.ID, dcontainer.RemoveOptions{Force: true}); err != nil {
			c.logger.Debugf("Failed to remove app container %s: %s", style.Symbol(ctr.ID), err)
		}
	}()

	outWriter := logging.NewPrefixWriter(logging.GetWriterForLevel(c.logger, logging.InfoLevel), "app")
	errWriter := logging.NewPrefixWriter(logging.GetWriterForLevel(c.logger, logging.ErrorLevel), "app")
	defer outWriter.Close()
	defer errWriter.Close()

	runErr := make(chan error, 1)
	go func() {
		runErr <- container.Run(ctx, c.docker, ctr.ID, outWriter, errWriter)
	}()

	hostIP, hostPort := hostBinding(portBindings)
	if hostPort == "" {
		c.logger.Warn("No single port binding, skipping the readiness check")
		return c.waitAppExit(ctx, runErr)
	}

	dialHost := hostIP
	if dialHost == "" || dialHost == "0.0.0.0" {
		dialHost = "127.0.0.1"
	}
	displayHost := dialHost
	if displayHost == "127.0.0.1" {
		displayHost = "localhost"
	}

	timeout := opts.StartupTimeout
	if timeout == 0 {
		timeout = DefaultStartupTimeout
	}

	pollCtx, cancelPoll := context.WithCancel(ctx)
	defer cancelPoll()

	ready := make(chan struct{})
	go func() {
		if pollPort(pollCtx, net.JoinHostPort(dialHost, hostPort)) {
			close(ready)
		}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-runErr:
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "running app container")
		}
		return errors.Errorf("app container exited before binding port %s", style.Symbol(hostPort))
	case <-timer.C:
		return errors.Errorf("app did not bind port %s within %s", style.Symbol(hostPort), timeout)
	case <-ready:
	}

	c.logger.Infof("Application is ready at http://%s:%s/", displayHost, hostPort)

	return c.waitAppExit(ctx, runErr)
}

// waitAppExit treats a cancelled context as a requested shutdown rather
// than a container failure.
func (c *Client) waitAppExit(ctx context.Context, runErr <-chan error) error {
	err := <-runErr
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "running app container")
	}
	return nil
}

func parsePorts(ports []string) (nat.PortSet, nat.PortMap, error) {
	specs := make([]string, len(ports))
	for i, p := range ports {
		p = strings.TrimSpace(p)
		if _, err := strconv.Atoi(p); err == nil {
			// default simple port to localhost and inside the container
			p = fmt.Sprintf("127.0.0.1:%s:%s/tcp", p, p)
		}
		specs[i] = p
	}

	return nat.ParsePortSpecs(specs)
}

// hostBinding reports the host side of the port publish when there is
// exactly one. With multiple bindings we assume you know what you're doing
// and skip the readiness check.
func hostBinding(portBindings nat.PortMap) (hostIP, hostPort string) {
	if len(portBindings) != 1 {
		return "", ""
	}
	for _, bindings := range portBindings {
		if len(bindings) != 1 {
			return "", ""
		}
		return bindings[0].HostIP, bindings[0].HostPort
	}
	return "", ""
}

func pollPort(ctx context.Context, addr string) bool {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		conn, err := net.DialTimeout("tcp", addr, time.Second)
		if err == nil {
			conn.Close()
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}
