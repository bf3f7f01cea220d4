// Package container runs one-off docker containers to completion.
package container

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/pkg/errors"
)

// DockerClient is the subset of the docker API needed to run a container.
type DockerClient interface {
	ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
}

// Handler consumes a running container's multiplexed output stream and
// resolves once the container exits.
type Handler func(bodyChan <-chan container.WaitResponse, errChan <-chan error, reader io.Reader) error

// Run starts containerID and demultiplexes its output to out and errOut
// until it exits. A non-zero exit status is returned as an error.
func Run(ctx context.Context, docker DockerClient, containerID string, out, errOut io.Writer) error {
	return RunWithHandler(ctx, docker, containerID, DefaultHandler(out, errOut))
}

// RunWithHandler starts containerID and hands its output stream to handler.
func RunWithHandler(ctx context.Context, docker DockerClient, containerID string, handler Handler) error {
	bodyChan, errChan := docker.ContainerWait(ctx, containerID, container.WaitConditionNextExit)

	if err := docker.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return errors.Wrap(err, "container start")
	}

	logs, err := docker.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return errors.Wrap(err, "container logs")
	}
	defer logs.Close()

	return handler(bodyChan, errChan, logs)
}

// DefaultHandler copies the stream to out and errOut and reports a non-zero
// exit as an error.
func DefaultHandler(out, errOut io.Writer) Handler {
	return func(bodyChan <-chan container.WaitResponse, errChan <-chan error, reader io.Reader) error {
		copyErr := make(chan error)
		go func() {
			_, err := stdcopy.StdCopy(out, errOut, reader)
			copyErr <- err
		}()

		select {
		case body := <-bodyChan:
			if body.StatusCode != 0 {
				return fmt.Errorf("failed with status code: %d", body.StatusCode)
			}
		case err := <-errChan:
			return err
		}
		return <-copyErr
	}
}
