package client

import (
	"io"
	"os"

	cliconfig "github.com/docker/cli/cli/config"
	ctxdocker "github.com/docker/cli/cli/context/docker"
	ctxstore "github.com/docker/cli/cli/context/store"
	dockerClient "github.com/docker/docker/client"
	"github.com/pkg/errors"

	"github.com/gantry-build/gantry/internal/style"
)

// resolveDockerContextHost returns the daemon host recorded by the selected
// docker CLI context, or "" when the client's own environment resolution
// should apply. DOCKER_HOST always wins over the context, matching the
// docker CLI.
func resolveDockerContextHost() (string, error) {
	if os.Getenv(dockerClient.EnvOverrideHost) != "" {
		return "", nil
	}

	currentContext := os.Getenv("DOCKER_CONTEXT")
	if currentContext == "" {
		currentContext = cliconfig.LoadDefaultConfigFile(io.Discard).CurrentContext
	}
	if currentContext == "" || currentContext == "default" {
		return "", nil
	}

	st := ctxstore.New(cliconfig.ContextStoreDir(), ctxstore.NewConfig(
		func() interface{} { return &map[string]interface{}{} },
		ctxstore.EndpointTypeGetter(ctxdocker.DockerEndpoint, func() interface{} { return &ctxdocker.EndpointMeta{} }),
	))

	meta, err := st.GetMetadata(currentContext)
	if err != nil {
		return "", errors.Wrapf(err, "reading docker context %s", style.Symbol(currentContext))
	}

	endpoint, err := ctxdocker.EndpointFromContext(meta)
	if err != nil {
		return "", errors.Wrapf(err, "reading endpoint of docker context %s", style.Symbol(currentContext))
	}

	return endpoint.Host, nil
}
