package writer

import (
	"fmt"

	"github.com/gantry-build/gantry/internal/inspectimage"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/logging"
)

// StructuredFormat implements Print for any marshalable output format.
type StructuredFormat struct {
	MarshalFunc func(interface{}) ([]byte, error)
}

func (w *StructuredFormat) Print(
	logger logging.Logger,
	generalInfo inspectimage.GeneralInfo,
	local, remote *client.ImageInfo,
	localErr, remoteErr error,
) error {
	if local == nil && remote == nil {
		return fmt.Errorf("unable to find image '%s' locally or remotely", generalInfo.Name)
	}
	if localErr != nil {
		return fmt.Errorf("preparing output for %s: %w", style.Symbol(generalInfo.Name), localErr)
	}
	if remoteErr != nil {
		return fmt.Errorf("preparing output for %s: %w", style.Symbol(generalInfo.Name), remoteErr)
	}

	localInfo := inspectimage.NewInfoDisplay(local, generalInfo)
	remoteInfo := inspectimage.NewInfoDisplay(remote, generalInfo)

	out, err := w.MarshalFunc(inspectimage.InspectOutput{
		ImageName: generalInfo.Name,
		Remote:    remoteInfo,
		Local:     localInfo,
	})
	if err != nil {
		return fmt.Errorf("marshalling image info: %w", err)
	}

	_, err = logger.Writer().Write(out)
	return err
}
