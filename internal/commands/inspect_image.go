package commands

import (
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/internal/inspectimage"
	"github.com/gantry-build/gantry/pkg/logging"
)

// InspectImageWriterFactory constructs a writer for the requested output
// format.
type InspectImageWriterFactory interface {
	Writer(kind string) (inspectimage.InspectImageWriter, error)
}

// InspectImage shows the gantry metadata recorded on a built image, as seen
// from the daemon and from the registry.
func InspectImage(logger logging.Logger, writerFactory InspectImageWriterFactory, cfg config.Config, gantryClient GantryClient) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "inspect <image-name>",
		Args:  cobra.ExactArgs(1),
		Short: "Show information about a built app image",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			img := args[0]

			sharedImageInfo := inspectimage.GeneralInfo{
				Name: img,
			}
			remote, remoteErr := gantryClient.InspectImage(img, false)
			local, localErr := gantryClient.InspectImage(img, true)

			w, err := writerFactory.Writer(format)
			if err != nil {
				return err
			}
			return w.Print(logger, sharedImageInfo, local, remote, localErr, remoteErr)
		}),
	}
	AddHelpFlag(cmd, "inspect")
	cmd.Flags().StringVarP(&format, "output", "o", "human-readable", "Output format to display image information (json, yaml, toml, human-readable)")
	return cmd
}
