package commands

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/pkg/logging"
)

// CompletionCommand generates a shell completion script under the gantry
// home and outputs its location.
func CompletionCommand(logger logging.Logger) *cobra.Command {
	var shellType string

	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Outputs completion script location",
		Long: `Generates completion script and outputs its location.

To configure your bash shell to load completions for each session, add the following to your '.bashrc' or '.bash_profile':

	. $(gantry completion)
	`,
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			gantryHome, err := config.GantryHome()
			if err != nil {
				return errors.Wrap(err, "getting gantry home")
			}

			if err := config.MkdirAll(gantryHome); err != nil {
				return errors.Wrapf(err, "creating gantry home: %s", gantryHome)
			}
			completionPath := filepath.Join(gantryHome, "completion")

			switch shellType {
			case "bash":
				err = cmd.Parent().GenBashCompletionFile(completionPath)
			case "fish":
				err = cmd.Parent().GenFishCompletionFile(completionPath, true)
			case "powershell":
				err = cmd.Parent().GenPowerShellCompletionFile(completionPath)
			case "zsh":
				err = cmd.Parent().GenZshCompletionFile(completionPath)
			default:
				return errors.Errorf("%s is unsupported shell", shellType)
			}
			if err != nil {
				return err
			}

			logger.Info(completionPath)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&shellType, "shell", "s", "bash", "Generates completion file for [bash|fish|powershell|zsh]")
	return cmd
}
