package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"runtime"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/gantry-build/gantry/internal/config"
	"github.com/gantry-build/gantry/pkg/logging"
)

// Report displays useful information for reporting an issue.
func Report(logger logging.Logger, version string) *cobra.Command {
	var explicit bool

	cmd := &cobra.Command{
		Use:   "report",
		Args:  cobra.NoArgs,
		Short: "Display useful information for reporting an issue",
		RunE: logError(logger, func(cmd *cobra.Command, args []string) error {
			var buf bytes.Buffer
			err := generateOutput(&buf, version, explicit)
			if err != nil {
				return err
			}

			logger.Info(buf.String())

			return nil
		}),
	}

	cmd.Flags().BoolVarP(&explicit, "explicit", "e", false, "Print config without redacting information")
	AddHelpFlag(cmd, "report")
	return cmd
}

func generateOutput(writer io.Writer, version string, explicit bool) error {
	tpl := template.Must(template.New("").Parse(`Gantry:
  Version:  {{ .Version }}
  OS/Arch:  {{ .OS }}/{{ .Arch }}

Config:
{{ .Config -}}`))

	configData := ""
	if path, err := config.DefaultConfigPath(); err != nil {
		configData = fmt.Sprintf("(error: %s)", err.Error())
	} else if data, err := os.ReadFile(path); err != nil {
		configData = fmt.Sprintf("(no config file found at %s)", path)
	} else {
		var padded strings.Builder

		for _, line := range strings.Split(string(data), "\n") {
			if !explicit {
				line = sanitize(line)
			}
			_, _ = fmt.Fprintf(&padded, "  %s\n", line)
		}
		configData = strings.TrimRight(padded.String(), " \n")
	}

	return tpl.Execute(writer, map[string]string{
		"Version": version,
		"OS":      runtime.GOOS,
		"Arch":    runtime.GOARCH,
		"Config":  configData,
	})
}

var mirrorValue = regexp.MustCompile(`=\s*".*"`)

// sanitize redacts values that may name hosts inside a private network.
func sanitize(line string) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, `"`) || strings.HasPrefix(trimmed, "default-builder-image") || strings.HasPrefix(trimmed, "default-base-image") {
		return mirrorValue.ReplaceAllString(line, `= "[REDACTED]"`)
	}

	return line
}
