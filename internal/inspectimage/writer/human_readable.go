package writer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/gantry-build/gantry/internal/inspectimage"
	"github.com/gantry-build/gantry/internal/stringset"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/pkg/client"
	"github.com/gantry-build/gantry/pkg/logging"
)

type HumanReadable struct{}

func NewHumanReadable() *HumanReadable {
	return &HumanReadable{}
}

func (h *HumanReadable) Print(
	logger logging.Logger,
	generalInfo inspectimage.GeneralInfo,
	local, remote *client.ImageInfo,
	localErr, remoteErr error,
) error {
	if local == nil && remote == nil {
		return fmt.Errorf("unable to find image '%s' locally or remotely", generalInfo.Name)
	}

	localDisplay := inspectimage.NewInfoDisplay(local, generalInfo)
	remoteDisplay := inspectimage.NewInfoDisplay(remote, generalInfo)

	logger.Infof("Inspecting image: %s\n", style.Symbol(generalInfo.Name))

	logger.Info("\nREMOTE:\n")
	if err := writeImageInfo(logger, remoteDisplay, remoteErr); err != nil {
		return fmt.Errorf("writing remote image info: %w", err)
	}
	logger.Info("\nLOCAL:\n")
	if err := writeImageInfo(logger, localDisplay, localErr); err != nil {
		return fmt.Errorf("writing local image info: %w", err)
	}

	warnPackageDrift(logger, local, remote)

	return nil
}

// warnPackageDrift flags a local image whose dependency set has diverged
// from the published one, which usually means a push was forgotten.
func warnPackageDrift(logger logging.Logger, local, remote *client.ImageInfo) {
	if local == nil || remote == nil {
		return
	}

	localOnly, remoteOnly, _ := stringset.Compare(local.Packages, remote.Packages)
	sort.Strings(localOnly)
	sort.Strings(remoteOnly)

	if len(localOnly) > 0 {
		logger.Warnf("Packages only in the local image: %s", strings.Join(localOnly, ", "))
	}
	if len(remoteOnly) > 0 {
		logger.Warnf("Packages only in the remote image: %s", strings.Join(remoteOnly, ", "))
	}
}

func writeImageInfo(
	logger logging.Logger,
	info *inspectimage.InfoDisplay,
	err error,
) error {
	imgTpl := template.Must(template.New("image").
		Funcs(template.FuncMap{"StringsJoin": strings.Join}).
		Funcs(template.FuncMap{"DashOrValue": dashOrValue}).
		Parse(imageTemplate))
	if err != nil {
		logger.Errorf("%s\n", err)
		return nil
	}

	if info == nil {
		logger.Info("(not present)\n")
		return nil
	}

	out, err := inspectImageOutput(info, imgTpl)
	if err != nil {
		logger.Error(err.Error())
	} else {
		logger.Info(out.String())
	}
	return nil
}

func dashOrValue(str string) string {
	if str == "" {
		return "-"
	}

	return str
}

func inspectImageOutput(info *inspectimage.InfoDisplay, tpl *template.Template) (*bytes.Buffer, error) {
	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 0, 8, ' ', 0)
	defer func() {
		tw.Flush()
	}()
	if err := tpl.Execute(tw, &struct {
		Info *inspectimage.InfoDisplay
	}{
		info,
	}); err != nil {
		return bytes.NewBuffer(nil), err
	}

	return buf, nil
}

var imageTemplate = `
App:
  Module:	{{ .Info.Module }}
  Port:	{{ .Info.Port }}
{{- if .Info.Source.Commit }}
  Commit:	{{ .Info.Source.Commit }}{{ if .Info.Source.Dirty }} (dirty){{ end }}
{{- end }}

Python Version: {{ DashOrValue .Info.PythonVersion }}

Builder: {{ DashOrValue .Info.Builder }}

Base Image:
  Image:	{{ DashOrValue .Info.Base.Image }}
  Reference:	{{ DashOrValue .Info.Base.Reference }}
  Top Layer:	{{ DashOrValue .Info.Base.TopLayer }}

Dependencies:
  Manifest Digest:	{{ DashOrValue .Info.Deps.ManifestDigest }}
{{- if .Info.Deps.Packages }}
  Packages:
{{- range $_, $p := .Info.Deps.Packages }}
    {{ $p }}
{{- end }}
{{- else }}
  Packages:	(none)
{{- end }}

Created By:	gantry {{ DashOrValue .Info.GantryVersion }}`
