package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/buildpacks/imgutil"
	"github.com/dustin/go-humanize"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/pkg/errors"
	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/gantry-build/gantry/internal/build"
	"github.com/gantry-build/gantry/internal/container"
	"github.com/gantry-build/gantry/internal/paths"
	"github.com/gantry-build/gantry/internal/style"
	"github.com/gantry-build/gantry/internal/termui"
	"github.com/gantry-build/gantry/internal/vcs"
	"github.com/gantry-build/gantry/pkg/cache"
	"github.com/gantry-build/gantry/pkg/image"
	"github.com/gantry-build/gantry/pkg/manifest"
	"github.com/gantry-build/gantry/pkg/metadata"
	"github.com/gantry-build/gantry/pkg/project"
)

const (
	// DefaultBuilderImage runs the install stage when no builder is
	// configured anywhere.
	DefaultBuilderImage = "python:3.11"

	// DefaultModule is the uvicorn import string when none is configured.
	DefaultModule = "main:app"

	// DefaultPort is the container port when none is configured.
	DefaultPort = 8000

	// DefaultManifestName is resolved inside the app dir when no manifest
	// is given.
	DefaultManifestName = "requirements.txt"

	// defaultImagePath mirrors the PATH docker injects when an image
	// config does not set one.
	defaultImagePath = "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"
)

// BuildOptions describes configuration needed to build an app image.
type BuildOptions struct {
	// The full name of the output image, required.
	Image string

	// Path of the application source directory.
	// Defaults to current working directory.
	AppPath string

	// Path or URL of the requirements manifest.
	// Defaults to requirements.txt inside AppPath.
	ManifestPath string

	// ASGI import string launched by uvicorn, in MODULE:ATTRIBUTE form.
	// Defaults to the descriptor value, then main:app.
	Module string

	// Container port uvicorn binds inside the image.
	// Defaults to the descriptor value, then 8000.
	Port int

	// Builder image the install stage runs in.
	// Defaults to the descriptor value, then python:3.11.
	Builder string

	// BaseImage of the output image.
	// Defaults to the descriptor value, then python:<minor>-slim derived
	// from the builder's interpreter.
	BaseImage string

	// Env is baked into the image and visible to pip during install.
	Env map[string]string

	// Descriptor is the parsed project descriptor, zero when none exists.
	Descriptor project.Descriptor

	// Publish saves the image to a registry instead of the daemon.
	Publish bool

	// PullPolicy for the builder and base images.
	PullPolicy image.PullPolicy

	// ClearCache discards cached dependency layers before the build.
	ClearCache bool

	// Platform is os[/arch] of the output image.
	Platform string

	// Network mode of the installer container.
	Network string

	// Interactive shows the build dashboard. Experimental.
	Interactive bool
}

// Build installs the manifest's packages in a builder container and
// assembles the result, together with the app source, onto the base image.
func (c *Client) Build(ctx context.Context, opts BuildOptions) error {
	if opts.Interactive && !c.experimental {
		return NewExperimentError("interactive mode is currently experimental")
	}

	if _, err := c.parseTagReference(opts.Image); err != nil {
		return errors.Wrapf(err, "invalid image name '%s'", opts.Image)
	}

	if opts.Platform != "" {
		if _, err := image.ParsePlatform(opts.Platform); err != nil {
			return err
		}
	}

	appPath, err := c.processAppPath(opts.AppPath)
	if err != nil {
		return errors.Wrapf(err, "invalid app path '%s'", opts.AppPath)
	}

	module := resolveModule(opts)
	port := resolvePort(opts)

	c.logger.Info(style.Step("RESOLVING"))

	manifestPath, err := resolveManifestPath(opts, appPath)
	if err != nil {
		return err
	}
	mft, err := c.acquireManifest(ctx, manifestPath)
	if err != nil {
		return err
	}

	if len(mft.Requirements) == 0 {
		c.logger.Warnf("Manifest %s declares no packages", style.Symbol(mft.Path))
	}
	for _, pkg := range mft.Duplicates() {
		c.logger.Warnf("Package %s appears more than once in %s", style.Symbol(pkg), style.Symbol(mft.Path))
	}
	if !mft.HasPackage("uvicorn") {
		c.logger.Warnf("Manifest %s does not declare %s, the app image may fail to start", style.Symbol(mft.Path), style.Symbol("uvicorn"))
	}

	builderName := opts.Builder
	if builderName == "" {
		builderName = opts.Descriptor.Build.Builder
	}
	if builderName == "" {
		builderName = DefaultBuilderImage
	}

	baseName := opts.BaseImage
	if baseName == "" {
		baseName = opts.Descriptor.Build.BaseImage
	}

	fetchOptions := image.FetchOptions{
		Daemon:     true,
		Platform:   opts.Platform,
		PullPolicy: opts.PullPolicy,
	}

	var (
		builderImage imgutil.Image
		baseImage    imgutil.Image
	)
	if baseName != "" {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if builderImage, err = c.imageFetcher.Fetch(gctx, builderName, fetchOptions); err != nil {
				return errors.Wrapf(err, "fetching builder image %s", style.Symbol(builderName))
			}
			return nil
		})
		g.Go(func() error {
			var err error
			baseImage, err = c.fetchBaseImage(gctx, baseName, opts)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		if builderImage, err = c.imageFetcher.Fetch(ctx, builderName, fetchOptions); err != nil {
			return errors.Wrapf(err, "fetching builder image %s", style.Symbol(builderName))
		}
	}

	pythonVersion, err := c.installer.PythonVersion(ctx, builderImage.Name(), opts.Platform)
	if err != nil {
		return err
	}
	c.logger.Debugf("Builder %s provides python %s", style.Symbol(builderImage.Name()), style.Symbol(pythonVersion))

	if constraint := opts.Descriptor.Run.Python; constraint != "" {
		if err := checkPythonConstraint(pythonVersion, constraint); err != nil {
			return err
		}
	}

	// The base can only be derived once the builder's interpreter is known.
	if baseImage == nil {
		baseName = fmt.Sprintf("python:%s-slim", pythonMinor(pythonVersion))
		c.logger.Debugf("Using base image %s", style.Symbol(baseName))
		if baseImage, err = c.fetchBaseImage(ctx, baseName, opts); err != nil {
			return err
		}
	}

	basePython, err := baseImage.Env("PYTHON_VERSION")
	if err != nil {
		return errors.Wrap(err, "reading base image env")
	}
	if basePython != "" && pythonMinor(basePython) != pythonMinor(pythonVersion) {
		c.logger.Warnf("Base image python %s does not match builder python %s", style.Symbol(basePython), style.Symbol(pythonVersion))
	}

	c.logger.Info(style.Step("INSTALLING"))

	builderID, err := builderImage.Identifier()
	if err != nil {
		return errors.Wrap(err, "reading builder image identifier")
	}

	key := cache.Key{
		ManifestDigest: mft.Digest().String(),
		BuilderImage:   builderID.String(),
		Platform:       opts.Platform,
		PythonVersion:  pythonVersion,
	}

	if opts.ClearCache {
		if err := c.depsCache.Clear(); err != nil {
			return errors.Wrap(err, "clearing dependency cache")
		}
		c.logger.Debug("Dependency cache cleared")
	}

	env := buildEnv(opts)
	if len(env) > 0 {
		c.logger.Debugf("Using build env %s", style.Map(env, "", " "))
	}

	entry, found, err := c.depsCache.Lookup(key)
	if err != nil {
		return errors.Wrap(err, "reading dependency cache")
	}
	if found {
		c.logger.Infof("Reusing dependency layer %s", style.Symbol(entry.DiffID))
	} else {
		args := installArgs{
			builderImage: builderImage.Name(),
			manifest:     mft,
			env:          env,
			platform:     opts.Platform,
			network:      opts.Network,
			key:          key,
		}
		if opts.Interactive {
			t := termui.NewTermui(opts.Image, builderImage.Name(), baseImage.Name())
			args.handler = t.Handler()
			var installErr error
			if err := t.Run(func() {
				entry, installErr = c.installDeps(ctx, args)
			}); err != nil {
				return err
			}
			err = installErr
		} else {
			entry, err = c.installDeps(ctx, args)
		}
		if err != nil {
			return err
		}
		c.logger.Infof("Installed dependency layer %s (%s)", style.Symbol(entry.DiffID), humanize.Bytes(uint64(entry.Bytes)))
	}

	c.logger.Info(style.Step("EXPORTING"))

	appImage, err := c.imageFactory.NewImage(opts.Image, !opts.Publish, baseImage.Name(), opts.Platform)
	if err != nil {
		return errors.Wrap(err, "creating app image")
	}

	tmpDir, err := os.MkdirTemp("", "gantry.build.")
	if err != nil {
		return errors.Wrap(err, "creating temp dir")
	}
	defer os.RemoveAll(tmpDir)

	appTar := filepath.Join(tmpDir, "app.tar")
	appDiffID, err := build.WriteAppLayer(appPath, appTar, getFileFilter(opts.Descriptor))
	if err != nil {
		return errors.Wrap(err, "creating app layer")
	}

	if err := appImage.AddLayerWithDiffID(entry.LayerTarPath, entry.DiffID); err != nil {
		return errors.Wrap(err, "adding dependency layer")
	}
	if err := appImage.AddLayerWithDiffID(appTar, appDiffID); err != nil {
		return errors.Wrap(err, "adding app layer")
	}

	for _, k := range sortedKeys(env) {
		if err := appImage.SetEnv(k, env[k]); err != nil {
			return errors.Wrapf(err, "setting env %s", style.Symbol(k))
		}
	}

	basePath, err := baseImage.Env("PATH")
	if err != nil {
		return errors.Wrap(err, "reading base image env")
	}
	if basePath == "" {
		basePath = defaultImagePath
	}

	runtimeEnv := map[string]string{
		"PYTHONUNBUFFERED":        "1",
		"PYTHONDONTWRITEBYTECODE": "1",
		"PYTHONPATH":              fmt.Sprintf("%s/lib/python%s/site-packages", build.DepsPrefix, pythonMinor(pythonVersion)),
		"PATH":                    fmt.Sprintf("%s/bin:%s", build.DepsPrefix, basePath),
	}
	for _, k := range sortedKeys(runtimeEnv) {
		if err := appImage.SetEnv(k, runtimeEnv[k]); err != nil {
			return errors.Wrapf(err, "setting env %s", style.Symbol(k))
		}
	}

	if err := appImage.SetWorkingDir(build.Workspace); err != nil {
		return errors.Wrap(err, "setting working dir")
	}
	if err := appImage.SetEntrypoint("python", "-m", "uvicorn", module, "--host", "0.0.0.0", "--port", strconv.Itoa(port)); err != nil {
		return errors.Wrap(err, "setting entrypoint")
	}
	if err := appImage.SetCmd(); err != nil {
		return errors.Wrap(err, "setting cmd")
	}

	vcsInfo, err := vcs.Describe(appPath)
	if err != nil {
		c.logger.Debugf("Unable to read version control info: %s", err)
	}

	baseID, err := baseImage.Identifier()
	if err != nil {
		return errors.Wrap(err, "reading base image identifier")
	}
	baseTopLayer, err := baseImage.TopLayer()
	if err != nil {
		return errors.Wrap(err, "reading base image top layer")
	}

	md := metadata.Metadata{
		App: metadata.App{
			Module: module,
			Port:   port,
			Commit: vcsInfo.Commit,
			Dirty:  vcsInfo.Dirty,
		},
		Python: metadata.Python{Version: pythonVersion},
		Deps: metadata.Deps{
			ManifestDigest: mft.Digest().String(),
			LayerDiffID:    entry.DiffID,
			Packages:       entry.Packages,
		},
		Builder: metadata.Builder{Image: builderImage.Name()},
		Base: metadata.Base{
			Image:     baseImage.Name(),
			Reference: baseID.String(),
			TopLayer:  baseTopLayer,
		},
		Gantry: metadata.Gantry{Version: c.version},
	}
	if err := metadata.ToLabel(appImage, md); err != nil {
		return err
	}

	if err := appImage.Save(); err != nil {
		return errors.Wrapf(err, "saving image %s", style.Symbol(opts.Image))
	}

	return nil
}

func (c *Client) parseTagReference(imageName string) (name.Reference, error) {
	if imageName == "" {
		return nil, errors.New("image is a required parameter")
	}
	if _, err := name.ParseReference(imageName, name.WeakValidation); err != nil {
		return nil, err
	}
	ref, err := name.NewTag(imageName, name.WeakValidation)
	if err != nil {
		return nil, errors.Errorf("%s is not a tag reference", style.Symbol(imageName))
	}

	return ref, nil
}

func (c *Client) processAppPath(appPath string) (string, error) {
	var (
		resolvedAppPath string
		err             error
	)

	if appPath == "" {
		if appPath, err = os.Getwd(); err != nil {
			return "", errors.Wrap(err, "get working dir")
		}
	}

	if resolvedAppPath, err = filepath.EvalSymlinks(appPath); err != nil {
		return "", errors.Wrap(err, "evaluate symlink")
	}

	if resolvedAppPath, err = filepath.Abs(resolvedAppPath); err != nil {
		return "", errors.Wrap(err, "resolve absolute path")
	}

	fi, err := os.Stat(resolvedAppPath)
	if err != nil {
		return "", errors.Wrap(err, "stat file")
	}

	if !fi.IsDir() {
		return "", errors.New("app path must be a directory")
	}

	return resolvedAppPath, nil
}

func (c *Client) acquireManifest(ctx context.Context, path string) (manifest.Manifest, error) {
	manifestBlob, err := c.downloader.Download(ctx, path)
	if err != nil {
		return manifest.Manifest{}, errors.Wrapf(err, "acquiring manifest %s", style.Symbol(path))
	}

	rc, err := manifestBlob.Open()
	if err != nil {
		return manifest.Manifest{}, errors.Wrapf(err, "reading manifest %s", style.Symbol(path))
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return manifest.Manifest{}, errors.Wrapf(err, "reading manifest %s", style.Symbol(path))
	}

	return manifest.Parse(path, raw)
}

func (c *Client) fetchBaseImage(ctx context.Context, baseName string, opts BuildOptions) (imgutil.Image, error) {
	if !c.accessChecker.Check(baseName, opts.Publish) {
		return nil, errors.Errorf("base image %s is not accessible", style.Symbol(baseName))
	}

	baseImage, err := c.imageFetcher.Fetch(ctx, baseName, image.FetchOptions{
		Daemon:     !opts.Publish,
		Platform:   opts.Platform,
		PullPolicy: opts.PullPolicy,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching base image %s", style.Symbol(baseName))
	}

	return baseImage, nil
}

type installArgs struct {
	builderImage string
	manifest     manifest.Manifest
	env          map[string]string
	platform     string
	network      string
	key          cache.Key
	handler      container.Handler
}

func (c *Client) installDeps(ctx context.Context, args installArgs) (cache.Entry, error) {
	stagingPath, err := c.depsCache.StagingPath(args.key)
	if err != nil {
		return cache.Entry{}, errors.Wrap(err, "staging dependency layer")
	}
	defer os.Remove(stagingPath)

	result, err := c.installer.Install(ctx, build.InstallOptions{
		BuilderImage: args.builderImage,
		Manifest:     args.manifest,
		Env:          args.env,
		Platform:     args.platform,
		Network:      args.network,
		DestPath:     stagingPath,
		Handler:      args.handler,
	})
	if err != nil {
		return cache.Entry{}, err
	}

	entry, err := c.depsCache.Commit(args.key, stagingPath, cache.Entry{
		DiffID:   result.DiffID,
		Bytes:    result.Bytes,
		Packages: args.manifest.PackageNames(),
	})
	if err != nil {
		return cache.Entry{}, errors.Wrap(err, "caching dependency layer")
	}

	return entry, nil
}

func resolveModule(opts BuildOptions) string {
	if opts.Module != "" {
		return opts.Module
	}
	if opts.Descriptor.App.Module != "" {
		return opts.Descriptor.App.Module
	}
	return DefaultModule
}

func resolvePort(opts BuildOptions) int {
	if opts.Port != 0 {
		return opts.Port
	}
	if opts.Descriptor.App.Port != 0 {
		return opts.Descriptor.App.Port
	}
	return DefaultPort
}

// resolveManifestPath keeps flag-supplied paths as given, while descriptor
// paths resolve relative to the app dir the descriptor lives in.
func resolveManifestPath(opts BuildOptions, appPath string) (string, error) {
	switch {
	case opts.ManifestPath != "":
		return opts.ManifestPath, nil
	case opts.Descriptor.App.Manifest != "":
		manifestPath := opts.Descriptor.App.Manifest
		if paths.IsURI(manifestPath) {
			return manifestPath, nil
		}
		return paths.FilePathToURI(manifestPath, appPath)
	default:
		return filepath.Join(appPath, DefaultManifestName), nil
	}
}

func buildEnv(opts BuildOptions) map[string]string {
	env := map[string]string{}
	for _, envVar := range opts.Descriptor.Build.Env {
		env[envVar.Name] = envVar.Value
	}
	for k, v := range opts.Env {
		env[k] = v
	}
	return env
}

func getFileFilter(descriptor project.Descriptor) func(string) bool {
	if len(descriptor.Build.Exclude) > 0 {
		excludes := ignore.CompileIgnoreLines(descriptor.Build.Exclude...)
		return func(fileName string) bool {
			return !excludes.MatchesPath(fileName)
		}
	}
	if len(descriptor.Build.Include) > 0 {
		includes := ignore.CompileIgnoreLines(descriptor.Build.Include...)
		return includes.MatchesPath
	}

	return nil
}

func checkPythonConstraint(version, constraint string) error {
	cons, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid python constraint %s", style.Symbol(constraint))
	}

	ver, err := semver.NewVersion(version)
	if err != nil {
		return errors.Wrapf(err, "parsing python version %s", style.Symbol(version))
	}

	if !cons.Check(ver) {
		return errors.Errorf("builder python %s does not satisfy constraint %s", style.Symbol(version), style.Symbol(constraint))
	}

	return nil
}

func pythonMinor(version string) string {
	parts := strings.SplitN(version, ".", 3)
	if len(parts) < 2 {
		return version
	}
	return parts[0] + "." + parts[1]
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
