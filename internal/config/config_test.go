package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"

	"github.com/gantry-build/gantry/internal/config"
	h "github.com/gantry-build/gantry/testhelpers"
)

func TestConfig(t *testing.T) {
	spec.Run(t, "Config", testConfig, spec.Sequential(), spec.Report(report.Terminal{}))
}

func testConfig(t *testing.T, when spec.G, it spec.S) {
	var (
		tmpDir     string
		configPath string
	)

	it.Before(func() {
		tmpDir = t.TempDir()
		configPath = filepath.Join(tmpDir, "config.toml")
	})

	when("#Read", func() {
		it("returns a default config when the file does not exist", func() {
			cfg, err := config.Read(filepath.Join(tmpDir, "not-exist.toml"))
			h.AssertNil(t, err)
			h.AssertEq(t, cfg, config.Config{})
		})

		it("errors when the file is malformed", func() {
			h.AssertNil(t, os.WriteFile(configPath, []byte("data"), 0600))
			_, err := config.Read(configPath)
			h.AssertNotNil(t, err)
			h.AssertErrorContains(t, err, "failed to read config file")
		})

		it("reads every field", func() {
			h.AssertNil(t, os.WriteFile(configPath, []byte(`
experimental = true
default-builder-image = "python:3.12"
default-base-image = "python:3.12-slim"
pull-policy = "if-not-present"

[registry-mirrors]
"index.docker.io" = "10.0.0.1"
`), 0600))
			cfg, err := config.Read(configPath)
			h.AssertNil(t, err)
			h.AssertEq(t, cfg, config.Config{
				Experimental:   true,
				DefaultBuilder: "python:3.12",
				DefaultBase:    "python:3.12-slim",
				PullPolicy:     "if-not-present",
				RegistryMirrors: map[string]string{
					"index.docker.io": "10.0.0.1",
				},
			})
		})
	})

	when("#Write", func() {
		it("creates missing directories", func() {
			configPath = filepath.Join(tmpDir, "sub", "dir", "config.toml")
			h.AssertNil(t, config.Write(config.Config{DefaultBuilder: "python:3.11"}, configPath))

			cfg, err := config.Read(configPath)
			h.AssertNil(t, err)
			h.AssertEq(t, cfg.DefaultBuilder, "python:3.11")
		})

		it("round-trips the config", func() {
			want := config.Config{
				DefaultBase: "python:3.11-slim",
				PullPolicy:  "never",
			}
			h.AssertNil(t, config.Write(want, configPath))

			got, err := config.Read(configPath)
			h.AssertNil(t, err)
			h.AssertEq(t, got, want)
		})
	})

	when("#GantryHome", func() {
		it("defaults under the user home", func() {
			t.Setenv("GANTRY_HOME", "")
			home, err := config.GantryHome()
			h.AssertNil(t, err)
			userHome, err := os.UserHomeDir()
			h.AssertNil(t, err)
			h.AssertEq(t, home, filepath.Join(userHome, ".gantry"))
		})

		it("honors GANTRY_HOME", func() {
			t.Setenv("GANTRY_HOME", tmpDir)
			home, err := config.GantryHome()
			h.AssertNil(t, err)
			h.AssertEq(t, home, tmpDir)

			path, err := config.DefaultConfigPath()
			h.AssertNil(t, err)
			h.AssertEq(t, path, filepath.Join(tmpDir, "config.toml"))
		})
	})
}
