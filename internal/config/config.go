package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

type Config struct {
	Experimental    bool              `toml:"experimental,omitempty"`
	DefaultBuilder  string            `toml:"default-builder-image,omitempty"`
	DefaultBase     string            `toml:"default-base-image,omitempty"`
	PullPolicy      string            `toml:"pull-policy,omitempty"`
	RegistryMirrors map[string]string `toml:"registry-mirrors,omitempty"`
}

func DefaultConfigPath() (string, error) {
	home, err := GantryHome()
	if err != nil {
		return "", errors.Wrap(err, "getting gantry home")
	}

	return filepath.Join(home, "config.toml"), nil
}

func GantryHome() (string, error) {
	gantryHome := os.Getenv("GANTRY_HOME")
	if gantryHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "getting user home")
		}
		gantryHome = filepath.Join(home, ".gantry")
	}

	return gantryHome, nil
}

func Read(path string) (Config, error) {
	cfg := Config{}
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "failed to read config file at path %s", path)
	}

	return cfg, nil
}

func Write(cfg Config, path string) error {
	if err := MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	return toml.NewEncoder(w).Encode(cfg)
}

func MkdirAll(path string) error {
	return os.MkdirAll(path, 0750)
}
