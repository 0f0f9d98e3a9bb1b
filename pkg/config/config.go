// Package config loads the Custos configuration file.
// Implements: prd003-configuration-directories (R1 config file, R5
// loading precedence); docs/ARCHITECTURE § Configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ledgerforge/custos/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyAdministrators = "administrators"

	defaultBackend = types.BackendSQLite
)

// defaultConfigYAML is the content written to config.yaml on first run.
// The administrator list is deliberately left empty: the operator must
// name at least one identity before the backend will attach.
const defaultConfigYAML = `# Custos registry configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by CUSTOS_DATA_DIR)
# data_dir:

# Administrator identities, 1 to 10 entries. Fixed once the registry
# database is created.
administrators: []
`

// Load reads config.yaml from the config directory using Viper and
// returns a types.Config ready for Backend.Attach. It creates the
// config directory and a default config.yaml on first run. The
// returned config is NOT validated; callers validate at Attach so a
// half-written file fails in one place.
func Load(configDir string) (types.Config, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
		// A missing config.yaml is not an error; defaults apply.
	}

	cfg := types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: v.GetString(cfgKeyDataDir),
	}
	for _, id := range v.GetStringSlice(cfgKeyAdministrators) {
		cfg.Administrators = append(cfg.Administrators, types.Identity(id))
	}
	return cfg, nil
}

// configFile is the structure written to config.yaml by Write.
type configFile struct {
	Backend        string   `yaml:"backend"`
	DataDir        string   `yaml:"data_dir,omitempty"`
	Administrators []string `yaml:"administrators"`
}

// Write persists a config.yaml for the given configuration,
// overwriting any existing file. Hosts that bootstrap a registry
// programmatically use this to pin the administrator set they seeded.
func Write(configDir string, cfg types.Config) error {
	if err := ensureConfigDir(configDir); err != nil {
		return fmt.Errorf("ensure config dir: %w", err)
	}

	out := configFile{
		Backend: cfg.Backend,
		DataDir: cfg.DataDir,
	}
	for _, id := range cfg.Administrators {
		out.Administrators = append(out.Administrators, string(id))
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(configDir, configFileExt), data, 0o644)
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file
// does not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
