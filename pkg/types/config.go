package types

import "errors"

// MaxAdministrators bounds the size of the administrator set.
const MaxAdministrators = 10

// Config holds backend selection and parameters for Backend.Attach.
type Config struct {
	Backend        string     `json:"backend" yaml:"backend"`
	DataDir        string     `json:"data_dir" yaml:"data_dir"`
	Administrators []Identity `json:"administrators" yaml:"administrators"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Config validation errors (prd002-sqlite-host R1.4).
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure. The administrator list follows
// the registry rules: 1 to MaxAdministrators entries, none zero.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if len(c.Administrators) == 0 {
		return ErrNoAdministrators
	}
	if len(c.Administrators) > MaxAdministrators {
		return ErrTooManyAdministrators
	}
	for _, id := range c.Administrators {
		if id.IsZero() {
			return ErrZeroAdministrator
		}
	}
	return nil
}
