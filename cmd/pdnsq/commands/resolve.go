package commands

import (
	"fmt"

	"pdnsq/internal/backend"
	"pdnsq/internal/backend/cof"
	"pdnsq/internal/backend/saf"
	"pdnsq/internal/cli/profile"
	"pdnsq/internal/config"
)

// backendSpec is the fully-resolved connection information for one backend,
// gathered from (in increasing precedence) the static config file, the
// interactive profile store, environment variables, and CLI overrides.
type backendSpec struct {
	Name   string
	Kind   string
	Server string
	APIKey string
}

// resolveBackendSpec picks a named backend's connection settings. name empty
// means "use whichever default is configured". serverOverride/apikeyOverride
// non-empty win over everything stored.
func resolveBackendSpec(cfg *config.Config, store *profile.Store, name, kindOverride, serverOverride, apikeyOverride string) (backendSpec, error) {
	spec := backendSpec{Name: name}

	if name == "" {
		if n, err := store.GetDefaultBackendName(); err == nil {
			name = n
		} else if cfg.DefaultBackend != "" {
			name = cfg.DefaultBackend
		}
		spec.Name = name
	}

	if name != "" {
		if b, err := store.GetBackend(name); err == nil {
			spec.Kind, spec.Server, spec.APIKey = b.Kind, b.Server, b.APIKey
		} else if bc, ok := cfg.Backends[name]; ok {
			spec.Kind, spec.Server, spec.APIKey = bc.Kind, bc.Server, bc.APIKey
		}
	}

	if spec.Kind == "" {
		spec.Kind = "saf"
	}
	if kindOverride != "" {
		spec.Kind = kindOverride
	}

	spec.Server = config.EnvOverride("DNSDB_SERVER", "PDNSQ_SERVER", spec.Server)
	spec.APIKey = config.EnvOverride("DNSDB_API_KEY", "PDNSQ_API_KEY", spec.APIKey)

	if serverOverride != "" {
		spec.Server = serverOverride
	}
	if apikeyOverride != "" {
		spec.APIKey = apikeyOverride
	}

	if spec.Server == "" {
		return spec, fmt.Errorf("no backend server configured; use -u NAME, 'pdnsq backend add', or --server")
	}

	if spec.Name == "" {
		spec.Name = "default"
	}

	return spec, nil
}

// buildBackend constructs the concrete backend.Backend adapter for a spec.
func buildBackend(spec backendSpec) (backend.Backend, error) {
	switch spec.Kind {
	case "cof":
		b := cof.New(spec.Name, spec.Server)
		if spec.APIKey != "" {
			if err := b.SetVal("apikey", spec.APIKey); err != nil {
				return nil, err
			}
		}
		return b, nil
	case "saf", "":
		b := saf.New(spec.Name, spec.Server)
		if spec.APIKey != "" {
			if err := b.SetVal("apikey", spec.APIKey); err != nil {
				return nil, err
			}
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend kind %q: want saf or cof", spec.Kind)
	}
}
