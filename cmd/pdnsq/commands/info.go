package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pdnsq/internal/cli/output"
	"pdnsq/internal/cli/profile"
	"pdnsq/internal/config"
	"pdnsq/internal/engine"
	"pdnsq/internal/transport"
	"pdnsq/pkg/ttl"
)

var (
	infoBackendName string
	infoTimeout     string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the backend's rate-limit and account status",
	Long: `info issues the backend's degenerate "info" request (not a
line-demuxed query) and renders the reply as a key/value table.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoBackendName, "backend", "u", "", "named backend profile to use")
	infoCmd.Flags().StringVar(&infoTimeout, "timeout", "", "per-request HTTP timeout: bare seconds or a duration string like \"30s\"")
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	store, err := profile.NewStore()
	if err != nil {
		return fmt.Errorf("loading backend profiles: %w", err)
	}

	spec, err := resolveBackendSpec(cfg, store, infoBackendName, "", "", "")
	if err != nil {
		return err
	}
	b, err := buildBackend(spec)
	if err != nil {
		return err
	}

	timeout := cfg.Transport.Timeout
	raw := infoTimeout
	if raw == "" {
		raw = config.EnvOverride("DNSDB_TIMEOUT", "PDNSQ_TIMEOUT", "")
	}
	if raw != "" {
		secs, err := ttl.Parse(raw)
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		timeout = time.Duration(secs) * time.Second
	}

	tr := transport.New(transport.Options{
		Timeout:            timeout,
		InsecureSkipVerify: cfg.Transport.InsecureSkipVerify,
	})
	e := engine.New(b, tr)

	body, err := e.Info(context.Background())
	if err != nil {
		return err
	}

	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		_, werr := os.Stdout.Write(body)
		return werr
	}

	pairs := make([][2]string, 0, len(obj))
	for k, v := range obj {
		pairs = append(pairs, [2]string{k, fmt.Sprintf("%v", v)})
	}
	return output.SimpleTable(os.Stdout, pairs)
}
