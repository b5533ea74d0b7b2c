package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pdnsq/internal/cli/output"
	"pdnsq/internal/cli/profile"
	"pdnsq/internal/cli/prompt"
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Manage named backend profiles",
}

var backendAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add or update a backend profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackendAdd,
}

var backendUseCmd = &cobra.Command{
	Use:   "use NAME",
	Short: "Set the default backend profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackendUse,
}

var backendListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured backend profiles",
	RunE:  runBackendList,
}

var backendRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Remove a backend profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackendRemove,
}

var (
	backendAddKind   string
	backendAddServer string
	backendAddAPIKey string
)

func init() {
	backendAddCmd.Flags().StringVar(&backendAddKind, "kind", "", "backend kind: saf or cof (prompted if omitted)")
	backendAddCmd.Flags().StringVar(&backendAddServer, "server", "", "backend server URL (prompted if omitted)")
	backendAddCmd.Flags().StringVar(&backendAddAPIKey, "apikey", "", "backend API key (prompted if omitted, saf only)")

	backendCmd.AddCommand(backendAddCmd, backendUseCmd, backendListCmd, backendRemoveCmd)
}

func runBackendAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := profile.NewStore()
	if err != nil {
		return fmt.Errorf("loading backend profiles: %w", err)
	}

	kind := backendAddKind
	if kind == "" {
		kind, err = prompt.SelectString("Backend kind", []string{"saf", "cof"})
		if err != nil {
			return err
		}
	}

	server := backendAddServer
	if server == "" {
		server, err = prompt.InputRequired("Server URL")
		if err != nil {
			return err
		}
	}

	apikey := backendAddAPIKey
	if apikey == "" && kind == "saf" {
		apikey, err = prompt.Password("API key")
		if err != nil {
			return err
		}
	}

	if err := store.SetBackend(name, &profile.Backend{Kind: kind, Server: server, APIKey: apikey}); err != nil {
		return fmt.Errorf("saving backend profile: %w", err)
	}

	output.DefaultPrinter().Success(fmt.Sprintf("backend profile %q saved", name))
	return nil
}

func runBackendUse(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := profile.NewStore()
	if err != nil {
		return fmt.Errorf("loading backend profiles: %w", err)
	}
	if _, err := store.GetBackend(name); err != nil {
		return fmt.Errorf("backend profile %q: %w", name, err)
	}
	if err := store.UseBackend(name); err != nil {
		return fmt.Errorf("setting default backend: %w", err)
	}

	output.DefaultPrinter().Success(fmt.Sprintf("default backend set to %q", name))
	return nil
}

func runBackendList(cmd *cobra.Command, args []string) error {
	store, err := profile.NewStore()
	if err != nil {
		return fmt.Errorf("loading backend profiles: %w", err)
	}

	def, _ := store.GetDefaultBackendName()

	table := output.NewTableData("NAME", "KIND", "SERVER", "DEFAULT")
	for _, name := range store.ListBackends() {
		b, err := store.GetBackend(name)
		if err != nil {
			continue
		}
		isDefault := ""
		if name == def {
			isDefault = "*"
		}
		table.AddRow(name, b.Kind, b.Server, isDefault)
	}

	return output.PrintTable(os.Stdout, table)
}

func runBackendRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	store, err := profile.NewStore()
	if err != nil {
		return fmt.Errorf("loading backend profiles: %w", err)
	}

	ok, err := prompt.Confirm(fmt.Sprintf("Remove backend profile %q?", name), false)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := store.DeleteBackend(name); err != nil {
		return fmt.Errorf("removing backend profile: %w", err)
	}

	output.DefaultPrinter().Success(fmt.Sprintf("backend profile %q removed", name))
	return nil
}
