package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Decron/SheetFire/internal/config"
	"github.com/Decron/SheetFire/internal/settings"
)

func configCmd() *cobra.Command {
	var settingsPath string
	var legacy bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit persisted push settings",
	}
	cmd.PersistentFlags().StringVar(&settingsPath, "settings", ".sheetfire.json", "persisted settings file")

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist one setting",
		Long: `Set writes one setting to the settings file. Keys: endpoint,
collection, idField, includeIdField. The secret cannot be persisted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := settings.OpenFile(settingsPath)
			if err != nil {
				return fmt.Errorf("open settings %s: %w", settingsPath, err)
			}
			scope := settings.ScopeSheet
			if legacy {
				scope = settings.ScopeLegacy
			}
			return st.Set(scope, args[0], args[1])
		},
	}
	set.Flags().BoolVar(&legacy, "legacy", false, "write to the legacy process-wide scope")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective push settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := settings.OpenFile(settingsPath)
			if err != nil {
				return fmt.Errorf("open settings %s: %w", settingsPath, err)
			}
			local, legacySnap := config.SnapshotsFromStore(st)
			eff := config.Resolve(local, legacySnap, "")

			fmt.Printf("endpoint:       %s\n", eff.Endpoint)
			fmt.Printf("collection:     %s\n", eff.Collection)
			fmt.Printf("idField:        %s\n", eff.IDField)
			fmt.Printf("includeIdField: %t\n", eff.IncludeIDField)
			return nil
		},
	}

	cmd.AddCommand(set, show)
	return cmd
}
