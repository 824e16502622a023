package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"burncast/internal/project"
)

var exportProject string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a project from a JSON file",
	Long: `Reads a project file, validates it against the interchange schema, and
stores the project with its period history and productivity adjustments.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := project.ImportFile(args[0])
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		p := snap.Project
		p.ID = 0
		if err := store.CreateProject(ctx, &p); err != nil {
			return fmt.Errorf("create project %q: %w", p.Name, err)
		}
		if err := store.ReplacePeriods(ctx, p.ID, snap.Periods); err != nil {
			return err
		}
		if err := store.ReplaceAdjustments(ctx, p.ID, snap.Adjustments); err != nil {
			return err
		}

		log.Info().
			Str("project", p.Name).
			Int("periods", len(snap.Periods)).
			Int("adjustments", len(snap.Adjustments)).
			Msg("Project imported")
		fmt.Printf("Imported %q (%d periods)\n", p.Name, len(snap.Periods))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a stored project to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportProject == "" {
			return fmt.Errorf("--project is required")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		p, err := store.GetProjectByName(ctx, exportProject)
		if err != nil {
			return err
		}
		snap, err := project.LoadSnapshot(ctx, store, p.ID)
		if err != nil {
			return err
		}
		if err := project.ExportFile(args[0], *snap); err != nil {
			return err
		}

		fmt.Printf("Exported %q to %s\n", p.Name, args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportProject, "project", "p", "", "name of the stored project")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
