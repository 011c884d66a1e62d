package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/lernpfad/internal/export"
)

func newExportCommand() *cobra.Command {
	var outputDir string
	exportCommand := &cobra.Command{
		Use:   "export <learner-id>",
		Short: "Write the learner's progress and vocabulary to YAML files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			learnerID, err := parseID(args[0], "learner id")
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			snapshot, err := export.NewExporter(db).Export(cmd.Context(), learnerID)
			if err != nil {
				return err
			}
			if err := export.NewYAMLSink(outputDir).WriteAll(snapshot, time.Now()); err != nil {
				return err
			}
			fmt.Printf("Exported %d vocabulary item(s) to %s.\n", len(snapshot.Vocabulary), outputDir)
			return nil
		},
	}
	exportCommand.Flags().StringVar(&outputDir, "output", "export", "output directory for the YAML files")
	return exportCommand
}
