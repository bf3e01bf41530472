package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the active question catalog as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		config, err := getConfig()
		if err != nil {
			return fmt.Errorf("getting a config: %w", err)
		}

		catalog, err := loadCatalog(config)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(catalog)
		if err != nil {
			return fmt.Errorf("encoding catalog: %w", err)
		}

		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			log.Printf("writing catalog: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
}
