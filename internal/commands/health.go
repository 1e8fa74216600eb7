package commands

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/bioctools/corpusload/internal/database"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check store connectivity",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	rt, err := setup(false)
	if err != nil {
		return err
	}
	defer rt.close()

	result := database.CheckHealth(rt.cfg, rt.db)
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(output))

	if result.Status != "healthy" {
		return errors.New(result.ErrorMessage)
	}
	return nil
}
