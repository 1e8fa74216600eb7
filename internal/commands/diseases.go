package commands

import (
	"github.com/spf13/cobra"

	"github.com/bioctools/corpusload/internal/diseases"
)

var diseasesReplace bool

var diseasesCmd = &cobra.Command{
	Use:   "diseases",
	Short: "Manage the auxiliary disease vocabulary dataset",
}

var diseasesLoadCmd = &cobra.Command{
	Use:   "load FILE",
	Short: "Load a tab-delimited disease vocabulary file",
	Long: `Loads a tab-delimited vocabulary file (at least 4 columns per line;
column 3 the vocabulary identifier with an optional prefix, column 4 the
display text). Malformed lines are skipped and counted; duplicate
(id, text) pairs are skipped at the store.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiseasesLoad,
}

var diseasesCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Report the number of stored vocabulary records",
	Args:  cobra.NoArgs,
	RunE:  runDiseasesCount,
}

func init() {
	diseasesLoadCmd.Flags().BoolVar(&diseasesReplace, "replace", false,
		"delete all existing vocabulary records before loading")
	diseasesCmd.AddCommand(diseasesLoadCmd)
	diseasesCmd.AddCommand(diseasesCountCmd)
	rootCmd.AddCommand(diseasesCmd)
}

func runDiseasesLoad(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	if diseasesReplace {
		if err := rt.store.DeleteAllDiseaseTerms(ctx); err != nil {
			return err
		}
	}

	summary, err := diseases.New(rt.store, rt.log, rt.cfg.VocabBatchSize).LoadFile(ctx, args[0])
	if err != nil {
		return err
	}

	cmd.Printf("lines: %d, valid: %d, invalid: %d\n", summary.Lines, summary.Valid, summary.Invalid)
	cmd.Printf("inserted: %d, duplicates skipped: %d\n", summary.Inserted, summary.Duplicates)
	return nil
}

func runDiseasesCount(cmd *cobra.Command, args []string) error {
	rt, err := setup(true)
	if err != nil {
		return err
	}
	defer rt.close()

	count, err := rt.store.CountDiseaseTerms(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("%d\n", count)
	return nil
}
