// Package commands wires the corpusload command tree.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bioctools/corpusload/internal/config"
	"github.com/bioctools/corpusload/internal/database"
	"github.com/bioctools/corpusload/internal/logging"
	"github.com/bioctools/corpusload/internal/store"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "corpusload",
	Short: "Load BioC scientific literature corpora into a relational store",
	Long: `corpusload ingests BioC XML collections (documents, passages,
annotations and their metadata) into a normalized relational schema,
with optional filtering by required annotation categories. It also loads
the auxiliary disease vocabulary reference dataset.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("loading env file %s: %w", envFile, err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "",
		"path to a .env file to load before reading configuration")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

// runtime bundles the collaborators a command needs.
type runtime struct {
	cfg   *config.Config
	log   *zap.Logger
	db    *gorm.DB
	store *store.Store
}

// setup loads configuration, builds the logger and opens the store.
// Failure here is a fatal setup error for the whole run.
func setup(migrate bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	if migrate {
		if err := database.AutoMigrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return &runtime{
		cfg:   cfg,
		log:   log,
		db:    db,
		store: store.New(db, log),
	}, nil
}

func (r *runtime) close() {
	_ = r.log.Sync()
	_ = database.Close(r.db)
}
