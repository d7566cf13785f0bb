package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/labx/labrest/internal/config"
	"github.com/labx/labrest/internal/engine"
	"github.com/labx/labrest/internal/graph"
	"github.com/labx/labrest/internal/logging"
	"github.com/labx/labrest/internal/schema"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "labrest",
	Short: "LabRest - generic graph-entity CRUD engine",
	Long: `LabRest performs schema-driven create/read/update/delete operations over a
property graph where entity types are themselves graph data.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		logging.Setup(cfg.Log.Level, cfg.Log.JSON)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: labrest.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`LabRest {{.Version}}
Build time: ` + BuildTime + `
`)

	rootCmd.AddCommand(upsertCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(specCmd)
}

// connect builds the graph client and orchestrator from the loaded config.
// Callers must close the returned client.
func connect(ctx context.Context) (*engine.Orchestrator, *graph.Client, error) {
	client, err := graph.NewClient(ctx, graph.Options{
		URI:      cfg.Graph.URI,
		User:     cfg.Graph.User,
		Password: cfg.Graph.Password,
		Database: cfg.Graph.Database,
		Workers:  cfg.Graph.Workers,
		RPS:      cfg.Graph.RPS,
	})
	if err != nil {
		return nil, nil, err
	}

	resolver := schema.NewResolver(client, schema.NewCache())
	orch := engine.NewOrchestrator(client, resolver, cfg.Engine.MaxParallel)
	return orch, client, nil
}

// printJSON writes a result to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readRecords parses a JSON file holding either a single record object or an
// array of records.
func readRecords(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var single map[string]any
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parse %s: expected a JSON object or array of objects: %w", path, err)
	}
	return []map[string]any{single}, nil
}
