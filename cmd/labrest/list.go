package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/labx/labrest/internal/engine"
)

var (
	listFilters []string
	listLimit   int
	listSkip    int
)

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "List vertices of an entity type with optional field filters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity := args[0]

		params := []map[string]any{{
			"limit": listLimit,
			"skip":  listSkip,
		}}
		for _, f := range listFilters {
			key, value, found := strings.Cut(f, "=")
			if !found {
				return fmt.Errorf("invalid filter %q, expected field=value", f)
			}
			params = append(params, map[string]any{key: value})
		}

		orch, client, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		result, err := orch.List(cmd.Context(), entity, params)
		if err != nil {
			logger.WithError(err).Error("list failed")
		}
		return printJSON(result)
	},
}

func init() {
	listCmd.Flags().StringArrayVar(&listFilters, "filter", nil, "field=value filter, repeatable")
	listCmd.Flags().IntVar(&listLimit, "limit", engine.DefaultListLimit, "maximum rows to return")
	listCmd.Flags().IntVar(&listSkip, "skip", engine.DefaultListSkip, "rows to skip")
}
