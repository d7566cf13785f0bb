package main

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <entity> <id>...",
	Short: "Delete vertices by internal id",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity := args[0]
		ids := args[1:]

		orch, client, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		result, err := orch.DeleteBatch(cmd.Context(), entity, ids)
		if err != nil {
			logger.WithError(err).Error("delete batch failed")
		}
		return printJSON(result)
	},
}
