package main

import (
	"github.com/spf13/cobra"
)

var upsertFile string

var upsertCmd = &cobra.Command{
	Use:   "upsert <entity>",
	Short: "Insert or update a batch of records for an entity type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entity := args[0]

		records, err := readRecords(upsertFile)
		if err != nil {
			return err
		}

		orch, client, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		result, err := orch.UpsertBatch(cmd.Context(), entity, records)
		if err != nil {
			logger.WithError(err).Error("upsert batch failed")
		}
		return printJSON(result)
	},
}

func init() {
	upsertCmd.Flags().StringVarP(&upsertFile, "file", "f", "", "JSON file with a record or an array of records")
	upsertCmd.MarkFlagRequired("file")
}
