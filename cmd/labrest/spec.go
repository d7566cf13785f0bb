package main

import (
	"github.com/spf13/cobra"
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Manage the entity/edge schema catalogue",
}

var (
	specDescription string
	specAttrsFile   string
	edgeFrom        string
	edgeTo          string
)

var specAddEntityCmd = &cobra.Command{
	Use:   "add-entity <name>",
	Short: "Register a new entity type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, client, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		result, err := orch.AddEntitySpec(cmd.Context(), args[0], specDescription)
		if err != nil {
			logger.WithError(err).Error("add entity spec failed")
		}
		return printJSON(result)
	},
}

var specAddAttributesCmd = &cobra.Command{
	Use:   "add-attributes <entity>",
	Short: "Add attribute declarations to an entity type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := readRecords(specAttrsFile)
		if err != nil {
			return err
		}

		orch, client, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		result, err := orch.AddEntityAttributes(cmd.Context(), args[0], attrs)
		if err != nil {
			logger.WithError(err).Error("add entity attributes failed")
		}
		return printJSON(result)
	},
}

var specAddEdgeCmd = &cobra.Command{
	Use:   "add-edge <name>",
	Short: "Register an edge declaration between two entity types",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, client, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		result, err := orch.AddEdgeSpec(cmd.Context(), args[0], edgeFrom, edgeTo, specDescription)
		if err != nil {
			logger.WithError(err).Error("add edge spec failed")
		}
		return printJSON(result)
	},
}

var specAddEdgeAttributesCmd = &cobra.Command{
	Use:   "add-edge-attributes <edge>",
	Short: "Add attribute declarations to an edge type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		attrs, err := readRecords(specAttrsFile)
		if err != nil {
			return err
		}

		orch, client, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer client.Close(cmd.Context())

		result, err := orch.AddEdgeAttributes(cmd.Context(), args[0], attrs)
		if err != nil {
			logger.WithError(err).Error("add edge attributes failed")
		}
		return printJSON(result)
	},
}

func init() {
	specAddEntityCmd.Flags().StringVar(&specDescription, "description", "", "entity description")

	specAddAttributesCmd.Flags().StringVarP(&specAttrsFile, "file", "f", "", "JSON file with attribute declarations")
	specAddAttributesCmd.MarkFlagRequired("file")

	specAddEdgeCmd.Flags().StringVar(&edgeFrom, "from", "", "source entity type")
	specAddEdgeCmd.Flags().StringVar(&edgeTo, "to", "", "target entity type")
	specAddEdgeCmd.Flags().StringVar(&specDescription, "description", "", "edge description")
	specAddEdgeCmd.MarkFlagRequired("from")
	specAddEdgeCmd.MarkFlagRequired("to")

	specAddEdgeAttributesCmd.Flags().StringVarP(&specAttrsFile, "file", "f", "", "JSON file with attribute declarations")
	specAddEdgeAttributesCmd.MarkFlagRequired("file")

	specCmd.AddCommand(specAddEntityCmd)
	specCmd.AddCommand(specAddAttributesCmd)
	specCmd.AddCommand(specAddEdgeCmd)
	specCmd.AddCommand(specAddEdgeAttributesCmd)
}
