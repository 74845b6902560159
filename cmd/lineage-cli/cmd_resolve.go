package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <from> <to>",
		Short: "Resolve the kinship between two people",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Kinship.Resolve(context.Background(), args[0], args[1])
			if err != nil {
				fatal("resolve kinship", err)
			}
			switch flagFmt {
			case "quiet":
				formatQuiet(resp.Relationship.Label)
			case "table":
				fmt.Println(resp.Description)
			default:
				output(resp, resp.Relationship.Label)
			}
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show workspace statistics",
		Run: func(cmd *cobra.Command, args []string) {
			stats, err := apiClient.Stats(context.Background())
			if err != nil {
				fatal("get stats", err)
			}
			if flagFmt == "table" {
				formatTable([]string{"PEOPLE", "RELATIONSHIPS", "TYPES", "CLIENTS"}, [][]string{{
					fmt.Sprintf("%d", stats.People),
					fmt.Sprintf("%d", stats.Relationships),
					fmt.Sprintf("%d", stats.RelationshipTypes),
					fmt.Sprintf("%d", stats.ConnectedClients),
				}})
				return
			}
			output(stats, fmt.Sprintf("%d", stats.People))
		},
	}
}
