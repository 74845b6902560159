package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lineagehq/lineage/client"
)

func newEdgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Manage relationships between people",
	}
	cmd.AddCommand(edgeAddCmd())
	cmd.AddCommand(edgeRmCmd())
	cmd.AddCommand(edgeLsCmd())
	cmd.AddCommand(edgeImportCmd())
	return cmd
}

func edgeAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <person-a> <person-b> <type>",
		Short: "Record a relationship (e.g. parent, spouse, sibling)",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateRelationshipRequest{
				PersonA: args[0],
				PersonB: args[1],
				Type:    args[2],
			}
			rel, err := apiClient.Relationships.Create(context.Background(), req)
			if err != nil {
				fatal("add edge", err)
			}
			output(rel, fmt.Sprintf("%d", rel.Seq))
		},
	}
}

func edgeRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <person-a> <person-b> <type>",
		Short: "Remove a relationship",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Relationships.Delete(context.Background(), args[0], args[1], args[2]); err != nil {
				fatal("remove edge", err)
			}
			fmt.Println("deleted")
		},
	}
}

func edgeLsCmd() *cobra.Command {
	var person, relType string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List relationships",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit must be non-negative\n")
				os.Exit(1)
			}
			if offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --offset must be non-negative\n")
				os.Exit(1)
			}
			opts := &client.RelationshipListOptions{
				Person: person,
				Type:   relType,
				Limit:  limit,
				Offset: offset,
			}
			rels, _, err := apiClient.Relationships.List(context.Background(), opts)
			if err != nil {
				fatal("list edges", err)
			}
			if flagFmt == "table" {
				headers := []string{"PERSON_A", "PERSON_B", "TYPE"}
				var rows [][]string
				for _, r := range rels {
					rows = append(rows, []string{r.PersonA, r.PersonB, r.Type})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, r := range rels {
					fmt.Printf("%s %s %s\n", r.PersonA, r.PersonB, r.Type)
				}
				return
			}
			output(rels, "")
		},
	}
	cmd.Flags().StringVar(&person, "person", "", "Filter by person on either side")
	cmd.Flags().StringVar(&relType, "type", "", "Filter by relationship type")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func edgeImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-insert relationships from a JSON array file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fatal("read file", err)
			}
			var reqs []client.CreateRelationshipRequest
			if err := json.Unmarshal(data, &reqs); err != nil {
				fatal("parse file", err)
			}
			n, err := apiClient.Relationships.BulkInsert(context.Background(), reqs)
			if err != nil {
				fatal("import edges", err)
			}
			fmt.Printf("inserted %d relationships\n", n)
		},
	}
}
