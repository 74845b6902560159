package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lineagehq/lineage/client"
)

func newPersonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage people",
	}
	cmd.AddCommand(personAddCmd())
	cmd.AddCommand(personGetCmd())
	cmd.AddCommand(personUpdateCmd())
	cmd.AddCommand(personRmCmd())
	cmd.AddCommand(personLsCmd())
	cmd.AddCommand(personImportCmd())
	return cmd
}

func parseDateFlag(name, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		fatal(fmt.Sprintf("parse --%s (want YYYY-MM-DD)", name), err)
	}
	return &t
}

func personAddCmd() *cobra.Command {
	var id, sex, born, died, notes, attrsJSON string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a person",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreatePersonRequest{
				ID:        id,
				Name:      args[0],
				Sex:       sex,
				BirthDate: parseDateFlag("born", born),
				DeathDate: parseDateFlag("died", died),
				Notes:     notes,
			}
			if attrsJSON != "" {
				if err := json.Unmarshal([]byte(attrsJSON), &req.Attributes); err != nil {
					fatal("parse attrs", err)
				}
			}
			person, err := apiClient.People.Create(context.Background(), req)
			if err != nil {
				fatal("add person", err)
			}
			output(person, person.ID)
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Person ID (generated if empty)")
	cmd.Flags().StringVar(&sex, "sex", "", "Sex: male|female")
	cmd.Flags().StringVar(&born, "born", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&died, "died", "", "Death date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&attrsJSON, "attrs", "", "Attributes as JSON")
	return cmd
}

func personGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a person by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			person, err := apiClient.People.Get(context.Background(), args[0])
			if err != nil {
				fatal("get person", err)
			}
			output(person, person.ID)
		},
	}
}

func personUpdateCmd() *cobra.Command {
	var name, sex, born, died, notes, attrsJSON string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a person",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.UpdatePersonRequest{}
			if name != "" {
				req.Name = &name
			}
			if sex != "" {
				req.Sex = &sex
			}
			req.BirthDate = parseDateFlag("born", born)
			req.DeathDate = parseDateFlag("died", died)
			if notes != "" {
				req.Notes = &notes
			}
			if attrsJSON != "" {
				if err := json.Unmarshal([]byte(attrsJSON), &req.Attributes); err != nil {
					fatal("parse attrs", err)
				}
			}
			person, err := apiClient.People.Update(context.Background(), args[0], req)
			if err != nil {
				fatal("update person", err)
			}
			output(person, person.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&sex, "sex", "", "Sex: male|female")
	cmd.Flags().StringVar(&born, "born", "", "Birth date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&died, "died", "", "Death date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&attrsJSON, "attrs", "", "Attributes as JSON")
	return cmd
}

func personRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a person and their relationships",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.People.Delete(context.Background(), args[0]); err != nil {
				fatal("remove person", err)
			}
			fmt.Println("deleted")
		},
	}
}

func personLsCmd() *cobra.Command {
	var name string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List people",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit must be non-negative\n")
				os.Exit(1)
			}
			if offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --offset must be non-negative\n")
				os.Exit(1)
			}
			opts := &client.PersonListOptions{
				Name:   name,
				Limit:  limit,
				Offset: offset,
			}
			people, _, err := apiClient.People.List(context.Background(), opts)
			if err != nil {
				fatal("list people", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NAME", "SEX", "BORN"}
				var rows [][]string
				for _, p := range people {
					born := ""
					if p.BirthDate != nil {
						born = p.BirthDate.Format("2006-01-02")
					}
					rows = append(rows, []string{p.ID, p.Name, p.Sex, born})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, p := range people {
					fmt.Println(p.ID)
				}
				return
			}
			output(people, "")
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Filter by name substring")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func personImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Bulk-upsert people from a JSON array file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fatal("read file", err)
			}
			var reqs []client.CreatePersonRequest
			if err := json.Unmarshal(data, &reqs); err != nil {
				fatal("parse file", err)
			}
			n, err := apiClient.People.BulkUpsert(context.Background(), reqs)
			if err != nil {
				fatal("import people", err)
			}
			fmt.Printf("upserted %d people\n", n)
		},
	}
}
