package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"kronosphere/internal/database"
	"kronosphere/internal/models"
	"kronosphere/internal/views/components"

	"github.com/spf13/cobra"
)

type listOptions struct {
	json  bool
	tag   string
	kind  string
	query string
	limit int
}

func newNotesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Inspect stored notes",
	}

	list := &listOptions{}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, most recently modified first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd, opts)
			if err != nil {
				return err
			}
			defer database.Close(db)

			notes, err := models.NewNotesRepository(db).List(cmd.Context(), models.ListOptions{
				Type:  list.kind,
				Tag:   list.tag,
				Query: list.query,
				Limit: list.limit,
			})
			if err != nil {
				return err
			}

			if list.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(notes)
			}
			printNotes(cmd, notes)
			return nil
		},
	}

	flags := listCmd.Flags()
	flags.BoolVar(&list.json, "json", false, "print notes as JSON")
	flags.StringVar(&list.tag, "tag", "", "only notes carrying this tag")
	flags.StringVar(&list.kind, "type", "", "only notes of this type")
	flags.StringVarP(&list.query, "query", "q", "", "only notes whose content contains this text")
	flags.IntVar(&list.limit, "limit", 0, "maximum number of notes (0 for all)")

	cmd.AddCommand(listCmd)
	return cmd
}

func printNotes(cmd *cobra.Command, notes []models.Note) {
	out := cmd.OutOrStdout()
	if len(notes) == 0 {
		fmt.Fprintln(out, "No notes")
		return
	}
	for _, n := range notes {
		fmt.Fprintf(out, "%s  %s  %-9s %s",
			n.ID, time.UnixMilli(n.ModifiedAt).Format("2006-01-02 15:04"), n.Type, components.Title(n.Content))
		if len(n.Tags) > 0 {
			fmt.Fprintf(out, "  [%s]", strings.Join(n.Tags, ", "))
		}
		fmt.Fprintln(out)
	}
}
