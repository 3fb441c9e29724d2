package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"hostel-service/internal/client"
	"hostel-service/internal/crud"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// kindCmd builds list/get/create/update/delete subcommands for one record
// kind, all going through a crud.Session.
func kindCmd[T crud.Entity[T]](opts *rootOptions, kind crud.Kind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.Plural,
		Short: fmt.Sprintf("Manage %s records", kind.Name),
	}

	session := func() *crud.Session[T] {
		return crud.NewSession[T](client.NewRecords[T](opts.conn(), kind), kind)
	}

	var status, query string
	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s records, newest first", kind.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session()
			if err := s.List(cmd.Context()); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), s.Filter(status, query))
		},
	}
	list.Flags().StringVar(&status, "status", "", "only records with this status")
	list.Flags().StringVarP(&query, "query", "q", "", "only records whose text contains this term")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show one %s", kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, id, err := loaded(cmd.Context(), session(), args[0])
			if err != nil {
				return err
			}
			rec, err := s.Detail(id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}

	var createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s from JSON", kind.Name),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput[T](cmd, createFile)
			if err != nil {
				return err
			}
			s := session()
			s.OpenCreate()
			created, err := s.Submit(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), created)
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "-", "JSON file, - for stdin")

	var updateFile string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Replace a %s with JSON", kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput[T](cmd, updateFile)
			if err != nil {
				return err
			}
			s, id, err := loaded(cmd.Context(), session(), args[0])
			if err != nil {
				return err
			}
			if err := s.OpenEdit(id); err != nil {
				return err
			}
			updated, err := s.Submit(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "-", "JSON file, - for stdin")

	var yes bool
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", kind.Name),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, id, err := loaded(cmd.Context(), session(), args[0])
			if err != nil {
				return err
			}
			if _, err := s.Detail(id); err != nil {
				return err
			}

			s.RequestDelete(id)
			if !yes && !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete %s %s?", kind.Name, id)) {
				s.CancelDelete()
				fmt.Fprintln(cmd.ErrOrStderr(), "cancelled")
				return nil
			}
			if err := s.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "deleted %s %s\n", kind.Name, id)
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

// loaded parses id and loads the session's list.
func loaded[T crud.Entity[T]](ctx context.Context, s *crud.Session[T], raw string) (*crud.Session[T], uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	if err := s.List(ctx); err != nil {
		return nil, uuid.Nil, err
	}
	return s, id, nil
}

func readInput[T any](cmd *cobra.Command, path string) (T, error) {
	var (
		in  T
		src io.Reader = cmd.InOrStdin()
	)
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return in, err
		}
		defer f.Close()
		src = f
	}
	if err := json.NewDecoder(src).Decode(&in); err != nil {
		return in, fmt.Errorf("invalid JSON input: %w", err)
	}
	return in, nil
}
