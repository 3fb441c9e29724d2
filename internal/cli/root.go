// Package cli implements hostelctl, a command-line front end that drives a
// running hostel service through crud.Session.
package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"hostel-service/internal/client"
	"hostel-service/internal/fee"
	"hostel-service/internal/maintenance"
	"hostel-service/internal/room"
	"hostel-service/internal/student"
	"hostel-service/internal/visitor"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	server string
	token  string
}

func (o *rootOptions) conn() *client.Conn {
	return client.NewConn(o.server, o.token)
}

// NewRootCmd builds the hostelctl command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "hostelctl",
		Short:         "Manage hostel records from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", envOr("HOSTEL_URL", "http://localhost:8080"), "hostel service base URL")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("HOSTEL_TOKEN"), "access token from 'hostelctl login'")

	cmd.AddCommand(
		loginCmd(opts),
		dashboardCmd(opts),
		reportCmd(opts),
		watchCmd(),
		kindCmd[student.Student](opts, student.Kind),
		kindCmd[room.Room](opts, room.Kind),
		kindCmd[fee.Fee](opts, fee.Kind),
		kindCmd[visitor.Visitor](opts, visitor.Kind),
		kindCmd[maintenance.Request](opts, maintenance.Kind),
	)
	return cmd
}

func loginCmd(opts *rootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := opts.conn().Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.AccessToken)
			fmt.Fprintf(cmd.ErrOrStderr(), "token expires at %s, export it as HOSTEL_TOKEN\n", resp.ExpiresAt.Local().Format("15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "administrator email")
	cmd.Flags().StringVar(&password, "password", "", "administrator password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func dashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the hostel summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.conn().Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Students\t%d\n", s.TotalStudents)
			fmt.Fprintf(w, "Rooms\t%d (%d occupied, %d%%)\n", s.TotalRooms, s.OccupiedRooms, s.OccupancyRate)
			fmt.Fprintf(w, "Pending maintenance\t%d\n", s.PendingMaintenance)
			fmt.Fprintf(w, "Overdue fees\t%d\n", s.OverdueFees)
			fmt.Fprintf(w, "Outstanding\t%s\n", fee.Fee{AmountCents: s.OutstandingCents}.Amount())
			fmt.Fprintf(w, "Visitors in\t%d\n", s.VisitorsIn)
			return w.Flush()
		},
	}
}

func reportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:       "report <occupancy|fees|visitors>",
		Short:     "Download a CSV report",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"occupancy", "fees", "visitors"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return opts.conn().Report(cmd.Context(), args[0], w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// confirm asks a yes/no question on in and reports whether the answer was
// yes.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
