package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zeusync/nsqcore/internal/core/protocol"
)

func newClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify CODE|RESPONSE...",
		Short: "Show the kind and severity of NSQ error codes",
		Long: `Classify maps each argument to its error kind. An argument holding a space is
read as a full error frame body ("E_INVALID message too big").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "CODE\tKIND\tFATAL\tLOCAL\tMESSAGE")
			for _, arg := range args {
				var perr *protocol.Error
				if strings.Contains(arg, " ") {
					perr = protocol.ParseErrorResponse([]byte(arg))
				} else {
					perr = protocol.Classify(arg)
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
					perr.Code, perr.Kind, perr.Fatal, perr.Kind.Local(), perr.Message)
			}
			return w.Flush()
		},
	}
}
