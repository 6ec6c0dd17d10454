package commands

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/kiln/internal/core/migration/domain"
)

// Set with -ldflags "-X github.com/satishbabariya/kiln/cmd/kiln/commands.Version=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			dialects := make([]string, 0, len(domain.Dialects()))
			for _, d := range domain.Dialects() {
				dialects = append(dialects, string(d))
			}
			fmt.Fprintf(cmd.OutOrStdout(), `kiln %s
Record format: %s
Dialects:      %s
Build date:    %s
Git commit:    %s
Platform:      %s/%s (%s)
`, Version, domain.RecordVersion, strings.Join(dialects, ", "), BuildDate, GitCommit,
				runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}
