package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("paygrade version %s (%s)\n", version, buildDetail(debug.ReadBuildInfo))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildDetail names the Go toolchain and, for builds from a checkout, the
// short commit.
func buildDetail(read func() (*debug.BuildInfo, bool)) string {
	detail := runtime.Version()
	info, ok := read()
	if !ok {
		return detail
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return detail + ", commit " + s.Value[:7]
		}
	}
	return detail
}
