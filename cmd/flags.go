package cmd

import (
	"github.com/spf13/cobra"
	"github.com/viltkamera/wcimport/pkg/config"
)

// funcFlag converts an explicitly set flag into config options.
type funcFlag func(cmd *cobra.Command) []config.Option

func flagOptions(cmd *cobra.Command, flags ...funcFlag) []config.Option {
	var res []config.Option
	for _, fn := range flags {
		res = append(res, fn(cmd)...)
	}
	return res
}

func boolFlag(name string, fn func(bool) config.Option) funcFlag {
	return func(cmd *cobra.Command) []config.Option {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			return nil
		}
		b, _ := cmd.Flags().GetBool(name)
		return []config.Option{fn(b)}
	}
}

func verboseFlag(cmd *cobra.Command) []config.Option {
	f := cmd.Flags().Lookup("verbose")
	if f == nil || f.Value.String() != "true" {
		return nil
	}
	return []config.Option{config.OptLogLevel("debug")}
}

var (
	singleFlag  = boolFlag("single", config.OptImportSingle)
	cleanFlag   = boolFlag("clean", config.OptImportClean)
	queriesFlag = boolFlag("queries", config.OptImportLogQueries)

	noProgressFlag = boolFlag("no-progress", func(b bool) config.Option {
		return config.OptImportShowProgress(!b)
	})
)

func addImportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("single", "s", false,
		"import the first new timeseries and stop")
	cmd.Flags().BoolP("queries", "q", false,
		"print SQL queries")
	cmd.Flags().Bool("no-progress", false,
		"do not show progress bar")
}
