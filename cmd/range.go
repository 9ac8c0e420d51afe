/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/viltkamera/wcimport/pkg/schema"
)

// getRangeCmd returns the range command.
func getRangeCmd() *cobra.Command {
	var all, analyze bool

	rangeCmd := &cobra.Command{
		Use:   "range [FROM TO]",
		Short: "Import all datasets with ids in a range",
		Long: `Import every dataset of the Parquet export whose id lies between
FROM and TO, both included. Datasets are imported one after another in
ascending order, the same way the import command handles one dataset.

With --all the range spans from the smallest to the largest dataset id
of the export.

The run stops on problems that affect every dataset (database, export,
image service or storage not available). Problems of a single
timeseries are logged and the run continues.

Examples:
  # Import datasets 100 to 150
  wcimport range 100 150

  # Import the whole export and refresh planner statistics
  wcimport range --all --analyze`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRange(cmd, args, all, analyze)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addImportFlags(rangeCmd)
	rangeCmd.Flags().BoolVarP(&all, "all", "a", false,
		"import all datasets of the export")
	rangeCmd.Flags().BoolVar(&analyze, "analyze", false,
		"update table statistics after the import")

	return rangeCmd
}

func runRange(cmd *cobra.Command, args []string, all, analyze bool) error {
	ctx := cmd.Context()

	var from, to int64
	var err error
	if !all {
		if from, err = parseDatasetID(args[0]); err != nil {
			return err
		}
		if to, err = parseDatasetID(args[1]); err != nil {
			return err
		}
		if from > to {
			gn.Warn("<warn>FROM has to be less or equal to TO</warn>")
			err = fmt.Errorf("invalid range %d..%d", from, to)
			slog.Error("Invalid argument", "error", err)
			return err
		}
	}

	cfg.Update(flagOptions(cmd, singleFlag, queriesFlag, noProgressFlag))

	op, gdb, err := connect(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer op.Close()

	p, err := newPipeline(ctx, cfg, gdb)
	if err != nil {
		return err
	}
	defer p.close(cfg)

	if all {
		from, to, err = p.source.DatasetBounds(ctx)
		if err != nil {
			return err
		}
		slog.Info("Dataset id bounds", "from", from, "to", to)
	}

	if _, err = p.importer.ImportRange(ctx, from, to); err != nil {
		return err
	}

	if analyze {
		return op.Analyze(ctx, schema.TableNames())
	}
	return nil
}
