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
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/viltkamera/wcimport/internal/iorepo"
)

// getImportCmd returns the import command.
func getImportCmd() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import DATASET_ID",
		Short: "Import one dataset from the Parquet export",
		Long: `Import one camera-trap dataset from the Parquet export.

This command:
  1. Connects to PostgreSQL and loads annotation labels
  2. Reads the dataset from the projects table of the export
  3. Creates the camera location and the dataset
  4. For every timeseries that was not imported before:
     - creates the timeseries and its validation revision
     - downloads every image from the image service
     - stores images and predicted bounding boxes
     - blurs boxes with sensitive labels (people, vehicles)
     - uploads images to object storage
  5. Reports a summary of the run

Each timeseries is imported in its own transaction. A failed timeseries
is logged and skipped, running the import again picks it up.

Examples:
  # Import dataset 42
  wcimport import 42

  # Import only the first new timeseries, print SQL
  wcimport import 42 -s -q

  # Delete dataset 42 with everything imported for it
  wcimport import 42 --clean`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addImportFlags(importCmd)
	importCmd.Flags().BoolP("clean", "c", false,
		"delete the dataset instead of importing it")

	return importCmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseDatasetID(args[0])
	if err != nil {
		return err
	}

	cfg.Update(flagOptions(cmd, singleFlag, cleanFlag, queriesFlag, noProgressFlag))

	op, gdb, err := connect(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer op.Close()

	if cfg.Import.Clean {
		stats, err := iorepo.NewCleaner(gdb).Clean(ctx, id)
		if err != nil {
			return err
		}
		gn.Info(
			"Dataset <em>%d</em> removed, %s rows deleted",
			id, humanize.Comma(stats.Total()),
		)
		return nil
	}

	p, err := newPipeline(ctx, cfg, gdb)
	if err != nil {
		return err
	}
	defer p.close(cfg)

	_, err = p.importer.Import(ctx, id)
	return err
}

func parseDatasetID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		gn.Warn("<warn>Dataset id has to be an integer, got '%s'</warn>", s)
		err = fmt.Errorf("invalid dataset id %q: %w", s, err)
		slog.Error("Invalid argument", "error", err)
		return 0, err
	}
	return id, nil
}
