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
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/viltkamera/wcimport/internal/ioschema"
)

// getMigrateCmd returns the migrate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMigrateCmd() *cobra.Command {
	var check bool

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update wild_cameras tables",
		Long: `Migrate creates the wild_cameras tables used by wcimport.

The tables normally belong to the viltkamera web application. This
command is meant for a fresh database, for example a local copy used
to try an import.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Reports tables that do not exist yet
  3. Runs GORM AutoMigrate to create them

GORM AutoMigrate:
  - Adds new tables if they don't exist
  - Adds new columns to existing tables
  - Adds missing indexes
  - Does NOT delete columns or tables (safe)

Annotation labels are not created, they come from the web application.

Examples:
  wcimport migrate

  # Only list missing tables
  wcimport migrate --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMigrate(cmd, check)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	migrateCmd.Flags().BoolVar(&check, "check", false,
		"list missing tables without changing the database")

	return migrateCmd
}

func runMigrate(cmd *cobra.Command, check bool) error {
	ctx := cmd.Context()

	op, gdb, err := connect(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer op.Close()

	sm := ioschema.NewManager(gdb)
	missing, err := sm.MissingTables(ctx)
	if err != nil {
		return err
	}

	if len(missing) == 0 {
		gn.Info("All wild_cameras tables exist.")
	} else {
		gn.Info("Missing tables:\n  <em>%s</em>",
			strings.Join(missing, "\n  "))
	}
	if check {
		return nil
	}

	gn.Info("Migrating schema to latest version...")
	if err := sm.Migrate(ctx); err != nil {
		return err
	}

	gn.Info("Schema is now up to date.")
	return nil
}
