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
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gnames/gn"
	"github.com/viltkamera/wcimport/internal/iodb"
	"github.com/viltkamera/wcimport/internal/iohttp"
	"github.com/viltkamera/wcimport/internal/ioimport"
	"github.com/viltkamera/wcimport/internal/iometrics"
	"github.com/viltkamera/wcimport/internal/ioparquet"
	"github.com/viltkamera/wcimport/internal/iorepo"
	"github.com/viltkamera/wcimport/internal/ioschema"
	"github.com/viltkamera/wcimport/internal/iostorage"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/db"
	"github.com/viltkamera/wcimport/pkg/wcimport"
	"gorm.io/gorm"
)

// connect opens the database and returns the operator with a GORM
// session. With checkTables the wild_cameras tables have to exist.
func connect(
	ctx context.Context,
	cfg *config.Config,
	checkTables bool,
) (db.Operator, *gorm.DB, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, nil, err
	}

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	gdb, err := op.GORM(cfg.Import.LogQueries)
	if err != nil {
		op.Close()
		return nil, nil, err
	}

	if !checkTables {
		return op, gdb, nil
	}

	missing, err := ioschema.NewManager(gdb).MissingTables(ctx)
	if err != nil {
		op.Close()
		return nil, nil, err
	}
	if len(missing) > 0 {
		op.Close()
		slog.Error("Missing tables", "tables", strings.Join(missing, ","))
		return nil, nil, iodb.EmptyDatabaseError(
			cfg.Database.Host, cfg.Database.Database,
		)
	}
	return op, gdb, nil
}

// pipeline owns the collaborators of an import run.
type pipeline struct {
	importer wcimport.Importer
	source   wcimport.SourceReader
	metrics  *iometrics.Recorder
	start    time.Time
}

// newPipeline builds the importer from configuration. Storage and the
// export are checked before any dataset is touched.
func newPipeline(
	ctx context.Context,
	cfg *config.Config,
	gdb *gorm.DB,
) (*pipeline, error) {
	cat, err := iorepo.LoadLabels(ctx, gdb)
	if err != nil {
		return nil, err
	}
	slog.Info("Labels loaded", "labels", cat.Len())

	src, err := ioparquet.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fetcher, err := iohttp.New(cfg)
	if err != nil {
		src.Close()
		return nil, err
	}

	store, err := iostorage.New(ctx, cfg)
	if err != nil {
		src.Close()
		return nil, err
	}

	var rec *iometrics.Recorder
	if cfg.Metrics.PushgatewayURL != "" {
		rec = iometrics.New()
	}

	imp := ioimport.New(cfg, gdb, ioimport.Deps{
		Source:  src,
		Fetcher: fetcher,
		Store:   store,
		Labels:  cat,
		Metrics: rec,
	})

	res := pipeline{
		importer: imp,
		source:   src,
		metrics:  rec,
		start:    time.Now(),
	}
	return &res, nil
}

// close pushes metrics and releases the export engine. A failed push
// is logged and does not change the result of the run.
func (p *pipeline) close(cfg *config.Config) {
	if p.metrics != nil {
		p.metrics.Finish(time.Since(p.start))
		// the run context may be cancelled already
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := p.metrics.Push(ctx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job)
		cancel()
		if err != nil {
			slog.Error("Cannot push metrics", "error", err)
			gn.Warn("Cannot push metrics to <em>%s</em>",
				cfg.Metrics.PushgatewayURL)
		}
	}

	if err := p.source.Close(); err != nil {
		slog.Error("Cannot close DuckDB", "error", err)
	}
}
