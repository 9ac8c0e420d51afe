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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viltkamera/wcimport/internal/iofs"
	"github.com/viltkamera/wcimport/internal/iologger"
	"github.com/viltkamera/wcimport/pkg/config"
	"github.com/viltkamera/wcimport/pkg/wcimport"
	"gopkg.in/yaml.v3"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// getRootCmd returns the base command with all subcommands attached.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf(
			"version: %s\nbuild:   %s", wcimport.Version, wcimport.Build,
		),
		Use:   "wcimport",
		Short: "Imports camera-trap datasets into the viltkamera database",
		Long: `wcimport moves camera-trap datasets from a Parquet export into the
viltkamera PostgreSQL database. Images are downloaded from the upstream
image service, people and vehicles found by the detector are blurred,
and the result is uploaded to S3-compatible object storage.

Without a subcommand wcimport prints the effective configuration.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (WCIMPORT_*)
  3. Config file (~/.config/wcimport/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host -> WCIMPORT_DATABASE_HOST).

  Examples:
    WCIMPORT_DATABASE_HOST          PostgreSQL host
    WCIMPORT_SOURCE_PATH_TEMPLATE   Parquet glob with TABLE placeholder
    WCIMPORT_API_URL                Image service URL
    WCIMPORT_STORAGE_BUCKET         Target bucket
    WCIMPORT_LOG_LEVEL              Log level (debug/info/warn/error)

  EXPORT_BASE_PATH, API_URL, API_USER, API_PASSWORD, S3_BUCKET,
  FSSPEC_S3_KEY, FSSPEC_S3_SECRET and FSSPEC_S3_ENDPOINT_URL are
  accepted as well.

  See 'go doc github.com/viltkamera/wcimport/pkg/config' for complete list.`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "wcimport version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for wcimport")
	rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false, "print debug messages",
	)

	rootCmd.AddCommand(
		getImportCmd(),
		getRangeCmd(),
		getMigrateCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})
	cfg.Update(verboseFlag(cmd))

	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)
	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
// The log file created during bootstrap is kept.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

func runRoot(cmd *cobra.Command, args []string) error {
	red := cfg.Redacted()
	out, err := yaml.Marshal(&red)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s",
		config.ConfigFilePath(cfg.HomeDir), out)
	return nil
}

// Execute runs the root command. SIGINT and SIGTERM cancel the context
// of the running command. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	err := getRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

// legacyEnv maps variables of the former import script to config keys.
var legacyEnv = map[string]string{
	"source.path_template": "EXPORT_BASE_PATH",
	"api.url":              "API_URL",
	"api.user":             "API_USER",
	"api.password":         "API_PASSWORD",
	"storage.bucket":       "S3_BUCKET",
	"storage.access_key":   "FSSPEC_S3_KEY",
	"storage.secret_key":   "FSSPEC_S3_SECRET",
	"storage.endpoint":     "FSSPEC_S3_ENDPOINT_URL",
}

func initEnvVars(v *viper.Viper) {
	// Environment variables are bound manually so it is clear which ones
	// are allowed. They match the fields of config.ToOptions().
	v.SetEnvPrefix("WCIMPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.database",
		"database.ssl_mode",

		"source.path_template",
		"source.memory_limit",

		"api.url",
		"api.user",
		"api.password",
		"api.timeout",
		"api.max_retry_time",
		"api.requests_per_second",

		"storage.endpoint",
		"storage.access_key",
		"storage.secret_key",
		"storage.bucket",
		"storage.prefix",
		"storage.use_ssl",

		"blur.radius",
		"blur.jpeg_quality",

		"metrics.pushgateway_url",
		"metrics.job",

		"log.level",
		"log.format",
		"log.destination",
	}

	for _, k := range keys {
		env := "WCIMPORT_" + strings.ToUpper(strings.ReplaceAll(k, ".", "_"))
		names := []string{k, env}
		// the prefixed variable wins over the legacy one
		if legacy, ok := legacyEnv[k]; ok {
			names = append(names, legacy)
		}
		_ = v.BindEnv(names...)
	}

	v.AutomaticEnv()
}
