// Copyright 2026 The rasdaman WCPS Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Command wcps builds, renders and executes
// WCPS queries against a WCS endpoint.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rasdaman/wcps/config"
	"github.com/rasdaman/wcps/service"
)

// version is set at link time
// with -ldflags "-X main.version=..."
var version = "dev"

type options struct {
	configPath string
	verbose    bool
	dashf      bool // arguments are files containing queries
	printTime  bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "wcps",
		Short: "Build and execute WCPS queries",
		Long: `wcps renders band-math formulas and spectral indices
into WCPS queries and executes queries on a WCS endpoint.

Settings are read from wcps.yaml, WCPS_* environment
variables and flags, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if o.noColor {
				color.NoColor = true
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "configuration file (default wcps.yaml)")
	pf.String("endpoint", "", "WCS endpoint URL")
	pf.String("auth", "", "credentials: a JSON/YAML file or a token endpoint URL (default from WCPS_USERNAME/WCPS_PASSWORD/WCPS_TOKEN)")
	pf.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.Duration("connect-timeout", config.DefaultConnectTimeout, "timeout for establishing a connection")
	pf.Duration("read-timeout", config.DefaultReadTimeout, "timeout for a query to execute")
	pf.Int("cache-size", config.DefaultCacheSize, "number of results cached in memory")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "log at debug level")
	pf.BoolVarP(&o.dashf, "files", "f", false, "read arguments as files containing queries or formulas")
	pf.BoolVarP(&o.printTime, "time", "t", false, "print execution time on stderr")
	pf.BoolVar(&o.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		renderCmd(o),
		executeCmd(o),
		downloadCmd(o),
		indicesCmd(o),
		indexCmd(o),
		versionCmd(),
	)
	return root
}

// load reads the configuration, honoring
// the flags of cmd and its parents.
func (o *options) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if o.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Logger(cmd.ErrOrStderr()), nil
}

func (o *options) client(cmd *cobra.Command) (*service.Client, error) {
	cfg, logger, err := o.load(cmd)
	if err != nil {
		return nil, err
	}
	return cfg.NewClient(logger)
}

// sources returns the text of each argument,
// reading it from a file when -f is given.
// The file name "-" is stdin.
func (o *options) sources(cmd *cobra.Command, args []string) ([]string, error) {
	if !o.dashf {
		return args, nil
	}
	out := make([]string, len(args))
	for i, arg := range args {
		var buf []byte
		var err error
		if arg == "-" {
			buf, err = io.ReadAll(cmd.InOrStdin())
		} else {
			buf, err = os.ReadFile(arg)
		}
		if err != nil {
			return nil, err
		}
		out[i] = strings.TrimSpace(string(buf))
	}
	return out, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wcps %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

func exit(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		exit(err)
	}
}
