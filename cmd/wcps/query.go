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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rasdaman/wcps/expr"
	"github.com/rasdaman/wcps/expr/formula"
	"github.com/rasdaman/wcps/service"
)

var errBinding = errors.New("invalid binding")

// parseBindings turns NAME=VALUE pairs into
// formula operands. VALUE is a number, a
// datacube name, or CUBE.BAND for a field
// of a datacube.
func parseBindings(pairs []string) (formula.Env, error) {
	env := make(formula.Env, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("%w %q (want NAME=VALUE)", errBinding, p)
		}
		if _, dup := env[name]; dup {
			return nil, fmt.Errorf("%w: %s bound twice", errBinding, name)
		}
		env[name] = operand(value)
	}
	return env, nil
}

func operand(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	cube, band, ok := strings.Cut(value, ".")
	if !ok {
		return expr.Cube(value)
	}
	if n, err := strconv.Atoi(band); err == nil {
		return expr.Field(expr.Cube(cube), n)
	}
	return expr.Field(expr.Cube(cube), band)
}

// finish wraps n in an encode() when
// format is set and renders the query.
func finish(n expr.Node, format string) (string, error) {
	if format != "" {
		n = expr.Encode(n, format)
	}
	return expr.Render(n)
}

func renderCmd(o *options) *cobra.Command {
	var binds []string
	var format string
	cmd := &cobra.Command{
		Use:   "render FORMULA...",
		Short: "Render band-math formulas as WCPS queries",
		Example: `  wcps render -b N=S2_L2A.B08 -b R=S2_L2A.B04 --encode png '(N - R) / (N + R)'
  wcps render -f -b A=AvgLandTemp formula.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs, err := o.sources(cmd, args)
			if err != nil {
				return err
			}
			for _, src := range srcs {
				// bound operands are adopted by the tree
				// they end up in, so every formula needs
				// a fresh set of them
				env, err := parseBindings(binds)
				if err != nil {
					return err
				}
				n, err := formula.Parse(src, env)
				if err != nil {
					return err
				}
				q, err := finish(n, format)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), q)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&binds, "bind", "b", nil, "bind a formula symbol: NAME=NUMBER, NAME=CUBE or NAME=CUBE.BAND")
	cmd.Flags().StringVar(&format, "encode", "", "encode the result to this format (e.g. png, tiff, json)")
	return cmd
}

// printResult writes a classified result.
// Array results are written raw when raw is set
// and summarized otherwise.
func printResult(w io.Writer, res *service.Result, raw bool) error {
	switch res.Type {
	case service.Scalar:
		_, err := fmt.Fprintln(w, res.Value)
		return err
	case service.MultibandScalar, service.JSON:
		return json.NewEncoder(w).Encode(res.Value)
	}
	b, _ := res.Bytes()
	if raw {
		_, err := w.Write(b)
		return err
	}
	_, err := fmt.Fprintf(w, "<%s result: %s, %s>\n", res.Type, res.ContentType, humanize.Bytes(uint64(len(b))))
	return err
}

// create opens the output file; "" and "-" are stdout.
func create(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func executeCmd(o *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "execute QUERY...",
		Short: "Execute WCPS queries and print the results",
		Long: `Execute sends each query to the endpoint and prints the result.
Scalars are printed as text, multiband scalars and JSON
results as JSON. Encoded arrays are written to the output
file, or summarized when writing to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client(cmd)
			if err != nil {
				return err
			}
			queries, err := o.sources(cmd, args)
			if err != nil {
				return err
			}
			dst, err := create(cmd, output)
			if err != nil {
				return err
			}
			defer dst.Close()
			raw := output != "" && output != "-"
			for _, q := range queries {
				start := time.Now()
				res, err := client.Execute(cmd.Context(), q)
				if err != nil {
					return err
				}
				if o.printTime {
					fmt.Fprintf(cmd.ErrOrStderr(), "execution time: %v\n", time.Since(start))
				}
				if err := printResult(dst, res, raw); err != nil {
					return err
				}
			}
			return dst.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file for output (default is stdout)")
	return cmd
}

func downloadCmd(o *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download QUERY",
		Short: "Execute a WCPS query and save the result to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := o.client(cmd)
			if err != nil {
				return err
			}
			queries, err := o.sources(cmd, args)
			if err != nil {
				return err
			}
			dst, err := create(cmd, output)
			if err != nil {
				return err
			}
			defer dst.Close()
			start := time.Now()
			n, err := client.Download(cmd.Context(), queries[0], dst)
			if err != nil {
				return err
			}
			if err := dst.Close(); err != nil {
				return err
			}
			if output != "-" {
				color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "wrote %s to %s\n", humanize.Bytes(uint64(n)), output)
			}
			if o.printTime {
				fmt.Fprintf(cmd.ErrOrStderr(), "execution time: %v\n", time.Since(start))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file for output, - for stdout (required)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
