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
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rasdaman/wcps/spectral"
)

func indicesCmd(_ *options) *cobra.Command {
	var platform string
	cmd := &cobra.Command{
		Use:   "indices",
		Short: "List the spectral indices in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Name", "Description", "Bands", "Formula"})
			n := 0
			for _, name := range spectral.Names() {
				idx, _ := spectral.Lookup(name)
				if platform != "" && !onPlatform(idx, platform) {
					continue
				}
				tbl.AppendRow(table.Row{idx.ShortName, idx.LongName, strings.Join(idx.Bands, ", "), idx.Formula})
				n++
			}
			tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d indices", n)})
			tbl.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "only list indices for this platform (e.g. Sentinel-2)")
	return cmd
}

func onPlatform(idx *spectral.Index, platform string) bool {
	for _, p := range idx.Platforms {
		if strings.Contains(strings.ToLower(p), strings.ToLower(platform)) {
			return true
		}
	}
	return false
}

func indexCmd(o *options) *cobra.Command {
	var binds []string
	var format string
	var execute bool
	cmd := &cobra.Command{
		Use:   "index NAME",
		Short: "Render (or execute) a spectral index over bound bands",
		Example: `  wcps index NDVI -b N=S2_L2A.B08 -b R=S2_L2A.B04 --encode png
  wcps index SAVI -b N=S2.B08 -b R=S2.B04 -b L=0.5 --execute`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, ok := spectral.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown spectral index %q (see wcps indices)", args[0])
			}
			env, err := parseBindings(binds)
			if err != nil {
				return err
			}
			n, err := idx.Build(env)
			if err != nil {
				return err
			}
			q, err := finish(n, format)
			if err != nil {
				return err
			}
			if !execute {
				color.New(color.FgCyan).Fprintf(cmd.ErrOrStderr(), "%s: %s = %s\n", idx.ShortName, idx.LongName, idx.Formula)
				fmt.Fprintln(cmd.OutOrStdout(), q)
				return nil
			}
			client, err := o.client(cmd)
			if err != nil {
				return err
			}
			res, err := client.Execute(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res, false)
		},
	}
	cmd.Flags().StringArrayVarP(&binds, "bind", "b", nil, "bind a band symbol: NAME=NUMBER, NAME=CUBE or NAME=CUBE.BAND")
	cmd.Flags().StringVar(&format, "encode", "", "encode the result to this format (e.g. png, tiff, json)")
	cmd.Flags().BoolVar(&execute, "execute", false, "execute the query instead of printing it")
	return cmd
}
