// Copyright 2026 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd implements the ystore command line.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/openconfig/ystore/datastore"
	"github.com/openconfig/ystore/datatree"
	"github.com/openconfig/ystore/util"
	"github.com/openconfig/ystore/yangschema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	log "github.com/golang/glog"
)

// Execute runs the ystore command. A run failing on rejected edits or an
// invalid configuration exits with the gRPC code of the first rpc-error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		log.Flush()
		os.Exit(exitCode(err))
	}
}

// exitCode returns the gRPC code carried by err, or 1 if it has none.
func exitCode(err error) int {
	if s, ok := status.FromError(err); ok && s.Code() != codes.OK {
		return int(s.Code())
	}
	return 1
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ystore",
		Short:        "ystore validates and applies NETCONF edit-config requests against YANG modules",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	addSchemaFlags(rootCmd.PersistentFlags())

	cfgFile := rootCmd.PersistentFlags().String("config_file", "", "Path to config file.")
	rootCmd.PersistentFlags().Bool("debug_library", false, "Trace the merge and validation walks to stdout.")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
		viper.BindPFlags(cmd.Flags())
		viper.AutomaticEnv()
		util.SetDebug(viper.GetBool("debug_library"))
		return nil
	}

	rootCmd.AddCommand(newEditCmd(), newValidateCmd())
	return rootCmd
}

func addSchemaFlags(fs *pflag.FlagSet) {
	fs.StringSlice("yang", nil, "YANG files to load.")
	fs.StringSlice("path", nil, "Directories searched for imported and included YANG modules.")
}

// loadStore compiles the YANG files given by the yang flag and returns an
// empty store for them.
func loadStore() (*datastore.Store, error) {
	files := viper.GetStringSlice("yang")
	if len(files) == 0 {
		return nil, errors.New("no YANG files given, use --yang")
	}
	s, err := yangschema.LoadFiles(files, viper.GetStringSlice("path"))
	if err != nil {
		return nil, err
	}
	return datastore.NewStore(s, datastore.Options{})
}

// render returns the configuration of st selected by opts as XML.
func render(ctx context.Context, st *datastore.Store, opts datastore.GetOptions) (string, error) {
	trees, err := st.GetConfig(ctx, opts)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := datatree.RenderXML(&buf, trees); err != nil {
		return "", err
	}
	if buf.Len() != 0 {
		buf.WriteString("\n")
	}
	return buf.String(), nil
}
