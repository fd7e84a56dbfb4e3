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

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/openconfig/ystore/datastore"
	"github.com/openconfig/ystore/edit"
	"github.com/openconfig/ystore/notify"
	"github.com/openconfig/ystore/rpcerr"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/encoding/prototext"
)

func newEditCmd() *cobra.Command {
	editCmd := &cobra.Command{
		Use:   "edit",
		RunE:  runEdit,
		Short: "Applies edit-config files in order, showing how each changes the configuration.",
		Args:  cobra.MinimumNArgs(1),
	}

	editCmd.Flags().String("default_operation", "merge", "Operation of elements without one: merge, replace or none.")
	editCmd.Flags().Bool("test_only", false, "Validate the edits without committing them.")
	editCmd.Flags().String("with_defaults", "report-all", "How the final configuration shows defaults: report-all, trim or explicit.")
	editCmd.Flags().StringSlice("filter", nil, "Schema paths selecting the subtrees of the final configuration to print.")
	editCmd.Flags().Bool("notifications", false, "Print the gNMI notification of each commit.")

	return editCmd
}

func editFromFile(file string) ([]*edit.Node, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return edit.ParseXML(f)
}

func runEdit(cmd *cobra.Command, args []string) error {
	defOp, err := edit.ParseDefaultOperation(viper.GetString("default_operation"))
	if err != nil {
		return err
	}
	wd, err := datastore.ParseWithDefaults(viper.GetString("with_defaults"))
	if err != nil {
		return err
	}
	st, err := loadStore()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if viper.GetBool("notifications") {
		st.RegisterSubsystem(notify.SubsystemFunc(func(_ context.Context, records []notify.ChangeRecord) error {
			_, err := fmt.Fprintln(out, prototext.Format(notify.ToNotification(records, time.Now().UnixNano())))
			return err
		}))
	}

	ctx := cmd.Context()
	opts := datastore.EditOptions{DefaultOperation: defOp, TestOnly: viper.GetBool("test_only")}
	var (
		rejected int
		first    error
	)
	for _, file := range args {
		errs, err := applyFile(ctx, out, st, file, opts)
		if err != nil {
			return err
		}
		if errs != nil {
			rejected++
			if first == nil {
				first = errs[0]
			}
		}
	}

	final, err := render(ctx, st, datastore.GetOptions{
		Filter:       viper.GetStringSlice("filter"),
		WithDefaults: wd,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(out, final)
	if rejected != 0 {
		return fmt.Errorf("%d of %d edits rejected: %w", rejected, len(args), first)
	}
	return nil
}

// applyFile applies the edit-config in file to st and writes the errors,
// or the diff of the configuration, to out. It returns the rpc-errors of a
// rejected edit.
func applyFile(ctx context.Context, out io.Writer, st *datastore.Store, file string, opts datastore.EditOptions) (rpcerr.List, error) {
	req, err := editFromFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	before, err := render(ctx, st, datastore.GetOptions{})
	if err != nil {
		return nil, err
	}
	res := st.EditConfig(ctx, datastore.EditRequest{Config: req, Options: opts})
	if !res.OK {
		fmt.Fprintf(out, "%s: rejected\n", file)
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return res.Errors, nil
	}
	after, err := render(ctx, st, datastore.GetOptions{})
	if err != nil {
		return nil, err
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   file,
		Context:  3,
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "%s: ok, %d changes\n%s", file, len(res.Changes), diff)
	return nil, nil
}
