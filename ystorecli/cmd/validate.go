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
	"fmt"

	"github.com/openconfig/ystore/datastore"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		RunE:  runValidate,
		Short: "Applies edit-config files and validates the resulting configuration, defaults included.",
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	st, err := loadStore()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for _, file := range args {
		if _, err := applyFile(ctx, out, st, file, datastore.EditOptions{}); err != nil {
			return err
		}
	}
	errs := st.Validate(ctx)
	for _, e := range errs {
		fmt.Fprintf(out, "%s\n", e)
	}
	if errs != nil {
		return fmt.Errorf("configuration is invalid: %d errors: %w", len(errs), errs[0])
	}
	fmt.Fprintln(out, "configuration is valid")
	return nil
}
