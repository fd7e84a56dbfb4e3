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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/openconfig/ystore/util"
	"github.com/spf13/viper"
	"google.golang.org/grpc/codes"
)

// run executes the ystore command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	c := newRootCmd()
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestEdit(t *testing.T) {
	tests := []struct {
		desc         string
		inArgs       []string
		wantErr      string
		wantContains []string
		wantAbsent   []string
	}{{
		desc:   "rejected straddling create, default case restored",
		inArgs: []string{"edit", "--yang", "testdata/choice.yang", "testdata/straddle.xml", "testdata/list-case.xml", "testdata/remove-list-case.xml"},
		wantErr: "1 of 3 edits rejected",
		wantContains: []string{
			"testdata/straddle.xml: rejected\n  bad-element: Invalid element in choice node  (path /ct:choice-container/ct:list1-type[ct:list-key='key']/ct:case4Container)\n",
			"testdata/list-case.xml: ok, 3 changes\n",
			"-  <leaf-case-mixed>Default value for mixed case</leaf-case-mixed>\n",
			"testdata/remove-list-case.xml: ok, 3 changes\n",
			"<choice-container xmlns=\"urn:choice-test\">\n  <leaf-case-mixed>Default value for mixed case</leaf-case-mixed>\n</choice-container>\n",
		},
	}, {
		desc:    "missing mandatory choice",
		inArgs:  []string{"edit", "--yang", "testdata/choice.yang", "testdata/mandatory.xml"},
		wantErr: "1 of 1 edits rejected",
		wantContains: []string{
			"data-missing: Missing mandatory node - device-connection (path /ct:choice-container/ct:testMandatory[ct:key='test']/ct:device-connection)",
		},
	}, {
		desc:   "test only",
		inArgs: []string{"edit", "--yang", "testdata/choice.yang", "--test_only", "testdata/list-case.xml"},
		wantContains: []string{
			"testdata/list-case.xml: ok, 0 changes\n",
			"<leaf-case-mixed>Default value for mixed case</leaf-case-mixed>",
		},
		wantAbsent: []string{"<list-case-list>"},
	}, {
		desc:       "defaults trimmed by config file",
		inArgs:     []string{"edit", "--yang", "testdata/choice.yang", "--config_file", "testdata/config.yaml", "testdata/list-case.xml", "testdata/remove-list-case.xml"},
		wantAbsent: []string{"<choice-container xmlns=\"urn:choice-test\">\n  <leaf-case-mixed>Default value for mixed case</leaf-case-mixed>\n</choice-container>\n"},
	}, {
		desc:         "notifications",
		inArgs:       []string{"edit", "--yang", "testdata/choice.yang", "--notifications", "testdata/list-case.xml"},
		wantContains: []string{"string_val:", "leaf-case-mixed"},
	}, {
		desc:    "no schema",
		inArgs:  []string{"edit", "testdata/list-case.xml"},
		wantErr: "no YANG files given, use --yang",
	}, {
		desc:    "bad default operation",
		inArgs:  []string{"edit", "--yang", "testdata/choice.yang", "--default_operation", "update", "testdata/list-case.xml"},
		wantErr: "update",
	}}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := run(t, tt.inArgs...)
			switch {
			case err == nil && tt.wantErr != "":
				t.Fatalf("got no error, want %q", tt.wantErr)
			case err != nil && (tt.wantErr == "" || !strings.Contains(err.Error(), tt.wantErr)):
				t.Fatalf("got error %v, want %q", err, tt.wantErr)
			}
			for _, s := range tt.wantContains {
				if !strings.Contains(got, s) {
					t.Errorf("output does not contain %q:\n%s", s, got)
				}
			}
			for _, s := range tt.wantAbsent {
				if strings.Contains(got, s) {
					t.Errorf("output contains %q:\n%s", s, got)
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	got, err := run(t, "validate", "--yang", "testdata/choice.yang", "testdata/list-case.xml")
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, got)
	}
	if !strings.HasSuffix(got, "configuration is valid\n") {
		t.Errorf("validate: got %q, want a valid configuration", got)
	}
}

func TestExitCode(t *testing.T) {
	_, err := run(t, "edit", "--yang", "testdata/choice.yang", "testdata/mandatory.xml")
	if err == nil {
		t.Fatalf("edit: got no error")
	}
	if got, want := exitCode(err), int(codes.FailedPrecondition); got != want {
		t.Errorf("exitCode(%v): got %d, want %d", err, got, want)
	}

	_, err = run(t, "edit", "--yang", "testdata/choice.yang", "testdata/straddle.xml", "testdata/mandatory.xml")
	if got, want := exitCode(err), int(codes.InvalidArgument); got != want {
		t.Errorf("exitCode(%v): got %d, want the code of the first rejection %d", err, got, want)
	}

	if got := exitCode(errors.New("no YANG files given")); got != 1 {
		t.Errorf("exitCode(plain error): got %d, want 1", got)
	}
}

func TestDebugLibrary(t *testing.T) {
	defer util.SetDebug(false)
	tests := []struct {
		desc   string
		inArgs []string
		inEnv  string
		want   bool
	}{{
		desc:   "default",
		inArgs: []string{"validate", "--yang", "testdata/choice.yang"},
	}, {
		desc:   "flag",
		inArgs: []string{"validate", "--yang", "testdata/choice.yang", "--debug_library"},
		want:   true,
	}, {
		desc:   "config file",
		inArgs: []string{"validate", "--yang", "testdata/choice.yang", "--config_file", "testdata/debug.yaml"},
		want:   true,
	}, {
		desc:   "environment",
		inArgs: []string{"validate", "--yang", "testdata/choice.yang"},
		inEnv:  "true",
		want:   true,
	}}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if tt.inEnv != "" {
				t.Setenv("DEBUG_LIBRARY", tt.inEnv)
			}
			util.SetDebug(false)
			if got, err := run(t, tt.inArgs...); err != nil {
				t.Fatalf("validate: %v\n%s", err, got)
			}
			if got := util.Debugging(); got != tt.want {
				t.Errorf("Debugging(): got %v, want %v", got, tt.want)
			}
		})
	}
}
