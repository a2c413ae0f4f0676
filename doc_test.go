// Copyright 2025 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lagd

import (
	"runtime/debug"
	"testing"
)

func TestVersion(t *testing.T) {
	const root = "github.com/go-lpc/lagd"
	for _, tc := range []struct {
		name string
		info *debug.BuildInfo
		vers string
		sum  string
	}{
		{
			name: "nil",
		},
		{
			name: "no-dep",
			info: &debug.BuildInfo{},
		},
		{
			name: "dep",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{
					{Path: "golang.org/x/sys", Version: "v0.7.0"},
					{Path: root, Version: "v0.1.0", Sum: "h1:xyz"},
				},
			},
			vers: "v0.1.0",
			sum:  "h1:xyz",
		},
		{
			name: "replace-path-version",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: root, Version: "v0.1.0",
					Replace: &debug.Module{Path: "example.org/lagd", Version: "v0.2.0", Sum: "h1:abc"},
				}},
			},
			vers: "example.org/lagd v0.2.0",
			sum:  "h1:abc",
		},
		{
			name: "replace-local",
			info: &debug.BuildInfo{
				Deps: []*debug.Module{{
					Path: root, Version: "v0.1.0",
					Replace: &debug.Module{},
				}},
			},
			vers: "v0.1.0*",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			vers, sum := versionOf(tc.info)
			if got, want := vers, tc.vers; got != want {
				t.Fatalf("invalid version: got=%q, want=%q", got, want)
			}
			if got, want := sum, tc.sum; got != want {
				t.Fatalf("invalid sum: got=%q, want=%q", got, want)
			}
		})
	}
}
