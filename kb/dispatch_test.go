// Copyright 2025 kernelbench Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package kb

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultBlockSize(t *testing.T) {
	for _, tc := range []struct {
		goos, goarch string
		want         int
	}{
		{"linux", "amd64", 32},
		{"linux", "arm64", 32},
		{"darwin", "amd64", 32},
		{"darwin", "arm64", 64},
	} {
		assert.Equal(t, tc.want, blockSizeFor(tc.goos, tc.goarch), "%s/%s", tc.goos, tc.goarch)
	}
	assert.Equal(t, blockSizeFor(runtime.GOOS, runtime.GOARCH), DefaultBlockSize())
}

func TestDefaultBlockSizeIgnoresLevel(t *testing.T) {
	saved := currentLevel
	t.Cleanup(func() { currentLevel = saved })
	want := blockSizeFor(runtime.GOOS, runtime.GOARCH)
	for _, level := range []DispatchLevel{DispatchScalar, DispatchAVX512, DispatchSVE} {
		currentLevel = level
		assert.Equal(t, want, DefaultBlockSize(), "level %s", level)
	}
}
