// Copyright 2025 EngFlow Inc. All rights reserved.
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

package ccconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigValidates(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestBitsPerByteBelowEightFails(t *testing.T) {
	c := Default()
	c.BitsPerByte = 7
	errs := c.Validate()
	assert.NotEmpty(t, errs)
}

func TestShortBytesTooNarrowFails(t *testing.T) {
	c := Default()
	c.ShortBytes = 1 // 8 bits, can't reach 65535
	errs := c.Validate()
	assert.NotEmpty(t, errs)
}

func TestLongLongBytesExactlySixtyFourBitsPasses(t *testing.T) {
	c := Default()
	c.LongLongBytes = 8
	c.BitsPerByte = 8
	errs := c.Validate()
	assert.Empty(t, errs)
}

func TestUnusualButValidByteWidths(t *testing.T) {
	// A 9-bit-byte, 18-bit-short/int, 72-bit-long/long-long machine
	// (the classic Unisys-style config spec.md's validation rule must
	// tolerate) still validates.
	c := Config{
		BitsPerByte: 9, SizeBytes: 8, ShortBytes: 2, IntBytes: 2,
		LongBytes: 8, LongLongBytes: 8,
	}
	assert.Empty(t, c.Validate())
}

func TestExpandIncludePathsPassesThroughPlainDirectory(t *testing.T) {
	out, err := ExpandIncludePaths([]string{"."})
	assert.NoError(t, err)
	assert.Contains(t, out, ".")
}
