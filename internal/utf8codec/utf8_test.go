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

package utf8codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeasureASCII(t *testing.T) {
	n, err := Measure([]byte("a"))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMeasureMultiByte(t *testing.T) {
	// U+00E9 'é' is 2 bytes: 0xC3 0xA9.
	n, err := Measure([]byte{0xC3, 0xA9})
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMeasureRejectsBareContinuation(t *testing.T) {
	_, err := Measure([]byte{0x80})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestMeasureRejectsEmptyInput(t *testing.T) {
	_, err := Measure(nil)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestDecodeRoundTripsThroughEncode(t *testing.T) {
	for _, cp := range []rune{'A', 0xE9, 0x20AC, 0x1F600} {
		var buf []byte
		buf = Encode(buf, cp)
		got, err := Decode(buf)
		assert.NoError(t, err)
		assert.Equal(t, cp, got)
	}
}

func TestDecodeRejectsTruncatedSequence(t *testing.T) {
	_, err := Decode([]byte{0xE2, 0x82}) // 3-byte lead, only 2 bytes present
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestDecodeRejectsBadContinuationByte(t *testing.T) {
	_, err := Decode([]byte{0xC3, 0x00})
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestToUCNFourHexDigits(t *testing.T) {
	assert.Equal(t, `\u00E9`, ToUCN(0xE9))
}

func TestToUCNEightHexDigits(t *testing.T) {
	assert.Equal(t, `\U0001F600`, ToUCN(0x1F600))
}
