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

package pp

import (
	"fmt"

	"github.com/cc11/frontend/internal/ccmacro"
	"github.com/cc11/frontend/internal/cctoken"
	"github.com/cc11/frontend/internal/lexer"
	"github.com/cc11/frontend/internal/source"
)

// Date is the translation's reproducible notion of "now", [6.10.8.1],
// supplied by the driver (cmd/cc11) rather than read from the system
// clock, so a translation is reproducible given the same inputs.
type Date struct {
	Month, Day, Year    int
	Hour, Minute, Second int
}

var monthNames = [...]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// dateString renders d in the `"Mmm dd yyyy"` form [6.10.8.1]/1 mandates
// for __DATE__.
func (d Date) dateString() string {
	month := "???"
	if d.Month >= 1 && d.Month <= 12 {
		month = monthNames[d.Month-1]
	}
	return fmt.Sprintf("%s %2d %04d", month, d.Day, d.Year)
}

// timeString renders d in the `"hh:mm:ss"` form [6.10.8.1]/1 mandates
// for __TIME__.
func (d Date) timeString() string {
	return fmt.Sprintf("%02d:%02d:%02d", d.Hour, d.Minute, d.Second)
}

func stringToken(s string) lexer.Token {
	return lexer.Token{Kind: cctoken.StringLiteral, Spelling: `"` + s + `"`}
}

func ppNumberToken(s string) lexer.Token {
	return lexer.Token{Kind: cctoken.PPNumber, Spelling: s}
}

func definePredefined(table ccmacro.Table, date Date) {
	define := func(name string, body ...lexer.Token) {
		table.Define(&ccmacro.Macro{Name: name, Body: body, Predefined: true})
	}

	define("__STDC__", ppNumberToken("1"))
	define("__STDC_HOSTED__", ppNumberToken("1"))
	define("__STDC_VERSION__", ppNumberToken("201112L"))
	define("__DATE__", stringToken(date.dateString()))
	define("__TIME__", stringToken(date.timeString()))

	// __FILE__ and __LINE__, [6.10.8.1]/1, depend on the expansion
	// site, so their bodies are placeholders; expandOne replaces them
	// with dynamicBody's result rather than with plain substitute().
	define("__FILE__", lexer.Token{Kind: cctoken.Identifier, Spelling: "__FILE__"})
	define("__LINE__", lexer.Token{Kind: cctoken.Identifier, Spelling: "__LINE__"})
}

// dynamicBody resolves __FILE__/__LINE__ against the invocation site,
// since unlike every other predefined macro their expansion depends on
// where they are written rather than being fixed at translation start.
func dynamicBody(name string, loc source.Location) ([]lexer.Token, bool) {
	spelling := source.FindSpellingLoc(loc)
	if spelling.Buffer == nil {
		return nil, false
	}
	rng := source.Range{Begin: loc, End: loc}
	switch name {
	case "__FILE__":
		file, _, _ := spelling.Buffer.PresumedLineCol(spelling.Offset)
		tok := stringToken(file)
		tok.Range = rng
		return []lexer.Token{tok}, true
	case "__LINE__":
		_, line, _ := spelling.Buffer.PresumedLineCol(spelling.Offset)
		tok := ppNumberToken(fmt.Sprintf("%d", line))
		tok.Range = rng
		return []lexer.Token{tok}, true
	default:
		return nil, false
	}
}
