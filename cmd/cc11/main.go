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

// Command cc11 is the driver of spec.md section 6's external
// interface: a C11 preprocessing front end that translates its
// arguments through phases 1-7 and the Pratt parser, reporting
// diagnostics in the format section 6 mandates.
package main

import "os"

func main() {
	os.Exit(Execute())
}
