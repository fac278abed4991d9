// Copyright 2020 CUE Authors
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

package literal

import (
	"strconv"
	"strings"
)

// ParseInt parses the raw source text of an integer literal — decimal,
// 0x/0b/0o prefixed, with optional '_' digit separators — into its 64-bit
// signed value.
func ParseInt(lit string) (int64, error) {
	clean := strings.ReplaceAll(lit, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X"):
		base, clean = 16, clean[2:]
	case strings.HasPrefix(clean, "0b") || strings.HasPrefix(clean, "0B"):
		base, clean = 2, clean[2:]
	case strings.HasPrefix(clean, "0o") || strings.HasPrefix(clean, "0O"):
		base, clean = 8, clean[2:]
	}
	return strconv.ParseInt(clean, base, 64)
}

// ParseFloat parses the raw source text of a float literal — decimal with
// optional fraction/exponent and '_' separators — into its 64-bit value.
func ParseFloat(lit string) (float64, error) {
	clean := strings.ReplaceAll(lit, "_", "")
	return strconv.ParseFloat(clean, 64)
}

// FormatInt renders v as a canonical decimal integer literal.
func FormatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// FormatFloat renders v as a canonical float literal, appending ".0" when
// the shortest form has neither a decimal point nor an exponent, so an
// integral value such as 3 prints as 3.0 rather than as an integer.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
