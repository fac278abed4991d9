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

import "testing"

func TestParseInt(t *testing.T) {
	tests := []struct {
		lit  string
		want int64
	}{
		{"0", 0},
		{"1234", 1234},
		{"1_000_000", 1000000},
		{"0x1F", 31},
		{"0b1010", 10},
		{"0o17", 15},
	}
	for _, tt := range tests {
		got, err := ParseInt(tt.lit)
		if err != nil {
			t.Fatalf("ParseInt(%q): %v", tt.lit, err)
		}
		if got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.lit, got, tt.want)
		}
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		lit  string
		want float64
	}{
		{"3.14", 3.14},
		{"1e10", 1e10},
		{"1_000.5", 1000.5},
	}
	for _, tt := range tests {
		got, err := ParseFloat(tt.lit)
		if err != nil {
			t.Fatalf("ParseFloat(%q): %v", tt.lit, err)
		}
		if got != tt.want {
			t.Errorf("ParseFloat(%q) = %v, want %v", tt.lit, got, tt.want)
		}
	}
}

func TestFormatFloatAlwaysHasPoint(t *testing.T) {
	if got := FormatFloat(3); got != "3.0" {
		t.Errorf("FormatFloat(3) = %q, want 3.0", got)
	}
}
