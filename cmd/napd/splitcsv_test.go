package main

import (
	"reflect"
	"testing"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"*", []string{"*"}},
		{"a,b", []string{"a", "b"}},
		{" a , ,b ,", []string{"a", "b"}},
	}
	for _, tc := range cases {
		got := splitCSV(tc.in)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitCSV(%q)=%v want %v", tc.in, got, tc.want)
		}
	}
}

func TestMergeConfigFileWinsOverFlagDefaults(t *testing.T) {
	file := configFixture(":1111", "sim", "debug")
	file.CORSOrigins = []string{"https://ok.example"}
	// Nothing set on the command line, so the flag defaults must not
	// shadow the file.
	flags := configFixture(":7979", "auto", "info")
	flags.CORSOrigins = []string{"*"}

	out := mergeConfig(file, flags, map[string]bool{})
	if out.Addr != ":1111" || out.Backend != "sim" || out.LogLevel != "debug" {
		t.Fatalf("file values lost: %+v", out)
	}
	if !reflect.DeepEqual(out.CORSOrigins, []string{"https://ok.example"}) {
		t.Fatalf("cors origins lost: %v", out.CORSOrigins)
	}
}

func TestMergeConfigExplicitFlagWins(t *testing.T) {
	file := configFixture(":1111", "sim", "debug")
	flags := configFixture(":2222", "auto", "info")

	out := mergeConfig(file, flags, map[string]bool{"addr": true})
	if out.Addr != ":2222" {
		t.Fatalf("explicit flag lost: addr=%q", out.Addr)
	}
	if out.Backend != "sim" || out.LogLevel != "debug" {
		t.Fatalf("file values lost: %+v", out)
	}
}

func TestMergeConfigFlagFillsMissingFileValue(t *testing.T) {
	file := configFixture(":1111", "", "")
	flags := configFixture(":7979", "auto", "info")

	out := mergeConfig(file, flags, map[string]bool{})
	if out.Addr != ":1111" {
		t.Fatalf("addr=%q", out.Addr)
	}
	if out.Backend != "auto" || out.LogLevel != "info" {
		t.Fatalf("flag fallback lost: %+v", out)
	}
}
