package main

import (
	"errors"
	"testing"
)

func TestParseFlagsInterleaved(t *testing.T) {
	fs := newFlagSet("messages")
	send := fs.String("send", "", "")
	follow := fs.Bool("follow", false, "")

	positional, err := parseFlags(fs, []string{"abc", "-send", "hi there", "-follow"})
	if err != nil {
		t.Fatal(err)
	}
	if len(positional) != 1 || positional[0] != "abc" {
		t.Fatalf("positional = %v", positional)
	}
	if *send != "hi there" || !*follow {
		t.Fatalf("send = %q follow = %v", *send, *follow)
	}

	if _, err := parseFlags(newFlagSet("x"), []string{"-nope"}); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestParseStops(t *testing.T) {
	stops, err := parseStops("Downtown@40.7128,-74.0060; Airport @ 40.6413, -73.7781")
	if err != nil {
		t.Fatal(err)
	}
	if len(stops) != 2 || stops[1].Name != "Airport" || stops[1].Location.Longitude != -73.7781 {
		t.Fatalf("stops = %+v", stops)
	}

	if stops, err := parseStops(""); err != nil || stops != nil {
		t.Fatalf("empty input: %v %v", stops, err)
	}
	for _, bad := range []string{"Downtown", "Downtown@40.7", "Downtown@x,1"} {
		if _, err := parseStops(bad); !errors.Is(err, errUsage) {
			t.Errorf("parseStops(%q) err = %v", bad, err)
		}
	}
}

func TestRequired(t *testing.T) {
	if err := required(map[string]string{"email": "a@b.c"}); err != nil {
		t.Fatal(err)
	}
	err := required(map[string]string{"email": " ", "password": ""})
	if !errors.Is(err, errUsage) || err.Error() != "usage: missing -email, -password" {
		t.Fatalf("err = %v", err)
	}
}
