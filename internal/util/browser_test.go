package util

import "testing"

func TestBrowserCommands(t *testing.T) {
	win := browserCommands("windows", "http://localhost:20261")
	if len(win) != 2 || win[0][0] != "rundll32" || win[1][0] != "explorer" {
		t.Fatalf("unexpected windows commands: %v", win)
	}
	if mac := browserCommands("darwin", "u"); len(mac) != 1 || mac[0][0] != "open" {
		t.Fatalf("unexpected darwin commands: %v", mac)
	}
	linux := browserCommands("linux", "u")
	if linux[0][0] != "xdg-open" || len(linux) != 5 {
		t.Fatalf("unexpected linux commands: %v", linux)
	}
	for _, c := range linux {
		if c[len(c)-1] != "u" {
			t.Fatalf("url not passed: %v", c)
		}
	}
}
