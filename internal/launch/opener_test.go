package launch

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultCommand(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
		"plan9":   "open",
	}
	for goos, want := range expected {
		if got := DefaultCommand(goos); got != want {
			t.Errorf("DefaultCommand(%q) = %q, want %q", goos, got, want)
		}
	}
}

func TestOpener_Command(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		goos     string
		wantName string
		wantArgs []string
	}{
		{"linux default", "", "linux", "xdg-open", []string{"http://localhost:8000"}},
		{"darwin default", "", "darwin", "open", []string{"http://localhost:8000"}},
		{"windows start", "", "windows", "cmd", []string{"/c", "start", "", "http://localhost:8000"}},
		{"configured", "firefox", "linux", "firefox", []string{"http://localhost:8000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{command: tt.command, goos: tt.goos}
			name, args := o.Command("http://localhost:8000")
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestOpener_Open(t *testing.T) {
	var gotName string
	var gotArgs []string
	o := &Opener{goos: "linux", start: func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}}

	if err := o.Open("http://localhost:8000"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if gotName != "xdg-open" || !reflect.DeepEqual(gotArgs, []string{"http://localhost:8000"}) {
		t.Errorf("started %q %v", gotName, gotArgs)
	}
}

func TestOpener_RejectsNonHTTP(t *testing.T) {
	called := false
	o := &Opener{goos: "linux", start: func(string, ...string) error {
		called = true
		return nil
	}}

	for _, target := range []string{"file:///etc/passwd", "javascript:alert(1)", "/relative", "http://"} {
		if err := o.Open(target); err == nil {
			t.Errorf("Open(%q) should fail", target)
		}
	}
	if called {
		t.Error("no process should be started for rejected URLs")
	}
}

func TestOpener_StartError(t *testing.T) {
	o := &Opener{goos: "linux", start: func(string, ...string) error {
		return errors.New("not found")
	}}
	if err := o.Open("https://news.example.org"); err == nil {
		t.Error("expected start error to be returned")
	}
}
