package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	l, err := New("", false)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("development logger should log debug")
	}

	p, err := New("", true)
	if err != nil {
		t.Fatal(err)
	}
	if p.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("production logger should not log debug by default")
	}

	w, err := New("WARN", false)
	if err != nil {
		t.Fatal(err)
	}
	if w.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("LOG_LEVEL=warn should drop info")
	}
}

func TestNew_BadLevelFallsBack(t *testing.T) {
	l, err := New("loud", false)
	if err != nil {
		t.Fatal(err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("bad level should keep the default")
	}
}

func TestEmailDigest(t *testing.T) {
	a := Email("User@X.com ")
	b := Email("user@x.com")
	if a.String != b.String {
		t.Fatal("digest must normalise case and whitespace")
	}
	if a.String == "user@x.com" || len(a.String) != 16 {
		t.Fatalf("unexpected digest %q", a.String)
	}
}
