package notifier

import (
	"errors"
	"testing"

	"github.com/newthinker/insiderlog/internal/config"
	"github.com/newthinker/insiderlog/internal/core"
)

type fakeNotifier struct {
	name  string
	err   error
	sends int
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) Init(config.NotifierConfig) error { return nil }

func (f *fakeNotifier) Send(core.Report, []byte) error {
	f.sends++
	return f.err
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&fakeNotifier{name: "a"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&fakeNotifier{name: "a"}); err == nil {
		t.Error("duplicate registration must fail")
	}

	if _, err := r.Get("a"); err != nil {
		t.Errorf("Get: %v", err)
	}
	if _, err := r.Get("missing"); err == nil {
		t.Error("expected error for unknown notifier")
	}
	if len(r.GetAll()) != 1 {
		t.Errorf("expected 1 notifier, got %d", len(r.GetAll()))
	}
}

func TestRegistry_NotifyAllIsolatesFailures(t *testing.T) {
	r := NewRegistry()
	good := &fakeNotifier{name: "good"}
	bad := &fakeNotifier{name: "bad", err: errors.New("boom")}

	if err := r.Register(good); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(bad); err != nil {
		t.Fatalf("Register: %v", err)
	}

	failures := r.NotifyAll(core.Report{RunID: "r1"}, []byte("<html></html>"))

	if good.sends != 1 || bad.sends != 1 {
		t.Errorf("every notifier must be attempted, sends: good=%d bad=%d", good.sends, bad.sends)
	}
	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %v", failures)
	}
	if _, ok := failures["bad"]; !ok {
		t.Errorf("failure should be keyed by notifier name, got %v", failures)
	}
}
