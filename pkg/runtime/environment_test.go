package runtime

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", NumberValue{Val: 1})

	got, err := env.Get("a")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != (NumberValue{Val: 1}) {
		t.Errorf("Get = %#v, want NumberValue{1}", got)
	}
}

func TestDefineShadowsInChildScope(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("a", StringValue{Val: "parent"})

	child := parent.Extend()
	child.Define("a", StringValue{Val: "child"})

	got, _ := child.Get("a")
	if got != (StringValue{Val: "child"}) {
		t.Errorf("child Get = %#v, want shadowing binding", got)
	}
	got, _ = parent.Get("a")
	if got != (StringValue{Val: "parent"}) {
		t.Errorf("parent Get = %#v, want original binding", got)
	}
}

func TestGetWalksChain(t *testing.T) {
	grand := NewEnvironment(nil)
	grand.Define("x", BoolValue{Val: true})
	child := grand.Extend().Extend()

	got, err := child.Get("x")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != (BoolValue{Val: true}) {
		t.Errorf("Get = %#v, want binding from outer scope", got)
	}
}

func TestAssignUpdatesNearestBinding(t *testing.T) {
	parent := NewEnvironment(nil)
	parent.Define("a", NumberValue{Val: 1})
	child := parent.Extend()

	if err := child.Assign("a", NumberValue{Val: 2}); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	got, _ := parent.Get("a")
	if got != (NumberValue{Val: 2}) {
		t.Errorf("parent binding = %#v, want updated value", got)
	}
}

func TestAssignNeverCreates(t *testing.T) {
	env := NewEnvironment(nil).Extend()
	err := env.Assign("ghost", NilValue{})
	if err == nil {
		t.Fatal("Assign of unknown name should fail")
	}
	var rtErr *Error
	if !errors.As(err, &rtErr) || rtErr.Kind != UndefinedVariable {
		t.Errorf("error = %v, want UndefinedVariable", err)
	}
	if _, getErr := env.Get("ghost"); getErr == nil {
		t.Error("failed Assign must not create a binding")
	}
}

func TestGetUnknownName(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get("nope")
	var rtErr *Error
	if !errors.As(err, &rtErr) || rtErr.Kind != UndefinedVariable {
		t.Fatalf("error = %v, want UndefinedVariable", err)
	}
	if rtErr.Message != "Undefined variable 'nope'." {
		t.Errorf("message = %q", rtErr.Message)
	}
}

func TestKeysAreSorted(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("zeta", NilValue{})
	env.Define("alpha", NilValue{})
	env.Define("mid", NilValue{})

	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, env.Keys()); diff != "" {
		t.Errorf("Keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSharedEnvironmentIsByReference(t *testing.T) {
	shared := NewEnvironment(nil)
	shared.Define("count", NumberValue{Val: 0})

	viewA := shared.Extend()
	viewB := shared.Extend()

	if err := viewA.Assign("count", NumberValue{Val: 5}); err != nil {
		t.Fatalf("Assign returned error: %v", err)
	}
	got, _ := viewB.Get("count")
	if got != (NumberValue{Val: 5}) {
		t.Errorf("sibling scope sees %#v, want shared mutation", got)
	}
}
