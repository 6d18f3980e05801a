package lang

import (
	"slices"
	"testing"
)

func TestEnvironment_DefineGet(t *testing.T) {
	env := NewEnvironment()

	if _, ok := env.Get("x"); ok {
		t.Fatal("unexpected binding in new environment")
	}

	env.Define("x", Number(1))
	env.Define("x", Number(2))

	v, ok := env.Get("x")
	if !ok || v != Number(2) {
		t.Errorf("Get(x) = %v, %v; want 2, true", v, ok)
	}

	if env.Len() != 1 {
		t.Errorf("Len() = %d, want 1", env.Len())
	}
}

func TestEnvironment_Shadowing(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Number(1))

	prev := env.Enter()
	if prev != RootScope {
		t.Fatalf("Enter() = %d, want root", prev)
	}

	env.Define("x", Number(2))

	if v, _ := env.Get("x"); v != Number(2) {
		t.Errorf("inner x = %v, want 2", v)
	}

	env.Leave(prev)

	if v, _ := env.Get("x"); v != Number(1) {
		t.Errorf("outer x = %v, want 1", v)
	}
}

func TestEnvironment_Assign(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Number(1))

	prev := env.Enter()

	if !env.Assign("x", Number(5)) {
		t.Fatal("Assign(x) = false")
	}

	if env.Assign("y", Number(1)) {
		t.Error("Assign(y) created a binding")
	}

	if _, ok := env.Get("y"); ok {
		t.Error("y is bound after failed assignment")
	}

	env.Leave(prev)

	if v, _ := env.Get("x"); v != Number(5) {
		t.Errorf("x = %v, want 5", v)
	}
}

func TestEnvironment_AssignSkipsGaps(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Number(1))

	first := env.Enter()
	second := env.Enter()
	env.Enter()

	if !env.Assign("x", Text("deep")) {
		t.Fatal("Assign(x) = false")
	}

	env.Leave(second)
	env.Leave(first)

	if v, _ := env.Get("x"); v != Text("deep") {
		t.Errorf("x = %v, want deep", v)
	}
}

func TestEnvironment_Parent(t *testing.T) {
	env := NewEnvironment()

	if _, ok := env.Parent(RootScope); ok {
		t.Error("root scope has a parent")
	}

	if _, ok := env.Parent(ScopeID(42)); ok {
		t.Error("invalid handle has a parent")
	}

	prev := env.Enter()
	child := env.Active()

	parent, ok := env.Parent(child)
	if !ok || parent != prev {
		t.Errorf("Parent(%d) = %d, %v; want %d, true", child, parent, ok, prev)
	}
}

func TestEnvironment_FramesAreRetained(t *testing.T) {
	env := NewEnvironment()

	for range 3 {
		prev := env.Enter()
		env.Leave(prev)
	}

	if env.Len() != 4 {
		t.Errorf("Len() = %d, want 4", env.Len())
	}

	if env.Active() != RootScope {
		t.Errorf("Active() = %d, want root", env.Active())
	}
}

func TestEnvironment_LeaveInvalid(t *testing.T) {
	env := NewEnvironment()
	env.Enter()

	active := env.Active()
	env.Leave(ScopeID(-1))
	env.Leave(ScopeID(99))

	if env.Active() != active {
		t.Errorf("Active() = %d, want %d", env.Active(), active)
	}
}

func TestEnvironment_Names(t *testing.T) {
	env := NewEnvironment()
	env.Define("b", Nil{})
	env.Define("a", Nil{})

	prev := env.Enter()
	env.Define("c", Nil{})
	env.Define("a", Bool(true))

	if got, want := env.Names(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	env.Leave(prev)

	if got, want := env.Names(), []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
