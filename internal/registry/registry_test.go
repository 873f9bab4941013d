package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-pong/internal/core"
)

type stubGame struct{ id string }

func (s *stubGame) ID() string { return s.id }
func (s *stubGame) Title() string { return "Stub" }
func (s *stubGame) Reset(core.RuntimeConfig) {}
func (s *stubGame) Step(core.MultiInputFrame) core.StepResult { return core.StepResult{} }
func (s *stubGame) Render(*core.Screen) {}
func (s *stubGame) State() core.GameState { return core.GameState{} }

func TestRegisterAndCreate(t *testing.T) {
	var gotEnv Env
	Register("stub_ok", "Stub OK", func(env Env) (Game, error) {
		gotEnv = env
		return &stubGame{id: "stub_ok"}, nil
	})

	if !Exists("stub_ok") {
		t.Fatal("Exists(stub_ok) = false, expected true")
	}

	g, err := Create("stub_ok", Env{Difficulty: "hard"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if g.ID() != "stub_ok" {
		t.Errorf("ID() = %q, expected stub_ok", g.ID())
	}
	if gotEnv.Difficulty != "hard" {
		t.Errorf("factory saw difficulty %q, expected hard", gotEnv.Difficulty)
	}
	if gotEnv.Logger == nil {
		t.Error("factory should receive a non-nil logger")
	}

	found := false
	for _, info := range List() {
		if info.ID == "stub_ok" && info.Title == "Stub OK" {
			found = true
		}
	}
	if !found {
		t.Error("List() should include stub_ok with its title")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("does_not_exist", Env{}); err == nil {
		t.Error("Create() of unknown id should fail")
	}
}

func TestCreateWrapsFactoryError(t *testing.T) {
	boom := errors.New("boom")
	Register("stub_fail", "Stub Fail", func(Env) (Game, error) { return nil, boom })

	_, err := Create("stub_fail", Env{})
	if !errors.Is(err, boom) {
		t.Errorf("Create() error = %v, expected to wrap boom", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub_dup", "Dup", func(Env) (Game, error) { return &stubGame{}, nil })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("stub_dup", "Dup", func(Env) (Game, error) { return &stubGame{}, nil })
}
