package rcheevos

import "testing"

func validLboardSource() string {
	return "STA:0xH1000=1::CAN:0xH1001=1::SUB:0xH1002=1::VAL:0xH1003"
}

func TestCompileLeaderboardValid(t *testing.T) {
	reg := NewRegistry()
	lb, err := CompileLeaderboard(validLboardSource(), reg)
	if err != nil {
		t.Fatalf("CompileLeaderboard() error = %v", err)
	}
	if lb.Start == nil || lb.Cancel == nil || lb.Submit == nil || lb.Value == nil {
		t.Fatalf("got %+v, want all required fields populated", lb)
	}
}

func TestCompileLeaderboardWithProgress(t *testing.T) {
	reg := NewRegistry()
	src := validLboardSource() + "::PRO:0xH1004"
	lb, err := CompileLeaderboard(src, reg)
	if err != nil {
		t.Fatalf("CompileLeaderboard() error = %v", err)
	}
	if lb.Progress == nil {
		t.Fatal("expected a progress value to be compiled")
	}
}

func TestCompileLeaderboardMissingField(t *testing.T) {
	reg := NewRegistry()
	src := "STA:0xH1000=1::CAN:0xH1001=1::VAL:0xH1003"
	if _, err := CompileLeaderboard(src, reg); err == nil {
		t.Fatal("expected ErrMissingSubmit")
	}
}

func TestCompileLeaderboardDuplicateField(t *testing.T) {
	reg := NewRegistry()
	src := validLboardSource() + "::STA:0xH1005=1"
	if _, err := CompileLeaderboard(src, reg); err == nil {
		t.Fatal("expected ErrDuplicatedStart")
	}
}

func TestCompileLeaderboardUnknownField(t *testing.T) {
	reg := NewRegistry()
	src := validLboardSource() + "::XYZ:1"
	if _, err := CompileLeaderboard(src, reg); err == nil {
		t.Fatal("expected an error for an unknown field key")
	}
}
