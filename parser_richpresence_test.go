package rcheevos

import "testing"

func TestCompileRichPresenceLookupAndDefault(t *testing.T) {
	src := "Lookup:Zone\n1=Forest\n2=Cave\n*=Unknown\n\nDisplay:\n@Zone(0xH1000)\n"
	rp, err := CompileRichPresence(src, NewRegistry())
	if err != nil {
		t.Fatalf("CompileRichPresence() error = %v", err)
	}
	lk, ok := rp.Lookups["Zone"]
	if !ok {
		t.Fatal("expected a Zone lookup")
	}
	if lk.Entries[1] != "Forest" || lk.Default != "Unknown" || !lk.HasDefault {
		t.Fatalf("got %+v, want Forest/Unknown default", lk)
	}
	if len(rp.Displays) != 1 || len(rp.Displays[0].Parts) != 1 || !rp.Displays[0].Parts[0].IsMacro {
		t.Fatalf("got %+v, want a single macro display part", rp.Displays)
	}
}

func TestCompileRichPresenceFormat(t *testing.T) {
	src := "Format:Score\nFormatType=VALUE\n\nDisplay:\nScore: @Score(0xH2000)\n"
	rp, err := CompileRichPresence(src, NewRegistry())
	if err != nil {
		t.Fatalf("CompileRichPresence() error = %v", err)
	}
	if rp.Formats["Score"] != FormatValue {
		t.Fatalf("got %v, want FormatValue", rp.Formats["Score"])
	}
}

func TestCompileRichPresenceConditionalDisplay(t *testing.T) {
	src := "Display:\n?0xH1000=1?In battle\nExploring\n"
	rp, err := CompileRichPresence(src, NewRegistry())
	if err != nil {
		t.Fatalf("CompileRichPresence() error = %v", err)
	}
	if len(rp.Displays) != 2 {
		t.Fatalf("got %d display clauses, want 2", len(rp.Displays))
	}
	if rp.Displays[0].Trigger == nil {
		t.Fatal("first clause should be conditional")
	}
	if rp.Displays[1].Trigger != nil {
		t.Fatal("second (default) clause should be unconditional")
	}
}

func TestCompileRichPresenceCommentStripping(t *testing.T) {
	src := "// a leading comment\nDisplay:\nHello // trailing comment\n"
	rp, err := CompileRichPresence(src, NewRegistry())
	if err != nil {
		t.Fatalf("CompileRichPresence() error = %v", err)
	}
	if rp.Displays[0].Parts[0].Literal != "Hello" {
		t.Fatalf("got %q, want %q", rp.Displays[0].Parts[0].Literal, "Hello")
	}
}

func TestCompileRichPresenceMissingDisplay(t *testing.T) {
	src := "Lookup:Zone\n1=Forest\n"
	if _, err := CompileRichPresence(src, NewRegistry()); err == nil {
		t.Fatal("expected ErrMissingDisplayString")
	}
}

func TestCompileRichPresenceUnknownMacro(t *testing.T) {
	src := "Display:\n@Bogus(0xH1000)\n"
	if _, err := CompileRichPresence(src, NewRegistry()); err == nil {
		t.Fatal("expected an error for an unresolved macro reference")
	}
}
