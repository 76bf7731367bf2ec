package lower_test

import (
	"strings"
	"testing"

	"afflint/internal/ast"
	"afflint/internal/diag"
	"afflint/internal/lexer"
	"afflint/internal/lower"
	"afflint/internal/parser"
	"afflint/internal/source"
)

// lowerChart parses and lowers a chart, failing the test on syntax errors
// so every diagnostic in the returned bag comes from the lowering pass.
func lowerChart(t *testing.T, src string) (*ast.File, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.aff", []byte(src))
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}

	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	cstFile := parser.ParseFile(lx, parser.Options{Reporter: rep})
	if bag.Len() != 0 {
		t.Fatalf("unexpected syntax diagnostics: %s", diag.FormatGoldenDiagnostics(bag.Items(), fs, false))
	}

	file := lower.Lower(cstFile, lower.Options{Reporter: rep})
	return file, bag, fs
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestLowerValidChart(t *testing.T) {
	src := "AudioOffset:41\n" +
		"-\n" +
		"timing(0,126.00,4.00);\n" +
		"(1000,2);\n" +
		"hold(2000,2500,3);\n" +
		"arc(3000,4000,0.25,0.75,si,0.00,1.00,0,none,true)[arctap(3500)];\n"

	file, bag, fs := lowerChart(t, src)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.FormatGoldenDiagnostics(bag.Items(), fs, true))
	}

	if got, ok := file.Metadata.Get("AudioOffset"); !ok || got.Value.Value != "41" {
		t.Errorf("AudioOffset = %+v, %v; want 41, true", got, ok)
	}
	if len(file.Items) != 4 {
		t.Fatalf("items = %d, want 4", len(file.Items))
	}

	wantKinds := []ast.EventKind{ast.EventTiming, ast.EventTap, ast.EventHold, ast.EventArc}
	for i, want := range wantKinds {
		if got := file.Items[i].Value.Kind(); got != want {
			t.Errorf("item %d kind = %s, want %s", i, got, want)
		}
	}

	arc := file.Items[3].Value.(*ast.Arc)
	if arc.Curve.Value != ast.CurveSi {
		t.Errorf("arc curve = %s, want si", arc.Curve.Value)
	}
	if arc.Effect.Value != ast.EffectNone {
		t.Errorf("arc effect = %s, want none", arc.Effect.Value)
	}
	if !arc.IsLine.Value {
		t.Errorf("arc is-line = false, want true")
	}
	if len(arc.Taps) != 1 || arc.Taps[0].Value.Time.Value != 3500 {
		t.Errorf("arc taps = %+v, want one arctap at 3500", arc.Taps)
	}
	if arc.XEnd.Value.FracDigits != 2 {
		t.Errorf("arc end x fractional digits = %d, want 2", arc.XEnd.Value.FracDigits)
	}
}

func TestLowerDuplicateMetadataKey(t *testing.T) {
	src := "AudioOffset:41\n" +
		"AudioOffset:42\n" +
		"AudioOffset:43\n" +
		"-\n" +
		"timing(0,126.00,4.00);\n"

	file, bag, _ := lowerChart(t, src)

	// first occurrence wins
	if got, _ := file.Metadata.Get("AudioOffset"); got.Value.Value != "41" {
		t.Errorf("AudioOffset = %q, want 41 (first occurrence)", got.Value.Value)
	}
	if file.Metadata.Len() != 1 {
		t.Errorf("metadata entries = %d, want 1", file.Metadata.Len())
	}

	// one error per duplicate occurrence, each citing the one before it
	var dups []diag.Diagnostic
	for _, d := range bag.Items() {
		if d.Code == diag.LowDuplicateMetadataKey {
			dups = append(dups, d)
		}
	}
	if len(dups) != 2 {
		t.Fatalf("duplicate-key errors = %d, want 2", len(dups))
	}
	line := uint32(len("AudioOffset:41\n"))
	wantNotes := []uint32{0, line}
	for i, d := range dups {
		if len(d.Notes) != 1 {
			t.Fatalf("error %d notes = %d, want 1", i, len(d.Notes))
		}
		if d.Notes[0].Span.Start != wantNotes[i] {
			t.Errorf("error %d note points at offset %d, want %d", i, d.Notes[0].Span.Start, wantNotes[i])
		}
		if d.Primary.Start != line*uint32(i+1) {
			t.Errorf("error %d primary at offset %d, want %d", i, d.Primary.Start, line*uint32(i+1))
		}
	}
}

func TestLowerTap(t *testing.T) {
	tests := []struct {
		name      string
		event     string
		wantItems int
		wantCodes []diag.Code
		wantMsg   string
	}{
		{
			name:      "wrong value count",
			event:     "(1000,2,3);",
			wantItems: 0,
			wantCodes: []diag.Code{diag.LowBadValueCount},
			wantMsg:   "tap expects 2 values, got 3",
		},
		{
			name:      "non-integer time",
			event:     "(10.5,2);",
			wantItems: 0,
			wantCodes: []diag.Code{diag.LowBadValueKind},
			wantMsg:   `time must be a int, got float "10.5"`,
		},
		{
			name:      "track out of range",
			event:     "(1000,5);",
			wantItems: 0,
			wantCodes: []diag.Code{diag.LowBadTrack},
			wantMsg:   "track must be 1, 2, 3 or 4, got 5",
		},
		{
			name:      "valid",
			event:     "(1000,4);",
			wantItems: 1,
		},
		{
			name:      "subevents on tap",
			event:     "(1000,4)[arctap(1000)];",
			wantItems: 1,
			wantCodes: []diag.Code{diag.LowUnexpectedSubevents},
			wantMsg:   "tap should not have subevents",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, bag, _ := lowerChart(t, "AudioOffset:0\n-\n"+tt.event+"\n")
			if len(file.Items) != tt.wantItems {
				t.Errorf("items = %d, want %d", len(file.Items), tt.wantItems)
			}
			got := codes(bag)
			if len(got) != len(tt.wantCodes) {
				t.Fatalf("codes = %v, want %v", got, tt.wantCodes)
			}
			for i := range got {
				if got[i] != tt.wantCodes[i] {
					t.Errorf("code %d = %s, want %s", i, got[i].ID(), tt.wantCodes[i].ID())
				}
			}
			if tt.wantMsg != "" && bag.Len() > 0 {
				if msg := bag.Items()[0].Message; msg != tt.wantMsg {
					t.Errorf("message = %q, want %q", msg, tt.wantMsg)
				}
			}
		})
	}
}

func TestLowerUnknownEventTag(t *testing.T) {
	file, bag, _ := lowerChart(t, "AudioOffset:0\n-\nwobble(1000,2);\n")
	if len(file.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(file.Items))
	}
	if got := codes(bag); len(got) != 1 || got[0] != diag.LowUnknownEventTag {
		t.Fatalf("codes = %v, want [LowUnknownEventTag]", got)
	}
	// the error points at the tag itself
	d := bag.Items()[0]
	if want := uint32(len("AudioOffset:0\n-\n")); d.Primary.Start != want || d.Primary.Len() != uint32(len("wobble")) {
		t.Errorf("primary span = %s, want start %d len 6", d.Primary, want)
	}
}

func TestLowerArcKeepsValidSubevents(t *testing.T) {
	src := "AudioOffset:0\n-\n" +
		"arc(3000,4000,0.25,0.75,si,0.00,1.00,0,none,true)[arctap(3100),(3200,1),arctap(3300)];\n"

	file, bag, _ := lowerChart(t, src)
	if len(file.Items) != 1 {
		t.Fatalf("items = %d, want 1 (arc survives a bad subevent)", len(file.Items))
	}

	arc := file.Items[0].Value.(*ast.Arc)
	if len(arc.Taps) != 2 {
		t.Fatalf("arc taps = %d, want 2", len(arc.Taps))
	}
	if arc.Taps[0].Value.Time.Value != 3100 || arc.Taps[1].Value.Time.Value != 3300 {
		t.Errorf("tap times = %d, %d; want 3100, 3300",
			arc.Taps[0].Value.Time.Value, arc.Taps[1].Value.Time.Value)
	}

	if got := codes(bag); len(got) != 1 || got[0] != diag.LowBadSubevent {
		t.Fatalf("codes = %v, want [LowBadSubevent]", got)
	}
	if msg := bag.Items()[0].Message; msg != "tap should not be a subevent of arc" {
		t.Errorf("message = %q", msg)
	}
}

func TestLowerArctapPlacement(t *testing.T) {
	t.Run("top level rejected", func(t *testing.T) {
		file, bag, _ := lowerChart(t, "AudioOffset:0\n-\narctap(100);\n")
		if len(file.Items) != 0 {
			t.Fatalf("items = %d, want 0", len(file.Items))
		}
		if got := codes(bag); len(got) != 1 || got[0] != diag.LowArctapAsItem {
			t.Fatalf("codes = %v, want [LowArctapAsItem]", got)
		}
	})

	t.Run("nested accepted", func(t *testing.T) {
		src := "AudioOffset:0\n-\narc(0,100,0.00,1.00,b,0.00,0.00,1,full,false)[arctap(100)];\n"
		file, bag, fs := lowerChart(t, src)
		if bag.Len() != 0 {
			t.Fatalf("unexpected diagnostics: %s", diag.FormatGoldenDiagnostics(bag.Items(), fs, true))
		}
		arc := file.Items[0].Value.(*ast.Arc)
		if len(arc.Taps) != 1 {
			t.Fatalf("arc taps = %d, want 1", len(arc.Taps))
		}
	})
}

func TestLowerFailWholeEventKeepsDiagnostics(t *testing.T) {
	// both fields are bad: each produces its own diagnostic, the event
	// yields nothing, no partially populated event appears
	file, bag, _ := lowerChart(t, "AudioOffset:0\n-\n(0.5,9);\n")
	if len(file.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(file.Items))
	}
	got := codes(bag)
	want := []diag.Code{diag.LowBadValueKind, diag.LowBadTrack}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("codes = %v, want %v", got, want)
	}
}

func TestLowerEndToEndMalformedHold(t *testing.T) {
	src := "AudioOffset:0\n-\n" +
		"(1000,2);\n" +
		"timing(0,126.00,4.00);\n" +
		"hold(100,200);\n"

	file, bag, _ := lowerChart(t, src)
	if len(file.Items) != 2 {
		t.Fatalf("items = %d, want 2 (tap and timing survive)", len(file.Items))
	}
	if file.Items[0].Value.Kind() != ast.EventTap || file.Items[1].Value.Kind() != ast.EventTiming {
		t.Errorf("surviving kinds = %s, %s; want tap, timing",
			file.Items[0].Value.Kind(), file.Items[1].Value.Kind())
	}
	if got := codes(bag); len(got) != 1 || got[0] != diag.LowBadValueCount {
		t.Fatalf("codes = %v, want [LowBadValueCount]", got)
	}
	if msg := bag.Items()[0].Message; msg != "hold expects 3 values, got 2" {
		t.Errorf("message = %q", msg)
	}
}

func TestLowerIdempotent(t *testing.T) {
	src := "AudioOffset:41\n" +
		"AudioOffset:41\n" +
		"-\n" +
		"timing(0,126.5,4.00);\n" +
		"hold(100,200);\n" +
		"wobble(1,2);\n"

	var golden []string
	for range 2 {
		_, bag, fs := lowerChart(t, src)
		golden = append(golden, diag.FormatGoldenDiagnostics(bag.Items(), fs, true))
	}
	if golden[0] != golden[1] {
		t.Errorf("lowering is not idempotent:\nfirst:\n%s\nsecond:\n%s", golden[0], golden[1])
	}
	if !strings.Contains(golden[0], "duplicate metadata key") {
		t.Errorf("missing duplicate-key diagnostic in:\n%s", golden[0])
	}
}
