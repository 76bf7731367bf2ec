package check

import (
	"strings"
	"testing"

	"afflint/internal/ast"
	"afflint/internal/diag"
	"afflint/internal/lexer"
	"afflint/internal/lower"
	"afflint/internal/parser"
	"afflint/internal/project"
	"afflint/internal/source"
)

// checkChart runs the full front end plus the checker pipeline and returns
// only the checker diagnostics. The input must lex, parse and lower cleanly.
func checkChart(t *testing.T, src string, cfg *project.Config) *diag.Bag {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("chart.aff", []byte(src))

	front := diag.NewBag(64)
	frontRep := diag.BagReporter{Bag: front}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: frontRep})
	file := lower.Lower(parser.ParseFile(lx, parser.Options{Reporter: frontRep}), lower.Options{Reporter: frontRep})
	if front.Len() != 0 {
		t.Fatalf("front end diagnostics: %s", diag.FormatGoldenDiagnostics(front.Items(), fs, true))
	}

	bag := diag.NewBag(64)
	Run(file, &Context{Reporter: diag.BagReporter{Bag: bag}, Config: cfg})
	return bag
}

func onlyCode(t *testing.T, bag *diag.Bag, want diag.Code) diag.Diagnostic {
	t.Helper()
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1: %+v", bag.Len(), bag.Items())
	}
	d := bag.Items()[0]
	if d.Code != want {
		t.Fatalf("code = %s, want %s", d.Code.ID(), want.ID())
	}
	return d
}

const cleanChart = "AudioOffset:0\n-\ntiming(0,126.00,4.00);\n"

func TestCheckCleanChart(t *testing.T) {
	bag := checkChart(t, cleanChart, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", bag.Items())
	}
}

func TestCheckMetadata(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want diag.Code
		sev  diag.Severity
		msg  string
	}{
		{
			name: "missing required key",
			src:  "Version:1.0\n-\ntiming(0,126.00,4.00);\n",
			want: diag.ChkMissingMetadata,
			sev:  diag.SevError,
			msg:  `required metadata key "AudioOffset" is missing`,
		},
		{
			name: "unknown key",
			src:  "AudioOffset:0\nSongTitle:abc\n-\ntiming(0,126.00,4.00);\n",
			want: diag.ChkUnknownMetadata,
			sev:  diag.SevWarning,
			msg:  `unknown metadata key "SongTitle"`,
		},
		{
			name: "offset must be integer",
			src:  "AudioOffset:fast\n-\ntiming(0,126.00,4.00);\n",
			want: diag.ChkBadMetadataValue,
			sev:  diag.SevError,
			msg:  `AudioOffset must be an integer, got "fast"`,
		},
		{
			name: "density factor must be a number",
			src:  "AudioOffset:0\nTimingPointDensityFactor:dense\n-\ntiming(0,126.00,4.00);\n",
			want: diag.ChkBadMetadataValue,
			sev:  diag.SevError,
			msg:  `TimingPointDensityFactor must be a number, got "dense"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := onlyCode(t, checkChart(t, tt.src, nil), tt.want)
			if d.Severity != tt.sev {
				t.Errorf("severity = %s, want %s", d.Severity, tt.sev)
			}
			if d.Message != tt.msg {
				t.Errorf("message = %q, want %q", d.Message, tt.msg)
			}
		})
	}
}

func TestCheckMetadataPolicyKeys(t *testing.T) {
	cfg := project.Default()
	cfg.Metadata.Required = append(cfg.Metadata.Required, "Side")
	cfg.Metadata.ExtraKnown = append(cfg.Metadata.ExtraKnown, "Designer")

	src := "AudioOffset:0\nSide:1\nDesigner:someone\n-\ntiming(0,126.00,4.00);\n"
	bag := checkChart(t, src, cfg)
	if bag.Len() != 0 {
		t.Fatalf("policy keys flagged: %+v", bag.Items())
	}
}

func TestCheckRanges(t *testing.T) {
	tests := []struct {
		name string
		ev   string
		want diag.Code
		sev  diag.Severity
	}{
		{"negative tap time", "(-5,2);", diag.ChkNegativeTime, diag.SevError},
		{"reversed hold", "hold(200,100,1);", diag.ChkReversedSpan, diag.SevError},
		{"reversed arc", "arc(4000,3000,0.00,1.00,s,0.00,0.00,0,none,false);", diag.ChkReversedSpan, diag.SevError},
		{"x out of range", "arc(0,100,2.00,1.00,s,0.00,0.00,0,none,false);", diag.ChkCoordOutOfRange, diag.SevWarning},
		{"y out of range", "arc(0,100,0.00,1.00,s,-1.00,0.00,0,none,false);", diag.ChkCoordOutOfRange, diag.SevWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := checkChart(t, cleanChart+tt.ev+"\n", nil)
			d := onlyCode(t, bag, tt.want)
			if d.Severity != tt.sev {
				t.Errorf("severity = %s, want %s", d.Severity, tt.sev)
			}
		})
	}
}

func TestCheckRangesBoundary(t *testing.T) {
	// coordinates exactly on the bounds are fine
	src := cleanChart + "arc(0,100,-0.50,1.50,s,0.00,1.00,0,none,false);\n"
	bag := checkChart(t, src, nil)
	if bag.Len() != 0 {
		t.Fatalf("boundary coordinates flagged: %+v", bag.Items())
	}
}

func TestCheckFloatDigits(t *testing.T) {
	t.Run("too few digits warns", func(t *testing.T) {
		bag := checkChart(t, "AudioOffset:0\n-\ntiming(0,120.5,4.00);\n", nil)
		d := onlyCode(t, bag, diag.ChkFloatDigits)
		if d.Severity != diag.SevWarning {
			t.Errorf("severity = %s, want warning", d.Severity)
		}
		if !strings.Contains(d.Message, "2 fractional digits") {
			t.Errorf("message = %q", d.Message)
		}
	})

	t.Run("exact digits pass", func(t *testing.T) {
		bag := checkChart(t, "AudioOffset:0\n-\ntiming(0,120.50,4.00);\n", nil)
		if bag.Len() != 0 {
			t.Fatalf("unexpected diagnostics: %+v", bag.Items())
		}
	})

	t.Run("policy digit count", func(t *testing.T) {
		cfg := project.Default()
		cfg.Format.FloatDigits = 1
		bag := checkChart(t, "AudioOffset:0\n-\ntiming(0,120.5,4.0);\n", cfg)
		if bag.Len() != 0 {
			t.Fatalf("unexpected diagnostics: %+v", bag.Items())
		}
	})
}

func TestCheckTiming(t *testing.T) {
	t.Run("no timing event", func(t *testing.T) {
		bag := checkChart(t, "AudioOffset:0\n-\n(1000,2);\n", nil)
		d := onlyCode(t, bag, diag.ChkNoTiming)
		if d.Severity != diag.SevError {
			t.Errorf("severity = %s, want error", d.Severity)
		}
	})

	t.Run("no base timing", func(t *testing.T) {
		bag := checkChart(t, "AudioOffset:0\n-\ntiming(500,126.00,4.00);\n", nil)
		d := onlyCode(t, bag, diag.ChkNoBaseTiming)
		if d.Severity != diag.SevWarning {
			t.Errorf("severity = %s, want warning", d.Severity)
		}
	})

	t.Run("duplicate timing cites first occurrence", func(t *testing.T) {
		src := cleanChart + "timing(0,130.00,4.00);\n"
		bag := checkChart(t, src, nil)
		d := onlyCode(t, bag, diag.ChkDuplicateTiming)
		if len(d.Notes) != 1 {
			t.Fatalf("notes = %d, want 1", len(d.Notes))
		}
		first := uint32(len("AudioOffset:0\n-\ntiming("))
		if d.Notes[0].Span.Start != first {
			t.Errorf("note at offset %d, want %d", d.Notes[0].Span.Start, first)
		}
	})

	t.Run("negative segment", func(t *testing.T) {
		bag := checkChart(t, cleanChart+"timing(500,126.00,-4.00);\n", nil)
		d := onlyCode(t, bag, diag.ChkBadSegment)
		if d.Severity != diag.SevError {
			t.Errorf("severity = %s, want error", d.Severity)
		}
	})
}

func TestRunIsolatesPanics(t *testing.T) {
	file := &ast.File{}
	bag := diag.NewBag(8)
	ctx := &Context{Reporter: diag.BagReporter{Bag: bag}, Config: project.Default()}

	runIsolated(file, ctx, checker{name: "boom", run: func(*ast.File, *Context) {
		panic("induced failure")
	}})

	d := onlyCode(t, bag, diag.ChkInternal)
	if !strings.Contains(d.Message, `checker "boom" failed: induced failure`) {
		t.Errorf("message = %q", d.Message)
	}
}
