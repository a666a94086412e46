package uploadrules

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/gobeaver/uploadrules/sniff"
)

func newAvatarValidator(t *testing.T, detector sniff.Detector, opts ...ValidatorOption) *Validator {
	t.Helper()

	size, err := MaxSize(1 * MB)
	if err != nil {
		t.Fatal(err)
	}
	ext, err := Extensions("png", "jpg")
	if err != nil {
		t.Fatal(err)
	}
	mime, err := MIMETypes(detector, "image/png", "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	dims, err := Dimensions(Bounds{
		Min: &Box{W: Px(100), H: Px(100)},
		Max: &Box{W: Px(500), H: Px(500)},
	})
	if err != nil {
		t.Fatal(err)
	}

	v := NewValidator(NewTable(size, ext, mime, dims), opts...)
	if err := v.Bind("avatar", RuleFileSize, RuleExtension, RuleMIMEType, RuleDimensions); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if err := v.Bind("attachments.*", RuleFileSize); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	return v
}

func TestValidator_Validate(t *testing.T) {
	v := newAvatarValidator(t, sniff.NewMagic())

	tests := []struct {
		name       string
		file       File
		wantValid  bool
		wantFailed []string
	}{
		{
			name:      "valid avatar",
			file:      writeUpload(t, "me.png", encodeImage(t, "png", 200, 200)),
			wantValid: true,
		},
		{
			name:       "too wide",
			file:       writeUpload(t, "wide.png", encodeImage(t, "png", 600, 300)),
			wantFailed: []string{RuleDimensions},
		},
		{
			name:       "wrong extension and content",
			file:       writeUpload(t, "notes.txt", []byte("plain words")),
			wantFailed: []string{RuleExtension, RuleMIMEType, RuleDimensions},
		},
		{
			name: "reported size over limit",
			file: func() File {
				f := writeUpload(t, "big.png", encodeImage(t, "png", 200, 200))
				f.Size = 1*MB + 1
				return f
			}(),
			wantFailed: []string{RuleFileSize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := v.Validate(context.Background(), "avatar", tt.file)
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if report.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v (%s)", report.Valid(), tt.wantValid, report.Summary())
			}
			if len(report.Verdicts) != 4 {
				t.Errorf("len(Verdicts) = %d, want every rule to run", len(report.Verdicts))
			}
			if got := report.FailedRules(); !reflect.DeepEqual(got, tt.wantFailed) {
				t.Errorf("FailedRules() = %v, want %v", got, tt.wantFailed)
			}
		})
	}
}

func TestValidator_CapabilityErrorHalts(t *testing.T) {
	v := newAvatarValidator(t, sniff.Unavailable("fileinfo", "extension not loaded"))
	file := writeUpload(t, "me.png", encodeImage(t, "png", 200, 200))

	report, err := v.Validate(context.Background(), "avatar", file)
	if !IsCapabilityError(err) {
		t.Fatalf("Validate() error = %v, want capability error", err)
	}
	if report == nil {
		t.Fatal("expected partial report")
	}

	// filesize and extension ran, mimetype halted the attempt
	if len(report.Verdicts) != 3 {
		t.Fatalf("len(Verdicts) = %d, want 3", len(report.Verdicts))
	}
	last := report.Verdicts[2]
	if last.Rule != RuleMIMEType || last.Outcome != EnvError {
		t.Errorf("last verdict = %+v, want mimetype env-error", last)
	}
	if !errors.Is(report.Err(), ErrCapabilityUnavailable) {
		t.Errorf("report.Err() = %v", report.Err())
	}
	if report.Valid() {
		t.Error("a report with an env-error must not be valid")
	}
}

func TestValidator_FieldPatterns(t *testing.T) {
	v := newAvatarValidator(t, sniff.NewMagic())

	tests := []struct {
		field string
		want  []string
	}{
		{"avatar", []string{RuleFileSize, RuleExtension, RuleMIMEType, RuleDimensions}},
		{"attachments.0", []string{RuleFileSize}},
		{"attachments.0.thumb", nil},
		{"banner", nil},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := v.RulesFor(tt.field); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RulesFor(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestValidator_DeduplicatesRules(t *testing.T) {
	size, _ := MaxSize(10)
	v := NewValidator(NewTable(size))
	_ = v.Bind("*", RuleFileSize)
	_ = v.Bind("doc", RuleFileSize)

	if got := v.RulesFor("doc"); !reflect.DeepEqual(got, []string{RuleFileSize}) {
		t.Errorf("RulesFor() = %v", got)
	}
}

func TestValidator_ReportsRegisteredNames(t *testing.T) {
	small, _ := MaxSize(10)
	large, _ := MaxSize(100)

	table := NewTable()
	table.Register("avatar.size", small)
	table.Register("banner.size", large)

	v := NewValidator(table)
	if err := v.Bind("avatar", "avatar.size"); err != nil {
		t.Fatal(err)
	}
	if err := v.Bind("banner", "banner.size"); err != nil {
		t.Fatal(err)
	}

	file := File{TmpName: "/tmp/upload", Size: 11}

	report, err := v.Validate(context.Background(), "avatar", file)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := report.FailedRules(); !reflect.DeepEqual(got, []string{"avatar.size"}) {
		t.Errorf("FailedRules() = %v, want [avatar.size]", got)
	}
	if !strings.Contains(report.Summary(), "avatar.size fail") {
		t.Errorf("Summary() = %q", report.Summary())
	}

	report, err = v.Validate(context.Background(), "banner", file)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !report.Valid() || report.Verdicts[0].Rule != "banner.size" {
		t.Errorf("banner verdicts = %+v", report.Verdicts)
	}
}

func TestValidator_BindErrors(t *testing.T) {
	v := NewValidator(nil)

	if err := v.Bind("avatar", "nope"); !errors.Is(err, ErrUnknownRule) {
		t.Errorf("Bind() unknown rule error = %v", err)
	}
	if err := v.Bind("[", RuleFileSize); err == nil {
		t.Error("Bind() with invalid pattern should fail")
	}
	if len(v.Patterns()) != 0 {
		t.Errorf("failed binds must not be recorded, got %v", v.Patterns())
	}
}

func TestValidator_ValidateAll(t *testing.T) {
	v := newAvatarValidator(t, sniff.NewMagic())

	files := map[string]File{
		"avatar":        writeUpload(t, "me.png", encodeImage(t, "png", 200, 200)),
		"attachments.0": writeUpload(t, "doc.pdf", []byte("%PDF-1.4")),
		"attachments.1": {TmpName: "/tmp/huge", Size: 2 * MB},
	}

	reports, err := v.ValidateAll(context.Background(), files)
	if err != nil {
		t.Fatalf("ValidateAll() error = %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("len(reports) = %d", len(reports))
	}
	if !reports["avatar"].Valid() || !reports["attachments.0"].Valid() {
		t.Error("expected avatar and first attachment to pass")
	}
	if reports["attachments.1"].Valid() {
		t.Error("expected oversized attachment to fail")
	}
	if Valid(reports) {
		t.Error("Valid() = true with a failing field")
	}
}

func TestValidator_ValidateAllStopsOnEnvError(t *testing.T) {
	v := newAvatarValidator(t, nil)
	files := map[string]File{
		"attachments.0": {TmpName: "/tmp/a", Size: 1},
		"avatar":        writeUpload(t, "me.png", encodeImage(t, "png", 200, 200)),
		"zzz":           {TmpName: "/tmp/z", Size: 1},
	}

	reports, err := v.ValidateAll(context.Background(), files)
	if !IsCapabilityError(err) {
		t.Fatalf("ValidateAll() error = %v, want capability error", err)
	}
	if _, ok := reports["zzz"]; ok {
		t.Error("fields after the failing one must not be validated")
	}
}

func TestValidator_Fingerprint(t *testing.T) {
	v := newAvatarValidator(t, sniff.NewMagic(), WithFingerprint())
	file := writeUpload(t, "me.png", encodeImage(t, "png", 200, 200))

	report, err := v.Validate(context.Background(), "avatar", file)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	want, _ := Fingerprint(file.TmpName)
	if report.Fingerprint == "" || report.Fingerprint != want {
		t.Errorf("Fingerprint = %q, want %q", report.Fingerprint, want)
	}
}

func TestValidator_FieldInContext(t *testing.T) {
	var seen string
	probe := Func("probe", func(ctx context.Context, _ File) (bool, error) {
		seen = FieldFrom(ctx)
		return true, nil
	})
	v := NewValidator(NewTable(probe))
	_ = v.Bind("**", "probe")

	if _, err := v.Validate(context.Background(), "gallery.3", File{}); err != nil {
		t.Fatal(err)
	}
	if seen != "gallery.3" {
		t.Errorf("FieldFrom() = %q", seen)
	}
}

func TestReport_Summary(t *testing.T) {
	v := newAvatarValidator(t, sniff.NewMagic())
	file := writeUpload(t, "wide.png", encodeImage(t, "png", 600, 300))

	report, _ := v.Validate(context.Background(), "avatar", file)
	summary := report.Summary()
	if !strings.Contains(summary, "dimensions fail") || !strings.Contains(summary, "width <= 500") {
		t.Errorf("Summary() = %q", summary)
	}
}

func TestValidator_BoundRules(t *testing.T) {
	v := newAvatarValidator(t, sniff.NewMagic())

	if got := v.BoundRules("attachments.*"); !reflect.DeepEqual(got, []string{RuleFileSize}) {
		t.Errorf("BoundRules() = %v", got)
	}
	if got := v.BoundRules("attachments.0"); got != nil {
		t.Errorf("BoundRules() must not glob-match, got %v", got)
	}
}
