package redact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingReporter struct {
	events []Event
	done   []FileResult
	order  []string
}

func (r *recordingReporter) Redaction(ev Event) {
	r.events = append(r.events, ev)
	r.order = append(r.order, "event")
}

func (r *recordingReporter) FileDone(res FileResult) {
	r.done = append(r.done, res)
	r.order = append(r.order, "done:"+filepath.Base(res.Path))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestClassify(t *testing.T) {
	m := defaultMatcher(t)
	tests := []struct {
		raw  string
		want Class
	}{
		{"", ClassBlank},
		{"   \t", ClassBlank},
		{"// fetch('/api/x')", ClassComment},
		{"  /* /api/ */", ClassComment},
		{"   * see /v1/docs", ClassComment},
		{`  callBotApi("/bots/123/run")`, ClassCandidate},
		{"const x = 5;", ClassUnchanged},
	}
	for _, tt := range tests {
		l := Classify(m, tt.raw, 7)
		if l.Class != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.raw, l.Class, tt.want)
		}
		if l.Number != 7 {
			t.Errorf("Number = %d, want 7", l.Number)
		}
		if l.Trimmed != strings.TrimSpace(tt.raw) {
			t.Errorf("Trimmed = %q", l.Trimmed)
		}
	}
}

func TestLines_OnlyCandidateChanges(t *testing.T) {
	m := defaultMatcher(t)
	input := "// comment\n \ncallBotApi(\"/bots/123/run\")\nconst x = 5;\n"

	out, events := Lines(m, "Code.gs", input)

	inLines := strings.Split(input, "\n")
	outLines := strings.Split(out, "\n")
	if len(outLines) != len(inLines) {
		t.Fatalf("line count changed: %d -> %d", len(inLines), len(outLines))
	}
	for _, i := range []int{0, 1, 3, 4} {
		if outLines[i] != inLines[i] {
			t.Errorf("line %d changed: %q -> %q", i+1, inLines[i], outLines[i])
		}
	}
	if outLines[2] != `Domain("/<REDACTED_PATH>/")` {
		t.Errorf("line 3 = %q", outLines[2])
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Line != 3 || ev.Path != "Code.gs" {
		t.Errorf("event = %+v, want line 3 of Code.gs", ev)
	}
	if ev.Original != `callBotApi("/bots/123/run")` {
		t.Errorf("event original = %q", ev.Original)
	}
}

func TestLines_DropsIndentationOnRewrite(t *testing.T) {
	m := defaultMatcher(t)
	out, _ := Lines(m, "a.js", "    return get('/api/x');   \n")
	if out != "Domain Domain('/<REDACTED_PATH>/');\n" {
		t.Errorf("out = %q", out)
	}
}

func TestLines_KeepsLineEndings(t *testing.T) {
	m := defaultMatcher(t)

	out, _ := Lines(m, "a.gs", "a = 1;\r\nb('/api/z');\r\nc = 2;")
	want := "a = 1;\r\nDomain('/<REDACTED_PATH>/');\r\nc = 2;"
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}

	out, events := Lines(m, "a.gs", "")
	if out != "" || len(events) != 0 {
		t.Errorf("empty input produced %q, %v", out, events)
	}
}

func TestLines_NoKeywordIsIdentity(t *testing.T) {
	m := defaultMatcher(t)
	input := "function main() {\n  Logger.log('hello');\n  return UrlFetchApp.fetch(url);\n}\n"
	out, events := Lines(m, "a.gs", input)
	if out != input {
		t.Errorf("out = %q, want identity", out)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}

func TestSanitizerFile_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Code.gs")
	writeFile(t, path, "// comment\n \ncallBotApi(\"/bots/123/run\")\nconst x = 5;\n")

	rep := &recordingReporter{}
	s := New(defaultMatcher(t), []string{".js", ".gs"}, WithReporter(rep))
	res := s.File(path)

	if res.Err != nil {
		t.Fatalf("File error: %v", res.Err)
	}
	got := readFile(t, path)
	want := "// comment\n \nDomain(\"/<REDACTED_PATH>/\")\nconst x = 5;\n"
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if len(rep.events) != 1 || rep.events[0].Line != 3 {
		t.Errorf("events = %+v, want one event on line 3", rep.events)
	}
	if len(rep.order) != 2 || rep.order[0] != "event" || rep.order[1] != "done:Code.gs" {
		t.Errorf("report order = %v", rep.order)
	}
}

func TestSanitizerFile_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Code.gs")
	content := "x('/api/y');\n"
	writeFile(t, path, content)

	s := New(defaultMatcher(t), []string{".gs"}, WithDryRun(true))
	res := s.File(path)
	if !res.Changed() {
		t.Error("dry run should still report events")
	}
	if readFile(t, path) != content {
		t.Error("dry run must not write the file")
	}
}

func TestSanitizerFile_Missing(t *testing.T) {
	rep := &recordingReporter{}
	s := New(defaultMatcher(t), []string{".gs"}, WithReporter(rep))
	res := s.File(filepath.Join(t.TempDir(), "gone.gs"))
	if res.Err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(rep.done) != 1 || rep.done[0].Err == nil {
		t.Error("failure should be reported through FileDone")
	}
}

func TestSanitizerDir_Walk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Code.gs"), "get('/api/a');\n")
	writeFile(t, filepath.Join(root, "lib", "util.js"), "post(\"/v1/b\");\n")
	writeFile(t, filepath.Join(root, "lib", "deep", "more", "x.gs"), "// /api/\nok();\n")
	writeFile(t, filepath.Join(root, "appsscript.json"), `{"url": "/api/keep"}`)
	writeFile(t, filepath.Join(root, "page.html"), "<a href=\"/api/keep\">x</a>\n")

	rep := &recordingReporter{}
	s := New(defaultMatcher(t), []string{".js", ".gs"}, WithReporter(rep))
	sum, err := s.Dir(root)
	if err != nil {
		t.Fatalf("Dir error: %v", err)
	}

	if len(sum.Files) != 3 {
		t.Fatalf("visited %d files, want 3: %+v", len(sum.Files), sum.Files)
	}
	if sum.Changed != 2 || sum.Events != 2 || sum.Failures != 0 {
		t.Errorf("summary = changed %d events %d failures %d", sum.Changed, sum.Events, sum.Failures)
	}
	wantOrder := []string{
		filepath.Join(root, "Code.gs"),
		filepath.Join(root, "lib", "util.js"),
		filepath.Join(root, "lib", "deep", "more", "x.gs"),
	}
	for i, f := range sum.Files {
		if f.Path != wantOrder[i] {
			t.Errorf("Files[%d] = %s, want %s", i, f.Path, wantOrder[i])
		}
	}
	if got := readFile(t, filepath.Join(root, "appsscript.json")); got != `{"url": "/api/keep"}` {
		t.Errorf("non-matching extension was rewritten: %q", got)
	}
	if got := readFile(t, filepath.Join(root, "lib", "util.js")); got != "Domain(\"/<REDACTED_PATH>/\");\n" {
		t.Errorf("util.js = %q", got)
	}
}

func TestSanitizerDir_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "secret.gs"), "get('/api/outside');\n")
	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "secret.gs"), filepath.Join(root, "alias.gs")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	s := New(defaultMatcher(t), []string{".gs"})
	sum, err := s.Dir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(sum.Files) != 0 {
		t.Errorf("symlinked entries were processed: %+v", sum.Files)
	}
	if len(sum.Skipped) != 2 {
		t.Errorf("Skipped = %v, want 2 entries", sum.Skipped)
	}
	if got := readFile(t, filepath.Join(outside, "secret.gs")); got != "get('/api/outside');\n" {
		t.Errorf("file behind symlink was rewritten: %q", got)
	}
}

func TestSanitizerDir_FailureDoesNotAbort(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
	root := t.TempDir()
	bad := filepath.Join(root, "a_bad.gs")
	writeFile(t, bad, "get('/api/a');\n")
	writeFile(t, filepath.Join(root, "b_good.gs"), "get('/api/b');\n")
	if err := os.Chmod(bad, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(bad, 0o644) })

	s := New(defaultMatcher(t), []string{".gs"})
	sum, err := s.Dir(root)
	if err != nil {
		t.Fatalf("Dir error: %v", err)
	}
	if sum.Failures != 1 {
		t.Errorf("Failures = %d, want 1", sum.Failures)
	}
	if got := readFile(t, filepath.Join(root, "b_good.gs")); got != "Domain('/<REDACTED_PATH>/');\n" {
		t.Errorf("walk did not continue past failure: %q", got)
	}
}

func TestSanitizerDir_BadRoot(t *testing.T) {
	s := New(defaultMatcher(t), []string{".gs"})
	if _, err := s.Dir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "f.gs")
	writeFile(t, file, "x")
	if _, err := s.Dir(file); err == nil {
		t.Error("expected error for non-directory root")
	}
}
