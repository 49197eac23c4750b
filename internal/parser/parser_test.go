package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mapping builds a mapping value from ordered key/value pairs.
func mapping(pairs ...any) *Value {
	m := NewMapping()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(*Value))
	}
	return m
}

func sequence(items ...*Value) *Value {
	s := NewSequence()
	for _, it := range items {
		s.Append(it)
	}
	return s
}

func TestParse_Scalars(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want *Value
	}{
		{"string", "name: hello", mapping("name", String("hello"))},
		{"integer", "count: 42", mapping("count", Int(42))},
		{"negative integer", "code: -1", mapping("code", Int(-1))},
		{"bool true", "flag: true", mapping("flag", Bool(true))},
		{"bool mixed case", "flag: TRUE", mapping("flag", Bool(true))},
		{"bool false", "flag: False", mapping("flag", Bool(false))},
		{"empty value is null", "desc:", mapping("desc", Null())},
		{"comment only value is null", "desc: # nothing here", mapping("desc", Null())},
		{"trailing comment stripped", "cmd: echo hi # prints", mapping("cmd", String("echo hi"))},
		{"hash without space kept", "tag: a#b", mapping("tag", String("a#b"))},
		{"double quoted", `msg: "hello\nworld"`, mapping("msg", String("hello\nworld"))},
		{"single quoted", `msg: 'a b'`, mapping("msg", String("a b"))},
		{"quoted keeps hash", `msg: "a # b"`, mapping("msg", String("a # b"))},
		{"quoted escapes", `msg: "tab\t quote\" back\\"`, mapping("msg", String("tab\t quote\" back\\"))},
		{"quoted with trailing comment", `msg: "hi" # ignored`, mapping("msg", String("hi"))},
		{"integer-like string", "v: 1.5", mapping("v", String("1.5"))},
		{"colon inside value", "cmd: sh -c 'exit 42'", mapping("cmd", String("sh -c 'exit 42'"))},
		{"url value", "home: https://example.com/x", mapping("home", String("https://example.com/x"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_NestedMapping(t *testing.T) {
	t.Parallel()
	in := `name: demo
test:
  command: echo hi
  expect_exit_code: 0
`
	want := mapping(
		"name", String("demo"),
		"test", mapping(
			"command", String("echo hi"),
			"expect_exit_code", Int(0),
		),
	)
	got, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Sequences(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want *Value
	}{
		{
			"scalar items",
			"setup:\n  - touch /tmp/a\n  - touch /tmp/b\n",
			mapping("setup", sequence(String("touch /tmp/a"), String("touch /tmp/b"))),
		},
		{
			"inline entry items",
			"teardown:\n  - run: rm /tmp/a\n  - kill_process: server\n",
			mapping("teardown", sequence(
				mapping("run", String("rm /tmp/a")),
				mapping("kill_process", String("server")),
			)),
		},
		{
			"inline entry with continuation",
			"setup:\n  - start: ./server --port 8080\n    name: server\n",
			mapping("setup", sequence(
				mapping("start", String("./server --port 8080"), "name", String("server")),
			)),
		},
		{
			"bare dash nested mapping",
			"specs:\n  -\n    name: one\n  -\n    name: two\n",
			mapping("specs", sequence(
				mapping("name", String("one")),
				mapping("name", String("two")),
			)),
		},
		{
			"colon inside scalar item",
			"setup:\n  - echo a: b c\n",
			mapping("setup", sequence(String("echo a: b c"))),
		},
		{
			"empty item is null",
			"include:\n  -\n",
			mapping("include", sequence(Null())),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_InlineEntryStartsNestedMapping(t *testing.T) {
	t.Parallel()
	in := `specs:
  - name: first
    test:
      command: echo one
  - name: second
    test:
      command: echo two
`
	got, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	specs, ok := got.Get("specs").AsSequence()
	if !ok {
		t.Fatalf("specs is %v, want sequence", got.Get("specs").Kind)
	}
	if len(specs) != 2 {
		t.Fatalf("len(specs) = %d, want 2", len(specs))
	}
	if name, _ := specs[1].Get("name").AsString(); name != "second" {
		t.Errorf("specs[1].name = %q, want %q", name, "second")
	}
	if cmd, _ := specs[0].Get("test").Get("command").AsString(); cmd != "echo one" {
		t.Errorf("specs[0].test.command = %q, want %q", cmd, "echo one")
	}
}

func TestParse_BlockScalar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"basic",
			"input: |\n  line one\n  line two\n",
			"line one\nline two\n",
		},
		{
			"interior blank preserved",
			"input: |\n  first\n\n  third\n",
			"first\n\nthird\n",
		},
		{
			"deeper indentation kept relative",
			"input: |\n  if x:\n    y()\n",
			"if x:\n  y()\n",
		},
		{
			"empty block is empty string",
			"input: |\nnext: 1\n",
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			v := got.Get("input")
			s, ok := v.AsString()
			if !ok {
				t.Fatalf("input is %v, want string", v.Kind)
			}
			if s != tt.want {
				t.Errorf("input = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestParse_BlockScalarDedentEndsBlock(t *testing.T) {
	t.Parallel()
	in := "input: |\n  inside\nafter: done\n"
	got, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s, _ := got.Get("input").AsString(); s != "inside\n" {
		t.Errorf("input = %q, want %q", s, "inside\n")
	}
	if s, _ := got.Get("after").AsString(); s != "done" {
		t.Errorf("after = %q, want %q", s, "done")
	}
}

func TestParse_CommentsAndBlanksSkipped(t *testing.T) {
	t.Parallel()
	in := `# leading comment
name: demo

# between entries
test:

  # inside block
  command: echo hi
`
	got, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd, _ := got.Get("test").Get("command").AsString(); cmd != "echo hi" {
		t.Errorf("test.command = %q, want %q", cmd, "echo hi")
	}
}

func TestParse_DuplicateKeysLastWriteWins(t *testing.T) {
	t.Parallel()
	got, err := Parse("name: first\nname: second\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s, _ := got.Get("name").AsString(); s != "second" {
		t.Errorf("name = %q, want %q", s, "second")
	}
	if len(got.Keys) != 1 {
		t.Errorf("len(Keys) = %d, want 1", len(got.Keys))
	}
}

func TestParse_CRLFInput(t *testing.T) {
	t.Parallel()
	got, err := Parse("name: demo\r\ntest:\r\n  command: echo hi\r\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd, _ := got.Get("test").Get("command").AsString(); cmd != "echo hi" {
		t.Errorf("test.command = %q, want %q", cmd, "echo hi")
	}
}

func TestParse_Deterministic(t *testing.T) {
	t.Parallel()
	in := `name: demo
description: |
  multi
  line
setup:
  - touch /tmp/x
test:
  command: cat /tmp/x
  expect_exit_code: 0
teardown:
  - run: rm /tmp/x
`
	first, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	second, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() second error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated parse differs:\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		in       string
		wantLine int
	}{
		{"missing colon", "name: ok\nbroken line\n", 2},
		{"top-level indent", "  name: bad\n", 1},
		{"stray deep line", "a: 1\n    b: 2\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatal("Parse() expected error")
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("error line = %d, want %d (%v)", pe.Line, tt.wantLine, err)
			}
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	t.Parallel()
	got, err := Parse("")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !got.IsMapping() || len(got.Keys) != 0 {
		t.Errorf("empty document should parse to an empty mapping, got %+v", got)
	}
}

func TestValue_Interface(t *testing.T) {
	t.Parallel()
	in := "name: demo\ntest:\n  command: echo hi\n  generate: true\n  expect_exit_code: 3\ninclude:\n  - a.spec\n"
	v, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, ok := v.Interface().(map[string]any)
	if !ok {
		t.Fatalf("Interface() = %T, want map[string]any", v.Interface())
	}
	test := got["test"].(map[string]any)
	if test["generate"] != true {
		t.Errorf("generate = %v, want true", test["generate"])
	}
	if test["expect_exit_code"] != int64(3) {
		t.Errorf("expect_exit_code = %v, want int64(3)", test["expect_exit_code"])
	}
	inc := got["include"].([]any)
	if len(inc) != 1 || inc[0] != "a.spec" {
		t.Errorf("include = %v", inc)
	}
}

func TestParse_LongDocumentRoundTrip(t *testing.T) {
	t.Parallel()
	var b strings.Builder
	b.WriteString("name: wide\n")
	b.WriteString("test:\n  command: true\n")
	b.WriteString("setup:\n")
	for i := 0; i < 50; i++ {
		b.WriteString("  - echo step\n")
	}
	got, err := Parse(b.String())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	setup, _ := got.Get("setup").AsSequence()
	if len(setup) != 50 {
		t.Errorf("len(setup) = %d, want 50", len(setup))
	}
}
