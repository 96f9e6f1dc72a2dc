package sqlsplit

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "single statement without terminator",
			script: "SET x=0",
			want:   []string{"SET x=0"},
		},
		{
			name:   "two statements",
			script: "CREATE TABLE t (id INT);\nINSERT INTO t VALUES (1);\n",
			want:   []string{"CREATE TABLE t (id INT)", "INSERT INTO t VALUES (1)"},
		},
		{
			name:   "semicolon inside single quotes is inert",
			script: "INSERT INTO t VALUES ('a;b');SELECT 1;",
			want:   []string{"INSERT INTO t VALUES ('a;b')", "SELECT 1"},
		},
		{
			name:   "backslash escaped quote",
			script: `INSERT INTO t VALUES ('it\'s');SELECT 1;`,
			want:   []string{`INSERT INTO t VALUES ('it\'s')`, "SELECT 1"},
		},
		{
			name:   "doubled quote escape",
			script: "INSERT INTO t VALUES ('it''s; fine');",
			want:   []string{"INSERT INTO t VALUES ('it''s; fine')"},
		},
		{
			name:   "backtick identifier with semicolon",
			script: "SELECT `col;umn` FROM t;",
			want:   []string{"SELECT `col;umn` FROM t"},
		},
		{
			name:   "doubled backtick escape",
			script: "SELECT `we``ird;` FROM t;",
			want:   []string{"SELECT `we``ird;` FROM t"},
		},
		{
			name:   "double dash comment hides semicolon",
			script: "SELECT 1 -- trailing; comment\n;SELECT 2;",
			want:   []string{"SELECT 1 -- trailing; comment\n", "SELECT 2"},
		},
		{
			name:   "hash comment hides semicolon",
			script: "SELECT 1 # no; split here\n;",
			want:   []string{"SELECT 1 # no; split here\n"},
		},
		{
			name:   "block comment hides semicolon",
			script: "SELECT /* a;b */ 1;",
			want:   []string{"SELECT /* a;b */ 1"},
		},
		{
			name:   "comment-only region kept verbatim",
			script: "SELECT 1;\n-- standalone note\n;SELECT 2;",
			want:   []string{"SELECT 1", "-- standalone note\n", "SELECT 2"},
		},
		{
			name:   "unterminated block comment at end of input",
			script: "SELECT 1; /* dangling",
			want:   []string{"SELECT 1", "/* dangling"},
		},
		{
			name:   "unterminated string at end of input",
			script: "SELECT 'open",
			want:   []string{"SELECT 'open"},
		},
		{
			name:   "blank statements dropped",
			script: ";;  ;\n;SELECT 1;",
			want:   []string{"SELECT 1"},
		},
		{
			name:   "empty script",
			script: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.script)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q)\n got %#v\nwant %#v", tt.script, got, tt.want)
			}
		})
	}
}

func TestSplit_DelimiterDirective(t *testing.T) {
	script := "delimiter //\nCREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND//\nSELECT 2//\n"
	want := []string{
		"CREATE PROCEDURE p()\nBEGIN\n  SELECT 1;\nEND",
		"SELECT 2",
	}
	got := Split(script)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v\nwant %#v", got, want)
	}
}

func TestSplit_DelimiterDirectiveCaseInsensitive(t *testing.T) {
	script := "DELIMITER $$\nSELECT 1$$\nDelimiter ;\nSELECT 2;\n"
	want := []string{"SELECT 1", "SELECT 2"}
	got := Split(script)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v\nwant %#v", got, want)
	}
}

func TestSplit_DirectiveClosesPendingStatement(t *testing.T) {
	script := "SELECT 1\ndelimiter //\nSELECT 2//"
	want := []string{"SELECT 1\n", "SELECT 2"}
	got := Split(script)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v\nwant %#v", got, want)
	}
}
