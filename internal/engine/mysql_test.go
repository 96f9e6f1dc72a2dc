package engine

import "testing"

func TestMysqlQuote(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"plain", "`plain`"},
		{"with`tick", "`with``tick`"},
		{"tmp_1000_app", "`tmp_1000_app`"},
	}
	for _, tt := range tests {
		if got := mysqlQuote(tt.name); got != tt.want {
			t.Errorf("mysqlQuote(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
