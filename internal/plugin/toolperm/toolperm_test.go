package toolperm

import "testing"

func TestParseSingle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Permission
		wantErr bool
	}{
		{name: "bare tool", input: "Read", want: Permission{Name: "Read"}},
		{name: "scoped tool", input: "Bash(git:*)", want: Permission{Name: "Bash", Scope: "git:*"}},
		{name: "domain scope", input: "WebFetch(domain:docs.example.com)", want: Permission{Name: "WebFetch", Scope: "domain:docs.example.com"}},
		{name: "surrounding space", input: "  Write  ", want: Permission{Name: "Write"}},
		{name: "lowercase name", input: "bash", wantErr: true},
		{name: "empty scope", input: "Bash()", wantErr: true},
		{name: "unclosed paren", input: "Bash(git:*", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSingle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSingle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseSingle(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	perms, err := Parse("Read Write Bash(npm:*)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(perms) != 3 {
		t.Fatalf("len = %d, want 3", len(perms))
	}
	if perms[2].Name != "Bash" || perms[2].Scope != "npm:*" {
		t.Errorf("perms[2] = %+v", perms[2])
	}
}

func TestParseEmpty(t *testing.T) {
	perms, err := Parse("   ")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if perms != nil {
		t.Errorf("perms = %v, want nil", perms)
	}
}

func TestParseInvalidToken(t *testing.T) {
	if _, err := Parse("Read 123bad"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestFormatRoundTrip(t *testing.T) {
	decl := "Read Bash(git:*) WebFetch(domain:shopify.dev)"
	perms, err := Parse(decl)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatAll(perms); got != decl {
		t.Errorf("FormatAll = %q, want %q", got, decl)
	}
}
