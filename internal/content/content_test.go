package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultContent(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if got := p.Profile.FullName(); got != "Akash Sharma" {
		t.Fatalf("FullName() = %q", got)
	}
	if got := len(p.Typewriter.Phrases); got != 5 {
		t.Fatalf("phrases = %d, want 5", got)
	}
	if p.Typewriter.Phrases[0] != "Scalable Web Apps" {
		t.Fatalf("first phrase = %q", p.Typewriter.Phrases[0])
	}
	if p.Contact.Recipient.Email != "akkrishna1462@gmail.com" || p.Contact.Recipient.Name != "Akash Sharma" {
		t.Fatalf("recipient = %+v", p.Contact.Recipient)
	}
	if len(p.Skills) != 5 || len(p.Projects) != 2 || len(p.Certificates) != 3 || len(p.Education) != 3 {
		t.Fatalf("unexpected section sizes: skills=%d projects=%d certs=%d edu=%d",
			len(p.Skills), len(p.Projects), len(p.Certificates), len(p.Education))
	}
	if !p.Education[0].Current || p.Education[1].Current {
		t.Fatalf("education current flags = %+v", p.Education)
	}
	if p.Contact.Links[1].Value != "+91 79731 65728" {
		t.Fatalf("phone = %q", p.Contact.Links[1].Value)
	}
}

func TestPhrasesReturnsCopy(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	phrases := p.Phrases()
	phrases[0] = "changed"
	if p.Typewriter.Phrases[0] == "changed" {
		t.Fatal("Phrases() exposed internal slice")
	}
}

func TestLoadRejectsInvalidContent(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no phrases", "profile: {first_name: A}\ncontact: {recipient: {email: a@b.co}}\n", "phrase"},
		{"no recipient", "profile: {first_name: A}\ntypewriter: {phrases: [x]}\n", "recipient"},
		{"no name", "typewriter: {phrases: [x]}\ncontact: {recipient: {email: a@b.co}}\n", "name"},
		{"unknown key", "profile: {first_name: A, nickname: B}\n", "nickname"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	doc := "profile: {first_name: Jane}\ntypewriter: {phrases: [Go Services]}\ncontact: {recipient: {email: jane@example.com, name: Jane}}\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if p.Profile.FullName() != "Jane" || p.Phrases()[0] != "Go Services" {
		t.Fatalf("loaded = %+v", p)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadFile() expected error for missing file")
	}
}

func TestLinkExternal(t *testing.T) {
	if !(Link{Href: "https://github.com/x"}).External() {
		t.Fatal("https link should be external")
	}
	if (Link{Href: "mailto:a@b.co"}).External() {
		t.Fatal("mailto link should not be external")
	}
}
