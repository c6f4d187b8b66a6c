package parsers

import (
	"reflect"
	"strings"
	"testing"

	"github.com/haukened/rr-urf/internal/urf/common/log"
)

func TestParsePlainList(t *testing.T) {
	input := `# A sample threat feed
malware.com
*.phish.org
.tracking.net

ADS.EXAMPLE.COM   # trailing comment
malware.com
not_a_domain
singlelabel
`
	got, err := ParsePlainList(strings.NewReader(input), "test-feed", log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"malware.com", "phish.org", "tracking.net", "ads.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParsePlainList = %v; want %v", got, want)
	}
}

func TestParsePlainList_Empty(t *testing.T) {
	got, err := ParsePlainList(strings.NewReader("# nothing here\n\n"), "empty", log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}
}

func TestParseHostsFile(t *testing.T) {
	input := `# hosts-format blocklist
127.0.0.1 localhost
127.0.0.1 localhost.localdomain
0.0.0.0 malware.com
0.0.0.0 ads.example.com tracker.example.com  # two on one line
0.0.0.0 malware.com
0.0.0.0 *.wildcard.com
0.0.0.0 .leading.dot.com
255.255.255.255 broadcasthost
`
	got, err := ParseHostsFile(strings.NewReader(input), "hosts-feed", log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"malware.com", "ads.example.com", "tracker.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseHostsFile = %v; want %v", got, want)
	}
}

func TestParseHostsFile_IPOnlyLines(t *testing.T) {
	got, err := ParseHostsFile(strings.NewReader("0.0.0.0\n127.0.0.1\n"), "bare", log.NewNoopLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("lines without hostnames should yield nothing, got %v", got)
	}
}

func TestNormalizeDomainName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"example.com", "example.com"},
		{"*.example.com", "example.com"},
		{".example.com", "example.com"},
		{"  EXAMPLE.COM.  ", "example.com"},
	}
	for _, tt := range tests {
		if got := normalizeDomainName(tt.in); got != tt.want {
			t.Errorf("normalizeDomainName(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidDomainName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"example.com", true},
		{"a.b.c.example.com", true},
		{"0start.com", true},
		{"singlelabel", false},
		{"", false},
		{"-leading.com", false},
		{"double..dot.com", false},
		{strings.Repeat("a", 64) + ".com", false},
		{strings.Repeat("a", 63) + ".com", true},
	}
	for _, tt := range tests {
		if got := isValidDomainName(tt.in); got != tt.want {
			t.Errorf("isValidDomainName(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
