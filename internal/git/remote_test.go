package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHostedRepo(t *testing.T) {
	tests := []struct {
		raw      string
		expected HostedRepo
		ok       bool
	}{
		{"git@github.com:acme/specs.git", HostedRepo{"acme", "specs"}, true},
		{"github.com:acme/specs", HostedRepo{"acme", "specs"}, true},
		{"ssh://git@github.com/acme/specs.git", HostedRepo{"acme", "specs"}, true},
		{"ssh://github.com/acme/specs", HostedRepo{"acme", "specs"}, true},
		{"git://github.com/acme/specs.git", HostedRepo{"acme", "specs"}, true},
		{"https://github.com/acme/specs", HostedRepo{"acme", "specs"}, true},
		{"https://www.github.com/acme/specs.git", HostedRepo{"acme", "specs"}, true},
		{"https://token@github.com/acme/specs.git", HostedRepo{"acme", "specs"}, true},
		{"http://github.com/acme/specs/tree/main", HostedRepo{"acme", "specs"}, true},
		{"acme/specs", HostedRepo{"acme", "specs"}, true},
		{"  acme/specs.git  ", HostedRepo{"acme", "specs"}, true},
		{"https://gitlab.com/acme/specs", HostedRepo{}, false},
		{"git@gitlab.com:acme/specs.git", HostedRepo{}, false},
		{"https://github.com/acme", HostedRepo{}, false},
		{"specs", HostedRepo{}, false},
		{"", HostedRepo{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseHostedRepo(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHostedRepoSlug(t *testing.T) {
	assert.Equal(t, "acme/specs", HostedRepo{Owner: "acme", Name: "specs"}.Slug())
}

func TestURLProtocolDetection(t *testing.T) {
	assert.True(t, IsSSHURL("git@github.com:acme/specs.git"))
	assert.True(t, IsSSHURL("ssh://git@github.com/acme/specs"))
	assert.False(t, IsSSHURL("https://github.com/acme/specs"))
	assert.True(t, IsHTTPSURL("https://github.com/acme/specs"))
	assert.True(t, IsHTTPSURL("http://github.com/acme/specs"))
	assert.False(t, IsHTTPSURL("acme/specs"))
}
