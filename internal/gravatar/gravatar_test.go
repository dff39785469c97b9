package gravatar

import (
	"testing"

	"github.com/studylync/studylync/internal/config"
	"github.com/stretchr/testify/assert"
)

const aliceHash = "82665498eed404ed802851e9c39f8d0815a2bdfdbef4960fd93ef5b822bcc852"

func TestURL(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		config   *config.GravatarConfig
		expected string
	}{
		{
			name:     "disabled",
			email:    "alice@illinois.edu",
			config:   &config.GravatarConfig{Enabled: false},
			expected: "",
		},
		{
			name:     "nil config",
			email:    "alice@illinois.edu",
			expected: "",
		},
		{
			name:     "blank email",
			email:    "   ",
			config:   &config.GravatarConfig{Enabled: true},
			expected: "",
		},
		{
			name:     "no options",
			email:    "alice@illinois.edu",
			config:   &config.GravatarConfig{Enabled: true},
			expected: "https://www.gravatar.com/avatar/" + aliceHash,
		},
		{
			name:  "all options, email normalized",
			email: " Alice@Illinois.EDU ",
			config: &config.GravatarConfig{
				Enabled:      true,
				DefaultImage: "identicon",
				Rating:       "pg",
				Size:         120,
			},
			expected: "https://www.gravatar.com/avatar/" + aliceHash + "?d=identicon&r=pg&s=120",
		},
		{
			name:  "invalid options dropped",
			email: "alice@illinois.edu",
			config: &config.GravatarConfig{
				Enabled:      true,
				DefaultImage: "kitten",
				Rating:       "nc17",
				Size:         4096,
			},
			expected: "https://www.gravatar.com/avatar/" + aliceHash,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, URL(tt.email, tt.config))
		})
	}
}
