package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/studylync/studylync/internal/config"
)

const baseURL = "https://www.gravatar.com/avatar/"

var (
	defaultImages = []string{"404", "mp", "identicon", "monsterid", "wavatar", "retro", "robohash", "blank"}
	ratings       = []string{"g", "pg", "r", "x"}
)

// URL returns the Gravatar URL of an email address.
// It is empty if Gravatar is disabled or there is no email. Invalid options are left out.
func URL(email string, cfg *config.GravatarConfig) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if cfg == nil || !cfg.Enabled || email == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(email))

	params := url.Values{}
	if lo.Contains(defaultImages, cfg.DefaultImage) {
		params.Set("d", cfg.DefaultImage)
	}
	if lo.Contains(ratings, cfg.Rating) {
		params.Set("r", cfg.Rating)
	}
	if cfg.Size >= 1 && cfg.Size <= 2048 {
		params.Set("s", strconv.Itoa(cfg.Size))
	}

	u := baseURL + hex.EncodeToString(hash[:])
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
