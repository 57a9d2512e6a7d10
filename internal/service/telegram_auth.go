package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"richsnake_backend/internal/domain"
)

// initDataMaxAge is how long a signed launch payload stays usable.
const initDataMaxAge = 86400 // seconds

// WebAppUser is the user object embedded in Telegram init data.
type WebAppUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// ValidateInitData verifies that init data was signed by Telegram for the
// given bot token and is fresh. Freshness is checked first, so a stale
// payload fails with ErrAuthExpired regardless of its signature.
//
// The check string is the sorted key=value lines (hash excluded) joined
// with newlines; the signing key is HMAC-SHA256 of the bot token keyed
// with the literal "WebAppData". Digest comparison is constant-time.
func ValidateInitData(initData, botToken string) (url.Values, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, domain.ErrMalformedInput
	}

	authDateStr := values.Get("auth_date")
	if authDateStr == "" {
		return nil, domain.ErrMalformedInput
	}
	authDate, err := strconv.ParseInt(authDateStr, 10, 64)
	if err != nil {
		return nil, domain.ErrMalformedInput
	}
	if time.Now().Unix()-authDate > initDataMaxAge {
		return nil, domain.ErrAuthExpired
	}

	providedHex := values.Get("hash")
	if providedHex == "" {
		return nil, domain.ErrInvalidSignature
	}
	values.Del("hash")

	var dataCheck []string
	for k, v := range values {
		dataCheck = append(dataCheck, k+"="+strings.Join(v, ""))
	}
	sort.Strings(dataCheck)
	checkString := strings.Join(dataCheck, "\n")

	secretKey := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	calculated := hmacSHA256(secretKey, []byte(checkString))

	provided, err := hex.DecodeString(providedHex)
	if err != nil {
		return nil, domain.ErrInvalidSignature
	}
	if !hmac.Equal(calculated, provided) {
		return nil, domain.ErrInvalidSignature
	}

	return values, nil
}

// ParseWebAppUser decodes the JSON user field of validated init data.
func ParseWebAppUser(values url.Values) (*WebAppUser, error) {
	raw := values.Get("user")
	if raw == "" {
		return nil, domain.ErrMalformedInput
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, domain.ErrMalformedInput
	}
	if user.ID == 0 {
		return nil, domain.ErrMalformedInput
	}
	return &user, nil
}

func hmacSHA256(key, message []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(message)
	return h.Sum(nil)
}
