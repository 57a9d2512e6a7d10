package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"richsnake_backend/internal/domain"
)

// buildInitData assembles a signed init_data string the same way the
// Telegram client does: sorted key=value lines signed with the
// "WebAppData"-derived key.
func buildInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	var parts []string
	for k, v := range fields {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	checkString := strings.Join(parts, "\n")

	kdf := hmac.New(sha256.New, []byte("WebAppData"))
	kdf.Write([]byte(botToken))
	secretKey := kdf.Sum(nil)

	mac := hmac.New(sha256.New, secretKey)
	mac.Write([]byte(checkString))
	hash := hex.EncodeToString(mac.Sum(nil))

	vals := url.Values{}
	for k, v := range fields {
		vals.Add(k, v)
	}
	vals.Add("hash", hash)
	return vals.Encode()
}

func TestValidateInitData_Valid(t *testing.T) {
	botToken := "test-bot-token"
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":42,"first_name":"A","username":"a"}`,
	}

	values, err := ValidateInitData(buildInitData(t, botToken, fields), botToken)
	if err != nil {
		t.Fatalf("expected valid init data, got %v", err)
	}

	user, err := ParseWebAppUser(values)
	if err != nil {
		t.Fatalf("parse user: %v", err)
	}
	if user.ID != 42 || user.FirstName != "A" || user.Username != "a" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestValidateInitData_TamperedValue(t *testing.T) {
	botToken := "test-bot-token"
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":42,"first_name":"A","username":"a"}`,
	}
	initData := buildInitData(t, botToken, fields)

	// flip a single character inside the signed user value
	tampered := strings.Replace(initData, "42", "43", 1)
	if tampered == initData {
		t.Fatal("tampering did not change the payload")
	}

	if _, err := ValidateInitData(tampered, botToken); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateInitData_ExtraField(t *testing.T) {
	botToken := "test-bot-token"
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":1,"first_name":"F","username":"u"}`,
	}
	initData := buildInitData(t, botToken, fields) + "&x=1"

	if _, err := ValidateInitData(initData, botToken); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateInitData_WrongToken(t *testing.T) {
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":1,"first_name":"F","username":"u"}`,
	}
	initData := buildInitData(t, "token-a", fields)

	if _, err := ValidateInitData(initData, "token-b"); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateInitData_FreshnessBoundary(t *testing.T) {
	botToken := "test-bot-token"

	// one second inside the window: accepted
	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix()-86399, 10),
		"user":      `{"id":1,"first_name":"F","username":"u"}`,
	}
	if _, err := ValidateInitData(buildInitData(t, botToken, fields), botToken); err != nil {
		t.Fatalf("expected payload at 86399s to be valid, got %v", err)
	}

	// one second outside: rejected as expired
	fields["auth_date"] = strconv.FormatInt(time.Now().Unix()-86401, 10)
	if _, err := ValidateInitData(buildInitData(t, botToken, fields), botToken); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
}

func TestValidateInitData_ExpiredBeatsSignature(t *testing.T) {
	// a stale payload with a garbage hash still reports expiry, not
	// signature failure
	vals := url.Values{}
	vals.Add("auth_date", strconv.FormatInt(time.Now().Unix()-90000, 10))
	vals.Add("user", `{"id":1}`)
	vals.Add("hash", "deadbeef")

	if _, err := ValidateInitData(vals.Encode(), "any-token"); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
}

func TestValidateInitData_MissingFields(t *testing.T) {
	botToken := "test-bot-token"

	if _, err := ValidateInitData("user=%7B%22id%22%3A1%7D&hash=aa", botToken); !errors.Is(err, domain.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput for missing auth_date, got %v", err)
	}

	if _, err := ValidateInitData("auth_date=notanumber&hash=aa", botToken); !errors.Is(err, domain.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput for bad auth_date, got %v", err)
	}

	fields := map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
	}
	vals := url.Values{}
	for k, v := range fields {
		vals.Add(k, v)
	}
	if _, err := ValidateInitData(vals.Encode(), botToken); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for missing hash, got %v", err)
	}
}

func TestParseWebAppUser_Invalid(t *testing.T) {
	vals := url.Values{}
	if _, err := ParseWebAppUser(vals); !errors.Is(err, domain.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput for missing user, got %v", err)
	}

	vals.Set("user", "{not json")
	if _, err := ParseWebAppUser(vals); !errors.Is(err, domain.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput for bad json, got %v", err)
	}
}
