package telegram

import (
	"Receipt-Tracker/domain"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const webAppDataKey = "WebAppData"

type (
	WebAppUser struct {
		ID        int64  `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name,omitempty"`
		Username  string `json:"username,omitempty"`
		PhotoURL  string `json:"photo_url,omitempty"`
	}

	// InitData is the verified content of a Mini App launch string.
	InitData struct {
		User     WebAppUser
		AuthDate time.Time
		QueryID  string
	}
)

// DataCheckString joins every field except hash as key=value lines sorted by key.
func DataCheckString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	return strings.Join(lines, "\n")
}

func sign(key []byte, msg string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msg))
	return mac.Sum(nil)
}

// Sign computes the hex hash Telegram attaches to a launch string for botToken.
func Sign(dataCheckString, botToken string) string {
	secret := sign([]byte(webAppDataKey), botToken)
	return hex.EncodeToString(sign(secret, dataCheckString))
}

// VerifyHash reports whether hash is the signature of dataCheckString.
func VerifyHash(dataCheckString, hash, botToken string) bool {
	expected, err := hex.DecodeString(hash)
	if err != nil {
		return false
	}
	secret := sign([]byte(webAppDataKey), botToken)
	return hmac.Equal(sign(secret, dataCheckString), expected)
}

func Verify(initData, botToken string) bool {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}
	return VerifyHash(DataCheckString(values), values.Get("hash"), botToken)
}

// Parse verifies initData and decodes the user it carries. maxAge of zero skips
// the auth_date freshness check.
func Parse(initData, botToken string, maxAge time.Duration, now time.Time) (InitData, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return InitData{}, fmt.Errorf("%w: %v", domain.ErrInvalidInitData, err)
	}
	if !VerifyHash(DataCheckString(values), values.Get("hash"), botToken) {
		return InitData{}, domain.ErrInvalidInitData
	}

	var data InitData
	data.QueryID = values.Get("query_id")

	if raw := values.Get("auth_date"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return InitData{}, fmt.Errorf("%w: bad auth_date", domain.ErrInvalidInitData)
		}
		data.AuthDate = time.Unix(seconds, 0)
	}
	if maxAge > 0 && (data.AuthDate.IsZero() || now.Sub(data.AuthDate) > maxAge) {
		return InitData{}, domain.ErrInitDataExpired
	}

	if err := json.Unmarshal([]byte(values.Get("user")), &data.User); err != nil {
		return InitData{}, fmt.Errorf("%w: bad user field", domain.ErrInvalidInitData)
	}
	if data.User.ID == 0 {
		return InitData{}, fmt.Errorf("%w: missing user id", domain.ErrInvalidInitData)
	}
	return data, nil
}
