package utils

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var profilePicRe = regexp.MustCompile(`"profile_pic_url_hd?":"([^"]+)"`)

var avatarClient = &http.Client{Timeout: 10 * time.Second}

// FetchInstagramAvatar scrapes the profile picture URL from a public
// Instagram profile page. Instagram throttles unauthenticated requests
// aggressively, so failures are expected; callers fall back to Gravatar.
func FetchInstagramAvatar(handle string) (string, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return "", errors.New("empty instagram handle")
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("https://www.instagram.com/%s/", handle), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := avatarClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("instagram returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	match := profilePicRe.FindSubmatch(body)
	if match == nil {
		return "", errors.New("profile picture not found")
	}
	url := strings.ReplaceAll(string(match[1]), `&`, "&")
	url = strings.ReplaceAll(url, `\/`, "/")
	return url, nil
}

// GravatarURL builds the Gravatar address for an email.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}
