package qr

import (
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

const SessionParam = "session_code"

// ShareURL appends the session code to baseURL as a query parameter.
func ShareURL(baseURL, sessionID string) string {
	params := url.Values{}
	params.Set(SessionParam, sessionID)
	return baseURL + "?" + params.Encode()
}

// SessionFromURL recovers the session code from a URL built by ShareURL.
func SessionFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	code := u.Query().Get(SessionParam)
	if code == "" {
		return "", fmt.Errorf("%s missing from %s", SessionParam, raw)
	}
	return code, nil
}

// PNG encodes content as a QR code image of size x size pixels.
func PNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
