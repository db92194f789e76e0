package utils

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FeedCursor marks a position in the reverse-chronological feed. The token is
// opaque to clients: base64 of "createdAt|id".
type FeedCursor struct {
	CreatedAt time.Time
	ID        uint64
}

// EncodeFeedCursor serializes the cursor to a string token.
func EncodeFeedCursor(c *FeedCursor) string {
	if c == nil {
		return ""
	}
	raw := fmt.Sprintf("%s|%d", c.CreatedAt.UTC().Format(time.RFC3339Nano), c.ID)
	// URL-safe so the token can travel in a query parameter untouched.
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeFeedCursor parses an encoded cursor token. An empty token decodes to
// nil, meaning "start from the newest session".
func DecodeFeedCursor(token string) (*FeedCursor, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid cursor format")
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid cursor timestamp: %w", err)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor id: %w", err)
	}
	return &FeedCursor{CreatedAt: ts, ID: id}, nil
}
