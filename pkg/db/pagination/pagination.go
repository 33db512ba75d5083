package pagination

import (
	"encoding/base64"
	"encoding/json"
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=50" validate:"gte=1,lte=250"` // Min 1, Max 250
}

// Cursor encodes the resume point of a position-ordered listing.
type Cursor struct {
	ID       string `json:"id,omitempty"`
	Position int    `json:"position,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}

// Trim caps data to limit and reports whether more rows exist; callers fetch
// limit+1 rows and pass the overfetched slice here.
func Trim[T any](data []T, limit int) ([]T, bool) {
	if limit > 0 && len(data) > limit {
		return data[:limit], true
	}
	return data, false
}
