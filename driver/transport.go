package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// postJSON sends body as JSON and decodes the provider's reply. Non-2xx replies
// are still decoded: providers report their error codes in the body.
func postJSON(ctx context.Context, client *http.Client, url string, body any) (map[string]any, []byte, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "post %s", url)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read response")
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, b, errors.Wrapf(err, "decode response from %s (status %d): %s", url, resp.StatusCode, string(b))
	}
	return out, b, nil
}

// intValue reads a provider code. Anything that is not an integer, or a string
// holding one, reports ok=false.
func intValue(v any) (int, bool) {
	switch t := v.(type) {
	case json.Number:
		n, err := strconv.Atoi(t.String())
		return n, err == nil
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case int:
		return t, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	}
	return 0, false
}

// codeIs compares a provider code loosely: 100, "100" and 100.0 are all 100.
func codeIs(v any, want ...int) bool {
	n, ok := intValue(v)
	if !ok {
		return false
	}
	for _, w := range want {
		if n == w {
			return true
		}
	}
	return false
}

func code(v any) int {
	n, _ := intValue(v)
	return n
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return fmt.Sprint(v)
}

func object(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// firstNonEmpty returns the first argument that is not blank.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
