// Package payment holds the types shared by every gateway driver: the invoice a
// payment is built from, the receipt a verification produces, the redirect a
// driver hands back to the caller, and the Gateway contract itself.
package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Gateway is implemented by every payment driver.
type Gateway interface {
	// Name returns the driver's own name, as stamped on receipts.
	Name() string
	// SetInvoice binds the invoice used by subsequent calls.
	SetInvoice(i *Invoice) Gateway
	// Purchase creates a transaction on the provider and returns its token.
	Purchase(ctx context.Context) (string, error)
	// Pay builds the redirect to the provider's payment page.
	Pay() *RedirectResponse
	// Verify confirms the bound invoice's transaction with the provider.
	Verify(ctx context.Context) (*Receipt, error)
}

// Settings is the configuration block of a single driver.
type Settings map[string]any

// Merge returns a copy of s with every key of overrides applied on top.
func (s Settings) Merge(overrides Settings) Settings {
	out := make(Settings, len(s)+len(overrides))
	for k, v := range s {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func (s Settings) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// String returns the value stored under key rendered as a string, or "" when absent.
func (s Settings) String(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Bool parses the value stored under key. Missing keys are false.
func (s Settings) Bool(key string) (bool, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return false, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return false, nil
		}
		return strconv.ParseBool(strings.TrimSpace(t))
	case int:
		return t != 0, nil
	}
	return false, fmt.Errorf("setting %q: cannot use %T as bool", key, v)
}
