// Package driver implements payment.Gateway for the supported providers.
package driver

import (
	"net/http"

	"github.com/eamirgh/gopay/payment"
)

// Constructor builds a gateway from its merged settings.
type Constructor func(settings payment.Settings, client *http.Client) (payment.Gateway, error)

// Registry maps implementation names, as referenced by the config driver map,
// to their constructors.
type Registry map[string]Constructor

// Default returns a registry holding every driver shipped with this package.
func Default() Registry {
	return Registry{
		ZarinpalName: NewZarinpal,
		ZibalName:    NewZibal,
	}
}

// Lookup returns the constructor registered under name.
func (r Registry) Lookup(name string) (Constructor, bool) {
	c, ok := r[name]
	return c, ok && c != nil
}
