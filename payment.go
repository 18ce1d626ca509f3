// Package gopay drives payments through interchangeable gateway drivers.
//
// A Manager resolves the driver for a call chain, merges its settings, and
// threads one invoice through purchase, pay and verify:
//
//	m := gopay.New(cfg)
//	err := m.Via("zibal").Purchase(ctx, payment.NewInvoice().SetAmount(50000), nil)
//	redirect, err := m.Pay()
//
// and later, when the payer comes back:
//
//	receipt, err := gopay.New(cfg).Via("zibal").Amount(50000).TransactionID(trackID).Verify(ctx)
//
// A Manager is not safe for concurrent use. Use one per flow, or call Fresh
// between flows.
package gopay

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/eamirgh/gopay/config"
	"github.com/eamirgh/gopay/driver"
	"github.com/eamirgh/gopay/payment"
)

type Manager struct {
	cfg       *config.Config
	registry  driver.Registry
	client    *http.Client
	logger    zerolog.Logger
	listeners []payment.Listener

	driver      string
	invoice     *payment.Invoice
	gateway     payment.Gateway
	overrides   payment.Settings
	callbackURL string
}

type Option func(*Manager)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithHTTPClient sets the client every driver uses to reach its provider.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithRegistry replaces the built-in driver registry.
func WithRegistry(r driver.Registry) Option {
	return func(m *Manager) { m.registry = r }
}

func WithListener(l payment.Listener) Option {
	return func(m *Manager) { m.listeners = append(m.listeners, l) }
}

// New creates a manager. A nil cfg means config.Default().
func New(cfg *config.Config, opts ...Option) *Manager {
	if cfg == nil {
		cfg = config.Default()
	}
	m := &Manager{
		cfg:       cfg,
		registry:  driver.Default(),
		client:    http.DefaultClient,
		logger:    zerolog.Nop(),
		overrides: payment.Settings{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Via selects the driver for the rest of the chain.
func (m *Manager) Via(driver string) *Manager {
	m.driver = driver
	return m
}

// Config overrides a single driver setting for the rest of the chain.
func (m *Manager) Config(key string, value any) *Manager {
	m.overrides[key] = value
	return m
}

// Configure overrides several driver settings at once.
func (m *Manager) Configure(settings payment.Settings) *Manager {
	for k, v := range settings {
		m.overrides[k] = v
	}
	return m
}

// CallbackURL overrides the callback of the invoice right before purchase.
func (m *Manager) CallbackURL(url string) *Manager {
	m.callbackURL = url
	return m
}

func (m *Manager) Amount(amount uint64) *Manager {
	m.Invoice().SetAmount(amount)
	return m
}

func (m *Manager) TransactionID(id string) *Manager {
	m.Invoice().SetTransactionID(id)
	return m
}

// Invoice returns the current invoice, creating an empty one if needed.
func (m *Manager) Invoice() *payment.Invoice {
	if m.invoice == nil {
		m.invoice = payment.NewInvoice()
	}
	return m.invoice
}

// Purchase creates the transaction at the provider and stores its id on the
// invoice. A non-nil invoice replaces the current one. onComplete, when set,
// receives the driver name and transaction id.
func (m *Manager) Purchase(ctx context.Context, invoice *payment.Invoice, onComplete func(driver, transactionID string)) error {
	if invoice != nil {
		m.invoice = invoice
	}
	inv := m.Invoice()
	if m.callbackURL != "" {
		inv.SetCallbackURL(m.callbackURL)
	}

	name, gw, err := m.resolve()
	if err != nil {
		return err
	}
	id, err := gw.Purchase(ctx)
	if err != nil {
		return err
	}
	inv.SetTransactionID(id)
	m.logger.Debug().
		Str("driver", name).
		Str("invoice", inv.UUID()).
		Str("transaction_id", id).
		Msg("payment purchased")

	e := payment.PurchasedEvent{Invoice: inv, TransactionID: id, Driver: name}
	for _, l := range m.listeners {
		l.Purchased(ctx, e)
	}
	if onComplete != nil {
		onComplete(name, id)
	}
	m.gateway = gw
	return nil
}

// Pay builds the redirect for the current invoice, reusing the gateway from
// Purchase when there is one.
func (m *Manager) Pay() (*payment.RedirectResponse, error) {
	if m.gateway == nil {
		_, gw, err := m.resolve()
		if err != nil {
			return nil, err
		}
		m.gateway = gw
	}
	return m.gateway.Pay(), nil
}

// Verify confirms the current invoice's transaction. The gateway is always
// resolved again so settings changed after purchase apply.
func (m *Manager) Verify(ctx context.Context) (*payment.Receipt, error) {
	name, gw, err := m.resolve()
	if err != nil {
		return nil, err
	}
	receipt, err := gw.Verify(ctx)
	if err != nil {
		return nil, err
	}
	m.logger.Debug().
		Str("driver", name).
		Str("invoice", m.Invoice().UUID()).
		Str("reference_id", receipt.ReferenceID()).
		Msg("payment verified")

	e := payment.VerifiedEvent{Receipt: receipt, Driver: name}
	for _, l := range m.listeners {
		l.Verified(ctx, e)
	}
	return receipt, nil
}

// Fresh drops all chain state so the manager can start an unrelated flow.
func (m *Manager) Fresh() *Manager {
	m.driver = ""
	m.invoice = nil
	m.gateway = nil
	m.overrides = payment.Settings{}
	m.callbackURL = ""
	return m
}

// driverName picks Via, then the invoice hint, then the configured default.
func (m *Manager) driverName() string {
	if m.driver != "" {
		return m.driver
	}
	if d := m.Invoice().Driver(); d != "" {
		return d
	}
	return m.cfg.Default
}

func (m *Manager) resolve() (string, payment.Gateway, error) {
	name := m.driverName()
	settings, ok := m.cfg.Drivers[name]
	if !ok || settings == nil {
		return name, nil, errors.Wrapf(payment.ErrInvalidConfig, "driver %q has no settings", name)
	}
	impl, ok := m.cfg.Map[name]
	if !ok || impl == "" {
		return name, nil, errors.Wrapf(payment.ErrInvalidConfig, "driver %q is not mapped to an implementation", name)
	}
	build, ok := m.registry.Lookup(impl)
	if !ok {
		return name, nil, errors.Wrapf(payment.ErrInvalidConfig, "driver %q maps to unknown implementation %q", name, impl)
	}
	gw, err := build(settings.Merge(m.overrides), m.client)
	if err != nil {
		return name, nil, err
	}
	if gw == nil {
		return name, nil, errors.Wrapf(payment.ErrInvalidConfig, "implementation %q of driver %q built no gateway", impl, name)
	}
	m.logger.Debug().Str("driver", name).Str("implementation", impl).Msg("driver resolved")
	return name, gw.SetInvoice(m.Invoice()), nil
}
