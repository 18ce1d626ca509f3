package payment

import "github.com/google/uuid"

// Invoice is the request-in-progress for one payment.
type Invoice struct {
	uuid          string
	amount        uint64
	description   string
	transactionID string
	driver        string
	callbackURL   string
	details       map[string]any
}

// NewInvoice returns an empty invoice with a fresh correlation id.
func NewInvoice() *Invoice {
	return &Invoice{
		uuid:    uuid.NewString(),
		details: make(map[string]any),
	}
}

// UUID is a caller-side correlation id. It is never sent to a gateway.
func (i *Invoice) UUID() string { return i.uuid }

func (i *Invoice) SetUUID(id string) *Invoice {
	i.uuid = id
	return i
}

// Amount is expressed in the gateway's minor unit.
func (i *Invoice) Amount() uint64 { return i.amount }

func (i *Invoice) SetAmount(amount uint64) *Invoice {
	i.amount = amount
	return i
}

func (i *Invoice) Description() string { return i.description }

func (i *Invoice) SetDescription(description string) *Invoice {
	i.description = description
	return i
}

func (i *Invoice) TransactionID() string { return i.transactionID }

func (i *Invoice) SetTransactionID(id string) *Invoice {
	i.transactionID = id
	return i
}

// Driver is the invoice's own driver hint.
func (i *Invoice) Driver() string { return i.driver }

func (i *Invoice) Via(driver string) *Invoice {
	i.driver = driver
	return i
}

func (i *Invoice) CallbackURL() string { return i.callbackURL }

func (i *Invoice) SetCallbackURL(url string) *Invoice {
	i.callbackURL = url
	return i
}

// Detail stores a provider-specific optional field such as mobile or order_id.
func (i *Invoice) Detail(key string, value any) *Invoice {
	if i.details == nil {
		i.details = make(map[string]any)
	}
	i.details[key] = value
	return i
}

// SetDetails merges details into the invoice.
func (i *Invoice) SetDetails(details map[string]any) *Invoice {
	for k, v := range details {
		i.Detail(k, v)
	}
	return i
}

// Details returns a copy of the detail bag.
func (i *Invoice) Details() map[string]any {
	out := make(map[string]any, len(i.details))
	for k, v := range i.details {
		out[k] = v
	}
	return out
}

// Has reports whether a non-empty detail is stored under key.
func (i *Invoice) Has(key string) bool {
	v, ok := i.details[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

func (i *Invoice) Get(key string) any {
	return i.details[key]
}
