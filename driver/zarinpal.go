package driver

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/eamirgh/gopay/payment"
)

const ZarinpalName = "zarinpal"

var zarinpalNormalAPI = map[string]string{
	"apiPurchaseUrl":     "https://payment.zarinpal.com/pg/v4/payment/request.json",
	"apiPaymentUrl":      "https://payment.zarinpal.com/pg/StartPay/",
	"apiVerificationUrl": "https://payment.zarinpal.com/pg/v4/payment/verify.json",
}

var zarinpalSandboxAPI = map[string]string{
	"apiPurchaseUrl":     "https://sandbox.zarinpal.com/pg/v4/payment/request.json",
	"apiPaymentUrl":      "https://sandbox.zarinpal.com/pg/StartPay/",
	"apiVerificationUrl": "https://sandbox.zarinpal.com/pg/v4/payment/verify.json",
}

const (
	zarinpalSuccess         = 100
	zarinpalAlreadyVerified = 101
)

// Zarinpal talks to the Zarinpal v4 REST API. Sandbox mode swaps every host.
type Zarinpal struct {
	settings  payment.Settings
	endpoints map[string]string
	client    *http.Client
	invoice   *payment.Invoice
}

var _ payment.Gateway = (*Zarinpal)(nil)

// NewZarinpal builds the driver from its settings block.
func NewZarinpal(settings payment.Settings, client *http.Client) (payment.Gateway, error) {
	sandbox, err := settings.Bool("sandbox")
	if err != nil {
		return nil, errors.Wrapf(payment.ErrInvalidConfig, "zarinpal: %v", err)
	}
	endpoints := zarinpalNormalAPI
	if sandbox {
		endpoints = zarinpalSandboxAPI
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Zarinpal{
		settings:  settings,
		endpoints: endpoints,
		client:    client,
	}, nil
}

func (z *Zarinpal) Name() string { return ZarinpalName }

func (z *Zarinpal) SetInvoice(i *payment.Invoice) payment.Gateway {
	z.invoice = i
	return z
}

type zarinpalPurchaseReq struct {
	MerchantID  string            `json:"merchant_id"`
	Amount      uint64            `json:"amount"`
	CallbackURL string            `json:"callback_url"`
	Description string            `json:"description"`
	Currency    string            `json:"currency,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

func (z *Zarinpal) purchaseRequest() *zarinpalPurchaseReq {
	i := z.invoice
	req := &zarinpalPurchaseReq{
		MerchantID:  z.settings.String("merchant_id"),
		Amount:      i.Amount(),
		CallbackURL: firstNonEmpty(i.CallbackURL(), z.settings.String("callback_url")),
		Description: firstNonEmpty(i.Description(), z.settings.String("description")),
		Currency:    z.settings.String("currency"),
	}
	for _, key := range []string{"mobile", "email", "order_id"} {
		if !i.Has(key) {
			continue
		}
		if req.Metadata == nil {
			req.Metadata = make(map[string]string)
		}
		req.Metadata[key] = stringValue(i.Get(key))
	}
	return req
}

func (z *Zarinpal) Purchase(ctx context.Context) (string, error) {
	res, body, err := postJSON(ctx, z.client, z.endpoints["apiPurchaseUrl"], z.purchaseRequest())
	if err != nil {
		return "", errors.Wrap(err, "zarinpal purchase")
	}
	data := object(res["data"])
	if !codeIs(data["code"], zarinpalSuccess) {
		msg, c := zarinpalFailure(res)
		return "", &payment.PurchaseFailedError{
			Message: firstNonEmpty(msg, "zarinpal purchase request was rejected"),
			Code:    c,
			Body:    body,
		}
	}
	return stringValue(data["authority"]), nil
}

func (z *Zarinpal) Pay() *payment.RedirectResponse {
	return payment.NewRedirectResponse(z.endpoints["apiPaymentUrl"]+z.invoice.TransactionID(), http.MethodGet, nil)
}

type zarinpalVerifyReq struct {
	MerchantID string `json:"merchant_id"`
	Authority  string `json:"authority"`
	Amount     uint64 `json:"amount"`
}

func (z *Zarinpal) Verify(ctx context.Context) (*payment.Receipt, error) {
	res, body, err := postJSON(ctx, z.client, z.endpoints["apiVerificationUrl"], &zarinpalVerifyReq{
		MerchantID: z.settings.String("merchant_id"),
		Authority:  z.invoice.TransactionID(),
		Amount:     z.invoice.Amount(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "zarinpal verify")
	}
	data := object(res["data"])
	if !codeIs(data["code"], zarinpalSuccess, zarinpalAlreadyVerified) {
		msg, c := zarinpalFailure(res)
		return nil, &payment.InvalidPaymentError{
			Message: firstNonEmpty(msg, "zarinpal could not verify the payment"),
			Code:    c,
			Body:    body,
		}
	}
	return payment.NewReceipt(z.Name(), stringValue(data["ref_id"]), data), nil
}

// zarinpalFailure extracts message and code from a rejected reply. Zarinpal
// sends errors as an object; an empty object or list carries no information.
func zarinpalFailure(res map[string]any) (string, int) {
	if errs := object(res["errors"]); len(errs) > 0 {
		return stringValue(errs["message"]), code(errs["code"])
	}
	return "", code(object(res["data"])["code"])
}
