package driver

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/eamirgh/gopay/payment"
)

const ZibalName = "zibal"

const (
	zibalPurchaseURL = "https://gateway.zibal.ir/v1/request"
	zibalVerifyURL   = "https://gateway.zibal.ir/v1/verify"
	zibalPaymentURL  = "https://gateway.zibal.ir/start/"

	// zibalSandboxMerchant is accepted by Zibal as a test merchant on the live host.
	zibalSandboxMerchant = "zibal"

	zibalSuccess         = 100
	zibalAlreadyVerified = 201
)

var zibalVerifyMessages = map[int]string{
	102: "merchant not found",
	103: "merchant is inactive",
	104: "merchant is invalid",
	202: "order has not been paid or the payment was unsuccessful",
	203: "track id is invalid",
}

// Zibal talks to the Zibal v1 API. Sandbox mode keeps the host and swaps the merchant.
type Zibal struct {
	settings payment.Settings
	sandbox  bool
	client   *http.Client
	invoice  *payment.Invoice
}

var _ payment.Gateway = (*Zibal)(nil)

func NewZibal(settings payment.Settings, client *http.Client) (payment.Gateway, error) {
	sandbox, err := settings.Bool("sandbox")
	if err != nil {
		return nil, errors.Wrapf(payment.ErrInvalidConfig, "zibal: %v", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Zibal{settings: settings, sandbox: sandbox, client: client}, nil
}

func (z *Zibal) Name() string { return ZibalName }

func (z *Zibal) SetInvoice(i *payment.Invoice) payment.Gateway {
	z.invoice = i
	return z
}

func (z *Zibal) merchant() string {
	if z.sandbox {
		return zibalSandboxMerchant
	}
	return z.settings.String("merchant")
}

func (z *Zibal) purchaseRequest() map[string]any {
	i := z.invoice
	req := map[string]any{
		"merchant":    z.merchant(),
		"amount":      i.Amount(),
		"callbackUrl": firstNonEmpty(i.CallbackURL(), z.settings.String("callback_url")),
	}
	if desc := firstNonEmpty(i.Description(), z.settings.String("description")); desc != "" {
		req["description"] = desc
	}
	fields := map[string]string{
		"order_id":      "orderId",
		"mobile":        "mobile",
		"allowed_cards": "allowedCards",
		"national_code": "nationalCode",
	}
	for detail, field := range fields {
		if i.Has(detail) {
			req[field] = i.Get(detail)
		}
	}
	return req
}

func (z *Zibal) Purchase(ctx context.Context) (string, error) {
	res, body, err := postJSON(ctx, z.client, zibalPurchaseURL, z.purchaseRequest())
	if err != nil {
		return "", errors.Wrap(err, "zibal purchase")
	}
	if !codeIs(res["result"], zibalSuccess) {
		return "", &payment.PurchaseFailedError{
			Message: firstNonEmpty(stringValue(res["message"]), "zibal purchase request was rejected"),
			Code:    code(res["result"]),
			Body:    body,
		}
	}
	return stringValue(res["trackId"]), nil
}

func (z *Zibal) Pay() *payment.RedirectResponse {
	return payment.NewRedirectResponse(zibalPaymentURL+z.invoice.TransactionID(), http.MethodGet, nil)
}

func (z *Zibal) Verify(ctx context.Context) (*payment.Receipt, error) {
	res, body, err := postJSON(ctx, z.client, zibalVerifyURL, map[string]any{
		"merchant": z.merchant(),
		"trackId":  z.invoice.TransactionID(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "zibal verify")
	}
	if !codeIs(res["result"], zibalSuccess, zibalAlreadyVerified) {
		c := code(res["result"])
		return nil, &payment.InvalidPaymentError{
			Message: firstNonEmpty(zibalVerifyMessages[c], stringValue(res["message"]), "zibal could not verify the payment"),
			Code:    c,
			Body:    body,
		}
	}
	ref := stringValue(res["refNumber"])
	if ref == "" {
		ref = z.invoice.TransactionID()
	}
	return payment.NewReceipt(z.Name(), ref, res), nil
}
