package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoice(t *testing.T) {
	inv := NewInvoice()
	_, err := uuid.Parse(inv.UUID())
	require.NoError(t, err)
	assert.NotEqual(t, inv.UUID(), NewInvoice().UUID())

	inv.SetUUID("order-1").
		SetAmount(1200).
		SetDescription("desc").
		SetCallbackURL("https://cb").
		Via("zibal").
		Detail("mobile", "0912").
		SetDetails(map[string]any{"email": "a@b.c", "empty": ""})

	assert.Equal(t, "order-1", inv.UUID())
	assert.EqualValues(t, 1200, inv.Amount())
	assert.Equal(t, "desc", inv.Description())
	assert.Equal(t, "https://cb", inv.CallbackURL())
	assert.Equal(t, "zibal", inv.Driver())
	assert.Empty(t, inv.TransactionID())
	assert.True(t, inv.Has("mobile"))
	assert.True(t, inv.Has("email"))
	assert.False(t, inv.Has("empty"))
	assert.False(t, inv.Has("order_id"))
	assert.Equal(t, "0912", inv.Get("mobile"))

	details := inv.Details()
	details["mobile"] = "changed"
	assert.Equal(t, "0912", inv.Get("mobile"))
}

func TestSettings(t *testing.T) {
	base := Settings{"merchant_id": "M1", "sandbox": false, "description": "d"}
	merged := base.Merge(Settings{"merchant_id": "M2", "extra": 3})

	assert.Equal(t, "M2", merged.String("merchant_id"))
	assert.Equal(t, "d", merged.String("description"))
	assert.Equal(t, "3", merged.String("extra"))
	assert.Equal(t, "", merged.String("missing"))
	assert.Equal(t, "M1", base.String("merchant_id"), "merge must not touch the receiver")
	assert.True(t, merged.Has("extra"))

	for v, want := range map[any]bool{true: true, "true": true, "1": true, "false": false, "": false, 0: false} {
		got, err := Settings{"sandbox": v}.Bool("sandbox")
		require.NoError(t, err, v)
		assert.Equal(t, want, got, v)
	}
	got, err := Settings{}.Bool("sandbox")
	require.NoError(t, err)
	assert.False(t, got)

	_, err = Settings{"sandbox": "yes please"}.Bool("sandbox")
	assert.Error(t, err)
	_, err = Settings{"sandbox": 1.5}.Bool("sandbox")
	assert.Error(t, err)
}

func TestReceipt(t *testing.T) {
	r := NewReceipt("zibal", "999", map[string]any{"result": 100})
	assert.Equal(t, "999", r.ReferenceID())
	assert.Equal(t, "zibal", r.Driver())
	assert.False(t, r.Date().IsZero())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "999", out["reference_id"])
	assert.Equal(t, "zibal", out["driver"])
}

func TestRedirectResponse_RenderGet(t *testing.T) {
	redirect := NewRedirectResponse("https://gateway.zibal.ir/start/1", "", nil)
	assert.Equal(t, http.MethodGet, redirect.Method())

	rec := httptest.NewRecorder()
	require.NoError(t, redirect.Render(rec, httptest.NewRequest(http.MethodGet, "/pay", nil)))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://gateway.zibal.ir/start/1", rec.Header().Get("Location"))
}

func TestRedirectResponse_RenderPost(t *testing.T) {
	redirect := NewRedirectResponse("https://bank.test/pay", http.MethodPost, map[string]string{"token": `a"b`})

	rec := httptest.NewRecorder()
	require.NoError(t, redirect.Render(rec, httptest.NewRequest(http.MethodGet, "/pay", nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, `action="https://bank.test/pay"`)
	assert.Contains(t, body, `method="POST"`)
	assert.Contains(t, body, `name="token" value="a&#34;b"`)
}

func TestRedirectResponse_JSON(t *testing.T) {
	b, err := json.Marshal(NewRedirectResponse("https://x/1", "", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"https://x/1","method":"GET","inputs":{}}`, string(b))
}

func TestErrors(t *testing.T) {
	var err error = &PurchaseFailedError{Message: "nope", Code: -9}
	assert.True(t, errors.Is(err, ErrPurchaseFailed))
	assert.False(t, errors.Is(err, ErrInvalidPayment))
	assert.Equal(t, "purchase failed: nope (code -9)", err.Error())

	err = errors.Wrap(&InvalidPaymentError{Message: "track id is invalid", Code: 203}, "verify")
	assert.True(t, errors.Is(err, ErrInvalidPayment))
	var ip *InvalidPaymentError
	require.True(t, errors.As(err, &ip))
	assert.Equal(t, 203, ip.Code)

	assert.True(t, errors.Is(errors.Wrapf(ErrInvalidConfig, "driver %q", "x"), ErrInvalidConfig))
}
