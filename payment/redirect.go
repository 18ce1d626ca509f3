package payment

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// RedirectResponse sends the payer to the provider's payment page.
type RedirectResponse struct {
	url    string
	method string
	data   map[string]string
}

// NewRedirectResponse builds a redirect. An empty method means GET.
func NewRedirectResponse(url, method string, data map[string]string) *RedirectResponse {
	if method == "" {
		method = http.MethodGet
	}
	return &RedirectResponse{url: url, method: method, data: data}
}

func (r *RedirectResponse) URL() string { return r.url }

func (r *RedirectResponse) Method() string { return r.method }

// Data is the form payload of a POST redirect.
func (r *RedirectResponse) Data() map[string]string {
	out := make(map[string]string, len(r.data))
	for k, v := range r.data {
		out[k] = v
	}
	return out
}

var formTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting…</title></head>
<body onload="document.forms[0].submit()">
<form action="{{.Action}}" method="{{.Method}}">
{{range $k, $v := .Inputs}}<input type="hidden" name="{{$k}}" value="{{$v}}">
{{end}}<noscript><button type="submit">Continue</button></noscript>
</form>
</body>
</html>
`))

// Render writes a plain HTTP redirect for GET, or an auto-submitting form otherwise.
func (r *RedirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	if r.method == http.MethodGet && len(r.data) == 0 {
		http.Redirect(w, req, r.url, http.StatusFound)
		return nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return formTemplate.Execute(w, struct {
		Action string
		Method string
		Inputs map[string]string
	}{r.url, r.method, r.data})
}

func (r *RedirectResponse) MarshalJSON() ([]byte, error) {
	inputs := r.data
	if inputs == nil {
		inputs = map[string]string{}
	}
	return json.Marshal(struct {
		Action string            `json:"action"`
		Method string            `json:"method"`
		Inputs map[string]string `json:"inputs"`
	}{r.url, r.method, inputs})
}
