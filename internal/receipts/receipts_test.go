package receipts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/notify"
	"github.com/sevadhara/console/internal/resource"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/upstream"
	"github.com/sevadhara/console/internal/view"
	"github.com/sevadhara/console/report"
)

func TestAmountInWords(t *testing.T) {
	cases := map[float64]string{
		0:          "Rupees Zero Only",
		11:         "Rupees Eleven Only",
		101:        "Rupees One Hundred One Only",
		1001:       "Rupees One Thousand One Only",
		125000.5:   "Rupees One Lakh Twenty Five Thousand and Fifty Paise Only",
		2500000:    "Rupees Twenty Five Lakh Only",
		12345678.9: "Rupees One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight and Ninety Paise Only",
	}
	for in, want := range cases {
		assert.Equal(t, want, AmountInWords(in), "%v", in)
	}
}

func TestDescriptorsSplitDirectReceipts(t *testing.T) {
	dengidar, direct, goseva := Descriptor(KindDengidar), Descriptor(KindDirect), Descriptor(KindGoSeva)
	assert.Equal(t, dengidar.Endpoint, direct.Endpoint)
	assert.Equal(t, "/api/goseva", goseva.Endpoint)

	rc := Receipt{FullName: "Sita"}
	direct.Prepare(&rc)
	assert.True(t, rc.Direct)
	assert.NotEmpty(t, rc.ReceiptDate)
	assert.True(t, direct.Filter(rc))
	assert.False(t, dengidar.Filter(rc))
	dengidar.Prepare(&rc)
	assert.False(t, rc.Direct)
	assert.Nil(t, goseva.Filter)
}

func TestReceiptValidationUsesFixedLists(t *testing.T) {
	svc := resource.NewService(Descriptor(KindDengidar), upstream.NewClient("http://127.0.0.1:0"), nil)
	rc := Receipt{FullName: "Sita", MobileNumber: "9876543210", Gotra: "Unknown", SevaType: "Abhishek", Amount: 501, PaymentMode: "Cash", ReceiptDate: "2024-03-01"}
	fields := shared.FieldErrors(svc.Validate(rc))
	assert.Contains(t, fields, "Gotra")

	rc.Gotra = "Kashyap"
	assert.NoError(t, svc.Validate(rc))

	rc.SevaType = "Chara Daan"
	assert.Contains(t, shared.FieldErrors(svc.Validate(rc)), "SevaType")

	goseva := resource.NewService(Descriptor(KindGoSeva), upstream.NewClient("http://127.0.0.1:0"), nil)
	assert.NoError(t, goseva.Validate(rc))

	rc.Amount = 0
	rc.ReceiptDate = "01/03/2024"
	fields = shared.FieldErrors(goseva.Validate(rc))
	assert.Equal(t, "must be greater than 0", fields["Amount"])
	assert.Contains(t, fields, "ReceiptDate")
}

func TestReceiptGotraIsOptionalAndAmountMustBeFinite(t *testing.T) {
	svc := resource.NewService(Descriptor(KindDengidar), upstream.NewClient("http://127.0.0.1:0"), nil)
	form := url.Values{
		"FullName":     {"Sita"},
		"MobileNumber": {"9876543210"},
		"SevaType":     {"Abhishek"},
		"Amount":       {"Inf"},
		"PaymentMode":  {"UPI"},
		"ReceiptDate":  {"2024-03-01"},
	}
	rc := bind(form)
	assert.Empty(t, rc.Gotra)
	fields := shared.FieldErrors(svc.Validate(rc))
	assert.Equal(t, "must be greater than 0", fields["Amount"])
	assert.NotContains(t, fields, "Gotra")

	form.Set("Amount", "NaN")
	assert.Contains(t, shared.FieldErrors(svc.Validate(bind(form))), "Amount")

	form.Set("Amount", "1100")
	assert.NoError(t, svc.Validate(bind(form)))
}

type fakeEngine struct {
	html string
	opts report.PageOptions
}

func (f *fakeEngine) RenderHTML(_ context.Context, html string, opts report.PageOptions) ([]byte, error) {
	f.html, f.opts = html, opts
	return []byte("%PDF-1.7 receipt"), nil
}

type outbox struct{ sent []notify.Notification }

func (o *outbox) Send(_ context.Context, n notify.Notification) error {
	o.sent = append(o.sent, n)
	return nil
}

func newReceiptService(t *testing.T, engine *fakeEngine, box *outbox) *Service {
	t.Helper()
	stored := Receipt{ID: "r1", ReceiptNumber: "D/101", FullName: "Sita Jadhav", MobileNumber: "9876543210", Gotra: "Kashyap", SevaType: "Annadan", Amount: 1100, PaymentMode: "UPI", ReceiptDate: "2024-03-01"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/dengidar-receipt/r1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(stored)
	}))
	t.Cleanup(srv.Close)
	renderer, err := NewRenderer(engine, "Shri Kshetra Devasthan")
	require.NoError(t, err)
	screen := resource.NewService(Descriptor(KindDengidar), upstream.NewClient(srv.URL), nil)
	return NewService(screen, renderer, notify.NewDispatcher(box, nil, nil), "Shri Kshetra Devasthan", nil)
}

func TestReceiptPDFUsesA5AndAmountInWords(t *testing.T) {
	engine := &fakeEngine{}
	svc := newReceiptService(t, engine, &outbox{})

	rc, pdf, err := svc.PDF(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, "Sita Jadhav", rc.FullName)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))
	assert.Equal(t, report.A5, engine.opts)
	assert.Contains(t, engine.html, "Rupees One Thousand One Hundred Only")
	assert.Contains(t, engine.html, "Dengidar Receipt")
	assert.Equal(t, "Receipt_D-101.pdf", FileName(rc))
}

func TestReceiptSendAttachesPDF(t *testing.T) {
	box := &outbox{}
	svc := newReceiptService(t, &fakeEngine{}, box)

	_, err := svc.Send(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, box.sent, 1)
	n := box.sent[0]
	require.NotNil(t, n.Document)
	assert.Equal(t, "Receipt_D-101.pdf", n.Document.FileName)
	assert.Contains(t, n.Document.Caption, "Sita Jadhav")
	assert.Contains(t, n.Document.Caption, "Kashyap")
	assert.Equal(t, "919876543210", n.Phone)
}

func TestReceiptPDFRoute(t *testing.T) {
	svc := newReceiptService(t, &fakeEngine{}, &outbox{})
	engine, err := view.NewEngine()
	require.NoError(t, err)
	exporter, err := export.NewExporter(nil)
	require.NoError(t, err)
	r := chi.NewRouter()
	r.Route("/receipts/dengidar", NewHandler(nil, svc, engine, nil, exporter).MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/receipts/dengidar/r1/pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Receipt_D-101.pdf")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/receipts/dengidar/missing/pdf", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
