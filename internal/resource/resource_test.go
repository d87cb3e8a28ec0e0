package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevadhara/console/internal/export"
	"github.com/sevadhara/console/internal/platform/httpx"
	"github.com/sevadhara/console/internal/shared"
	"github.com/sevadhara/console/internal/upstream"
	"github.com/sevadhara/console/internal/view"
	"github.com/sevadhara/console/report"
)

type contact struct {
	ID       string `json:"_id,omitempty"`
	FullName string `json:"FullName" validate:"required"`
	MobileNo string `json:"MobileNo" validate:"required,mobile"`
	Village  string `json:"Village"`
}

func contactDescriptor() *Descriptor[contact] {
	return &Descriptor[contact]{
		Slug:       "contacts",
		Title:      "Contacts",
		Singular:   "Contact",
		BasePath:   "/contacts",
		Endpoint:   "/api/contacts",
		ExportName: "Contacts",
		ID:         func(c contact) string { return c.ID },
		Search:     func(c contact) []string { return []string{c.FullName, c.MobileNo, c.Village} },
		Columns: []export.Column{
			{Header: "Name", Width: 24},
			{Header: "Mobile", Width: 14},
			{Header: "Village", Width: 18},
		},
		Row: func(c contact) []string { return []string{c.FullName, c.MobileNo, c.Village} },
		Fields: []Field{
			{Name: "FullName", Label: "Full name", Required: true},
			{Name: "MobileNo", Label: "Mobile", Type: "tel", Required: true},
			{Name: "Village", Label: "Village"},
		},
		Bind: func(v url.Values) contact {
			return contact{FullName: v.Get("FullName"), MobileNo: v.Get("MobileNo"), Village: v.Get("Village")}
		},
		Values: func(c contact) url.Values {
			return url.Values{"FullName": {c.FullName}, "MobileNo": {c.MobileNo}, "Village": {c.Village}}
		},
	}
}

// fakeAPI is an in-memory stand-in for one remote collection.
type fakeAPI struct {
	mu      sync.Mutex
	items   []contact
	posts   int
	puts    int
	deletes int
	status  int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"message":"rejected"}`))
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/contacts")
	id = strings.TrimPrefix(id, "/")
	switch {
	case r.Method == http.MethodGet && id == "":
		_ = json.NewEncoder(w).Encode(f.items)
	case r.Method == http.MethodGet:
		for _, c := range f.items {
			if c.ID == id {
				_ = json.NewEncoder(w).Encode(c)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPost:
		f.posts++
		var c contact
		_ = json.NewDecoder(r.Body).Decode(&c)
		c.ID = "c" + strconv.Itoa(len(f.items)+1)
		f.items = append(f.items, c)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": c})
	case r.Method == http.MethodPut:
		f.puts++
		var c contact
		_ = json.NewDecoder(r.Body).Decode(&c)
		c.ID = id
		for i := range f.items {
			if f.items[i].ID == id {
				f.items[i] = c
			}
		}
		_ = json.NewEncoder(w).Encode(c)
	case r.Method == http.MethodDelete:
		f.deletes++
		kept := f.items[:0]
		for _, c := range f.items {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		f.items = kept
		w.WriteHeader(http.StatusNoContent)
	}
}

func newContactService(t *testing.T, api *fakeAPI) *Service[contact] {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewService(contactDescriptor(), upstream.NewClient(srv.URL), nil)
}

func TestServiceCreateRejectsShortMobileWithoutCallingAPI(t *testing.T) {
	api := &fakeAPI{}
	svc := newContactService(t, api)

	_, err := svc.Create(context.Background(), contact{FullName: "Ramesh Patil", MobileNo: "98765432"})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	fields := shared.FieldErrors(err)
	require.Contains(t, fields, "MobileNo")
	assert.Equal(t, 0, api.posts)

	created, err := svc.Create(context.Background(), contact{FullName: "Ramesh Patil", MobileNo: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, 1, api.posts)
	assert.Equal(t, "c1", created.ID)
}

func TestServiceRunsPrepareCheckAndHooks(t *testing.T) {
	api := &fakeAPI{}
	svc := newContactService(t, api)
	desc := svc.Descriptor()
	desc.Prepare = func(c *contact) { c.Village = strings.ToUpper(c.Village) }
	desc.Check = func(c contact) map[string]string {
		if c.Village == "NOWHERE" {
			return map[string]string{"Village": "is not served"}
		}
		return nil
	}
	var changes int
	svc.OnChange(func(context.Context) { changes++ })

	_, err := svc.Create(context.Background(), contact{FullName: "A", MobileNo: "9876543210", Village: "nowhere"})
	require.Error(t, err)
	assert.Equal(t, "is not served", shared.FieldErrors(err)["Village"])
	assert.Zero(t, changes)

	created, err := svc.Create(context.Background(), contact{FullName: "A", MobileNo: "9876543210", Village: "wai"})
	require.NoError(t, err)
	assert.Equal(t, "WAI", created.Village)
	assert.Equal(t, 1, changes)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Equal(t, 2, changes)
}

func TestServiceUpdateRequiresID(t *testing.T) {
	api := &fakeAPI{}
	svc := newContactService(t, api)
	_, err := svc.Update(context.Background(), "", contact{FullName: "A", MobileNo: "9876543210"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Zero(t, api.puts)
}

func TestServicePageFiltersAndExports(t *testing.T) {
	api := &fakeAPI{}
	for i := 1; i <= 12; i++ {
		village := "Wai"
		if i%2 == 0 {
			village = "Satara"
		}
		api.items = append(api.items, contact{ID: strconv.Itoa(i), FullName: "Member " + strconv.Itoa(i), MobileNo: "98765432" + strconv.Itoa(10+i), Village: village})
	}
	svc := newContactService(t, api)

	page, err := svc.Page(context.Background(), shared.ListFilters{Page: 1, Limit: 10, Search: "satara"})
	require.NoError(t, err)
	assert.Equal(t, 6, page.Pagination.Total)
	assert.Len(t, page.Items, 6)

	page, err = svc.Page(context.Background(), shared.ListFilters{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Len(t, page.Items, 2)

	table, err := svc.ExportTable(context.Background(), "wai")
	require.NoError(t, err)
	assert.Len(t, table.Rows, 6)
	assert.Equal(t, "Contacts", table.Entity)
}

func TestServiceFilterKeepsOwnRecords(t *testing.T) {
	api := &fakeAPI{items: []contact{{ID: "1", FullName: "A", Village: "Wai"}, {ID: "2", FullName: "B", Village: "Satara"}}}
	svc := newContactService(t, api)
	svc.Descriptor().Filter = func(c contact) bool { return c.Village == "Wai" }

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].FullName)
}

type fakePDF struct{}

func (fakePDF) RenderHTML(context.Context, string, report.PageOptions) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func newContactRouter(t *testing.T, api *fakeAPI) http.Handler {
	t.Helper()
	engine, err := view.NewEngine()
	require.NoError(t, err)
	exporter, err := export.NewExporter(fakePDF{})
	require.NoError(t, err)
	h := NewHandler(nil, newContactService(t, api), engine, nil, exporter)
	r := chi.NewRouter()
	r.Route("/contacts", h.MountRoutes)
	return r
}

func TestHandlerListRendersRowsAndPager(t *testing.T) {
	api := &fakeAPI{}
	for i := 1; i <= 15; i++ {
		api.items = append(api.items, contact{ID: strconv.Itoa(i), FullName: "Member " + strconv.Itoa(i), MobileNo: "9876543210"})
	}
	router := newContactRouter(t, api)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts?page=2&search=member", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Member 11")
	assert.NotContains(t, body, "Member 1<")
	assert.Contains(t, body, "Showing 11–15 of 15")
	assert.Contains(t, body, `href="/contacts?page=1&amp;search=member"`)
	assert.Contains(t, body, `/contacts/export?format=xlsx&amp;search=member`)
}

func TestHandlerCreateReRendersFormOnValidationError(t *testing.T) {
	api := &fakeAPI{}
	router := newContactRouter(t, api)

	form := url.Values{"FullName": {"Ramesh"}, "MobileNo": {"98765432"}}
	req := httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "must be a 10-digit mobile number")
	assert.Contains(t, rec.Body.String(), `value="98765432"`)
	assert.Zero(t, api.posts)

	form.Set("MobileNo", "9876543210")
	req = httptest.NewRequest(http.MethodPost, "/contacts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/contacts", rec.Header().Get("Location"))
	assert.Equal(t, 1, api.posts)
}

func TestHandlerEditUpdateDelete(t *testing.T) {
	api := &fakeAPI{items: []contact{{ID: "7", FullName: "Sita", MobileNo: "9876543210", Village: "Wai"}}}
	router := newContactRouter(t, api)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/7/edit", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Sita"`)
	assert.Contains(t, rec.Body.String(), `action="/contacts/7/edit"`)

	form := url.Values{"FullName": {"Sita Jadhav"}, "MobileNo": {"9876543210"}, "Village": {"Wai"}}
	req := httptest.NewRequest(http.MethodPost, "/contacts/7/edit", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, api.puts)
	assert.Equal(t, "Sita Jadhav", api.items[0].FullName)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contacts/7/delete", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, api.items)
}

func TestHandlerExportDownloadsFilteredFile(t *testing.T) {
	api := &fakeAPI{items: []contact{
		{ID: "1", FullName: "Ramesh", MobileNo: "9876543210", Village: "Wai"},
		{ID: "2", FullName: "Suresh", MobileNo: "9876500000", Village: "Satara"},
	}}
	router := newContactRouter(t, api)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/export?format=csv&search=wai", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Contacts_")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
	assert.Contains(t, rec.Body.String(), "Ramesh")
	assert.NotContains(t, rec.Body.String(), "Suresh")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/export?format=doc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerJSONAndUnauthorized(t *testing.T) {
	api := &fakeAPI{items: []contact{{ID: "1", FullName: "Ramesh", MobileNo: "9876543210"}}}
	router := newContactRouter(t, api)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts/api?search=ram", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []contact `json:"items"`
		Total int       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)

	api.status = http.StatusUnauthorized
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?next=%2Fcontacts", rec.Header().Get("Location"))
}
