package shared

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevadhara/console/internal/platform/httpx"
)

type person struct {
	Name   string
	Mobile string
	Gotra  string
}

func people() []person {
	return []person{
		{Name: "Ramesh Patil", Mobile: "9876543210", Gotra: "Kashyap"},
		{Name: "Sita Devi", Mobile: "9123456780", Gotra: "Bharadwaj"},
		{Name: "Gopal Rao", Mobile: "9988776655", Gotra: "Vashishtha"},
	}
}

func personFields(p person) []string { return []string{p.Name, p.Mobile, p.Gotra} }

func TestFilterRowsCaseInsensitiveSubstring(t *testing.T) {
	got := FilterRows(people(), "PATIL", personFields)
	require.Len(t, got, 1)
	assert.Equal(t, "Ramesh Patil", got[0].Name)

	got = FilterRows(people(), "bhara", personFields)
	require.Len(t, got, 1)
	assert.Equal(t, "Sita Devi", got[0].Name)

	got = FilterRows(people(), "99887", personFields)
	require.Len(t, got, 1)
	assert.Equal(t, "Gopal Rao", got[0].Name)
}

func TestFilterRowsEmptyTermRestoresList(t *testing.T) {
	all := people()
	assert.Equal(t, all, FilterRows(all, "", personFields))
	assert.Equal(t, all, FilterRows(all, "   ", personFields))
}

func TestFilterRowsNoMatch(t *testing.T) {
	assert.Empty(t, FilterRows(people(), "zzz", personFields))
}

func TestPaginationInvariants(t *testing.T) {
	for total := 0; total <= 25; total++ {
		for perPage := 1; perPage <= 7; perPage++ {
			for page := -2; page <= 30; page++ {
				p := NewPagination(page, perPage, total)
				maxPage := (total + perPage - 1) / perPage
				if maxPage < 1 {
					maxPage = 1
				}
				assert.GreaterOrEqual(t, p.Page, 1)
				assert.LessOrEqual(t, p.Page, maxPage)
				assert.Equal(t, (p.Page-1)*perPage, p.Start)
				assert.LessOrEqual(t, p.End-p.Start, perPage)
				assert.LessOrEqual(t, p.End, total)
			}
		}
	}
}

func TestPaginateSlices(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	p := NewPagination(3, 10, len(items))
	assert.Equal(t, []int{20, 21, 22}, Paginate(items, p))
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	p = NewPagination(99, 10, len(items))
	assert.Equal(t, 3, p.Page)
}

func TestPaginationPagesWindow(t *testing.T) {
	p := NewPagination(5, 10, 100)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, p.Pages())
	assert.Empty(t, NewPagination(1, 10, 0).Pages())
}

func TestParseListFilters(t *testing.T) {
	req := httptest.NewRequest("GET", "/buyers?page=2&limit=25&search=+ram+", nil)
	f := ParseListFilters(req)
	assert.Equal(t, ListFilters{Page: 2, Limit: 25, Search: "ram"}, f)
	assert.Equal(t, "limit=25&page=3&search=ram", f.Query(3))

	f = ParseListFilters(httptest.NewRequest("GET", "/buyers?page=x", nil))
	assert.Equal(t, ListFilters{Page: 1, Limit: DefaultPerPage}, f)
}

func TestBuildListPage(t *testing.T) {
	var items []person
	for i := 0; i < 15; i++ {
		items = append(items, person{Name: "Buyer " + strconv.Itoa(i)})
	}
	page := BuildListPage(items, ListFilters{Page: 2, Limit: 10, Search: "buyer"}, personFields)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 15, page.Pagination.Total)
}

type sample struct {
	FullName     string  `json:"FullName" validate:"required"`
	MobileNumber string  `json:"MobileNumber" validate:"required,mobile"`
	Date         string  `json:"Date" validate:"omitempty,date"`
	Amount       float64 `json:"Amount" validate:"gte=0"`
}

func TestValidateStructMapsFieldsByJSONName(t *testing.T) {
	v := NewValidator()
	err := ValidateStruct(v, sample{MobileNumber: "98765432", Date: "18/10/2026"})
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	fields := FieldErrors(err)
	assert.Equal(t, map[string]string{
		"FullName":     "is required",
		"MobileNumber": "must be a 10-digit mobile number",
		"Date":         "must be a date (YYYY-MM-DD)",
	}, fields)
}

func TestValidateStructAccepts(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, ValidateStruct(v, sample{FullName: "Sita", MobileNumber: "9876543210", Date: "2026-10-18"}))
}

func TestIsMobile(t *testing.T) {
	assert.True(t, IsMobile("9876543210"))
	assert.False(t, IsMobile("98765432"))
	assert.False(t, IsMobile("98765432101"))
	assert.False(t, IsMobile("98765abcde"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefghij", 5))
	assert.Equal(t, "गोशाला…", Truncate("गोशाला सेवा", 7))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestFormatAmount(t *testing.T) {
	assert.True(t, strings.HasSuffix(FormatAmount(50), ".00"))
	assert.Contains(t, FormatAmount(1250.5), "250.50")
}

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := NewValidationError(map[string]string{"b": "x", "a": "y"})
	assert.Equal(t, "validation failed: a: y; b: x", err.Error())
}
