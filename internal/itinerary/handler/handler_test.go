package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"itinsort/internal/domain"
	"itinsort/internal/itinerary"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockValidator struct{ mock.Mock }

func (m *MockValidator) Validate(sortingType string, inputs []itinerary.Input) ([]domain.Itinerary, error) {
	args := m.Called(sortingType, inputs)
	items, _ := args.Get(0).([]domain.Itinerary)
	return items, args.Error(1)
}

type MockSorter struct{ mock.Mock }

func (m *MockSorter) Sort(ctx context.Context, sortingType string, items []domain.Itinerary) (itinerary.SortResult, error) {
	args := m.Called(ctx, sortingType, items)
	res, _ := args.Get(0).(itinerary.SortResult)
	return res, args.Error(1)
}

func (m *MockSorter) Names() []string {
	args := m.Called()
	names, _ := args.Get(0).([]string)
	return names
}

type errorJSON struct {
	Error string `json:"error"`
}

func doSort(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/sort_itineraries", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.SortItineraries(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var e errorJSON
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	return e.Error
}

func usd(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: "USD"}
}

// --- ListSorts ---

func TestHandler_ListSorts(t *testing.T) {
	sorter := new(MockSorter)
	sorter.On("Names").Return([]string{"best", "cheapest", "fastest"}).Once()
	h := NewItineraryHandler(new(MockValidator), sorter)

	rr := httptest.NewRecorder()
	h.ListSorts(rr, httptest.NewRequest(http.MethodGet, "/sorts", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t, `{"available":["best","cheapest","fastest"]}`, rr.Body.String())
	sorter.AssertExpectations(t)
}

// --- SortItineraries ---

func TestHandler_SortItineraries_Success(t *testing.T) {
	validator := new(MockValidator)
	sorter := new(MockSorter)
	h := NewItineraryHandler(validator, sorter)

	a := domain.Itinerary{ID: "a", DurationMinutes: 90, Price: usd("20.50")}
	b := domain.Itinerary{ID: "b", DurationMinutes: 60, Price: usd("10")}
	snapID := uuid.New()
	fetchedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	validator.On("Validate", "cheapest", mock.MatchedBy(func(in []itinerary.Input) bool {
		return len(in) == 2 && in[0].ID == "a" && in[0].Amount.Valid && in[0].Amount.Decimal.Equal(decimal.RequireFromString("20.5")) && *in[1].DurationMinutes == 60 && in[1].Currency == "usd"
	})).Return([]domain.Itinerary{a, b}, nil).Once()
	sorter.On("Sort", mock.Anything, "cheapest", []domain.Itinerary{a, b}).Return(itinerary.SortResult{
		SortingType:    "cheapest",
		Itineraries:    []domain.Itinerary{b, a},
		TargetCurrency: "USD",
		SnapshotID:     snapID,
		RatesFetchedAt: fetchedAt,
	}, nil).Once()

	rr := doSort(h, `{
		"sorting_type": "cheapest",
		"itineraries": [
			{"id": "a", "duration_minutes": 90, "price": {"amount": "20.50", "currency": "USD"}},
			{"id": "b", "duration_minutes": 60, "price": {"amount": 10, "currency": "usd"}}
		]
	}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{
		"sorting_type": "cheapest",
		"sorted_itineraries": [
			{"id": "b", "duration_minutes": 60, "price": {"amount": "10", "currency": "USD"}},
			{"id": "a", "duration_minutes": 90, "price": {"amount": "20.5", "currency": "USD"}}
		]
	}`, rr.Body.String())
	require.Equal(t, snapID.String(), rr.Header().Get("X-Rates-Snapshot-Id"))
	require.Equal(t, "2024-05-01T12:00:00Z", rr.Header().Get("X-Rates-Fetched-At"))
	validator.AssertExpectations(t)
	sorter.AssertExpectations(t)
}

func TestHandler_SortItineraries_EmptyBatch_NoRateHeaders(t *testing.T) {
	validator := new(MockValidator)
	sorter := new(MockSorter)
	h := NewItineraryHandler(validator, sorter)

	validator.On("Validate", "best", []itinerary.Input{}).Return([]domain.Itinerary{}, nil).Once()
	sorter.On("Sort", mock.Anything, "best", []domain.Itinerary{}).
		Return(itinerary.SortResult{SortingType: "best", Itineraries: []domain.Itinerary{}}, nil).Once()

	rr := doSort(h, `{"sorting_type": "best", "itineraries": []}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"sorting_type":"best","sorted_itineraries":[]}`, rr.Body.String())
	require.Empty(t, rr.Header().Get("X-Rates-Snapshot-Id"))
}

func TestHandler_SortItineraries_BadBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"sorting_type": `},
		{name: "unknown field", body: `{"sorting_type": "best", "itineraries": [], "extra": 1}`},
		{name: "amount not a number", body: `{"sorting_type": "best", "itineraries": [{"id": "a", "duration_minutes": 1, "price": {"amount": "ten", "currency": "USD"}}]}`},
		{name: "duration not an int", body: `{"sorting_type": "best", "itineraries": [{"id": "a", "duration_minutes": "long", "price": {"amount": "1", "currency": "USD"}}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			validator := new(MockValidator)
			sorter := new(MockSorter)
			h := NewItineraryHandler(validator, sorter)

			rr := doSort(h, tc.body)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, "invalid request body", decodeError(t, rr))
			validator.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
			sorter.AssertNotCalled(t, "Sort", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_SortItineraries_BodyTooLarge(t *testing.T) {
	h := NewItineraryHandler(new(MockValidator), new(MockSorter))

	var buf bytes.Buffer
	buf.WriteString(`{"sorting_type": "best", "itineraries": [`)
	for i := 0; buf.Len() <= maxBodyBytes; i++ {
		if i > 0 {
			buf.WriteString(",")
		}
		fmt.Fprintf(&buf, `{"id": "%d", "duration_minutes": 1, "price": {"amount": "1", "currency": "USD"}}`, i)
	}
	buf.WriteString("]}")

	rr := doSort(h, buf.String())
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestHandler_SortItineraries_ValidationError(t *testing.T) {
	validator := new(MockValidator)
	sorter := new(MockSorter)
	h := NewItineraryHandler(validator, sorter)

	vErr := &itinerary.ValidationError{Index: 0, Field: "id", Message: "is required"}
	validator.On("Validate", "best", mock.Anything).Return(nil, vErr).Once()

	rr := doSort(h, `{"sorting_type": "best", "itineraries": [{"id": "", "duration_minutes": 1, "price": {"amount": "1", "currency": "USD"}}]}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "itineraries[0].id: is required", decodeError(t, rr))
	sorter.AssertNotCalled(t, "Sort", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_SortItineraries_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "unknown strategy",
			err:      fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, "slowest"),
			wantCode: http.StatusBadRequest,
			wantMsg:  `unknown sorting type: "slowest"`,
		},
		{
			name:     "rate unavailable",
			err:      fmt.Errorf("itinerary %q: %w", "a", domain.ErrRateUnavailable),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  `itinerary "a": currency rate is not available`,
		},
		{
			name:     "rate fetch failed",
			err:      fmt.Errorf("%w for base USD: %w", domain.ErrRateFetchFailed, errors.New("dial tcp")),
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "currency rates are temporarily unavailable",
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "request timed out",
		},
		{
			name:     "unexpected",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "ups, couldn't sort itineraries this time",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			validator := new(MockValidator)
			sorter := new(MockSorter)
			h := NewItineraryHandler(validator, sorter)

			items := []domain.Itinerary{{ID: "a", DurationMinutes: 1, Price: usd("1")}}
			validator.On("Validate", "best", mock.Anything).Return(items, nil).Once()
			sorter.On("Sort", mock.Anything, "best", items).Return(itinerary.SortResult{}, tc.err).Once()

			rr := doSort(h, `{"sorting_type": "best", "itineraries": [{"id": "a", "duration_minutes": 1, "price": {"amount": "1", "currency": "USD"}}]}`)

			require.Equal(t, tc.wantCode, rr.Code)
			require.Equal(t, tc.wantMsg, decodeError(t, rr))
		})
	}
}

// fixedRates serves one snapshot for every base.
type fixedRates struct{ snap domain.ExchangeRateSnapshot }

func (f fixedRates) GetRates(context.Context, string) (domain.ExchangeRateSnapshot, error) {
	return f.snap, nil
}

func TestHandler_SortItineraries_WithRealService(t *testing.T) {
	snap := domain.NewSnapshot("USD", map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.8"),
		"CZK": decimal.RequireFromString("25"),
	}, time.Now())
	svc := itinerary.NewService(itinerary.DefaultRegistry(), fixedRates{snap: snap}, "USD")
	h := NewItineraryHandler(itinerary.NewValidator(100), svc)

	body := `{
		"sorting_type": "cheapest",
		"itineraries": [
			{"id": "eur", "duration_minutes": 100, "price": {"amount": "100", "currency": "EUR"}},
			{"id": "usd", "duration_minutes": 200, "price": {"amount": "120", "currency": "USD"}},
			{"id": "czk", "duration_minutes": 300, "price": {"amount": "2500", "currency": "czk"}}
		]
	}`
	rr := doSort(h, body)
	require.Equal(t, http.StatusOK, rr.Code)

	var res SortItinerariesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	got := make([]string, 0, len(res.SortedItineraries))
	for _, it := range res.SortedItineraries {
		got = append(got, it.ID)
	}
	require.Equal(t, []string{"czk", "usd", "eur"}, got)
	require.Equal(t, "CZK", res.SortedItineraries[0].Price.Currency)

	rr = doSort(h, `{"sorting_type": "cheapest", "itineraries": [{"id": "x", "duration_minutes": 1, "price": {"amount": "1", "currency": "JPY"}}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = doSort(h, `{"sorting_type": "unknown", "itineraries": []}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_SortItineraries_MissingValuesRejected(t *testing.T) {
	svc := itinerary.NewService(itinerary.DefaultRegistry(), fixedRates{snap: domain.NewSnapshot("USD", map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.8"),
	}, time.Now())}, "USD")
	h := NewItineraryHandler(itinerary.NewValidator(100), svc)

	cases := []struct {
		name    string
		item    string
		wantMsg string
	}{
		{name: "amount absent", item: `{"id": "b", "duration_minutes": 10, "price": {"currency": "USD"}}`, wantMsg: "itineraries[1].price.amount: is required"},
		{name: "amount null", item: `{"id": "b", "duration_minutes": 10, "price": {"amount": null, "currency": "USD"}}`, wantMsg: "itineraries[1].price.amount: is required"},
		{name: "duration absent", item: `{"id": "b", "price": {"amount": "1", "currency": "USD"}}`, wantMsg: "itineraries[1].duration_minutes: is required"},
		{name: "duration null", item: `{"id": "b", "duration_minutes": null, "price": {"amount": "1", "currency": "USD"}}`, wantMsg: "itineraries[1].duration_minutes: is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := doSort(h, `{"sorting_type": "cheapest", "itineraries": [
				{"id": "a", "duration_minutes": 60, "price": {"amount": "5", "currency": "USD"}},
				`+tc.item+`
			]}`)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			require.Equal(t, tc.wantMsg, decodeError(t, rr))
		})
	}
}

func TestHandler_SortItineraries_ZeroValuesAccepted(t *testing.T) {
	svc := itinerary.NewService(itinerary.DefaultRegistry(), fixedRates{snap: domain.NewSnapshot("USD", map[string]decimal.Decimal{
		"EUR": decimal.RequireFromString("0.8"),
	}, time.Now())}, "USD")
	h := NewItineraryHandler(itinerary.NewValidator(100), svc)

	rr := doSort(h, `{"sorting_type": "cheapest", "itineraries": [
		{"id": "a", "duration_minutes": 60, "price": {"amount": "5", "currency": "USD"}},
		{"id": "free", "duration_minutes": 0, "price": {"amount": 0, "currency": "USD"}}
	]}`)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{
		"sorting_type": "cheapest",
		"sorted_itineraries": [
			{"id": "free", "duration_minutes": 0, "price": {"amount": "0", "currency": "USD"}},
			{"id": "a", "duration_minutes": 60, "price": {"amount": "5", "currency": "USD"}}
		]
	}`, rr.Body.String())
}
