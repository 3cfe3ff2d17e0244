package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/domain"
	"github.com/pcpc0424-creator/b2b-mall-sub001/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponTestHandlers() (*CartHandler, *CouponHandler) {
	cat := testCatalog()
	sessions := session.NewService(newMemStore(), cat)
	return NewCartHandler(sessions, cat, 5*time.Second),
		NewCouponHandler(sessions, 5*time.Second)
}

func TestRedeem_Success(t *testing.T) {
	_, handler := newCouponTestHandlers()

	body, _ := json.Marshal(RedeemCouponRequestDTO{Code: "welcome10"})
	recorder := httptest.NewRecorder()
	handler.Redeem(recorder, memberRequest("POST", "/api/v1/coupons/redeem", body))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response WalletResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Coupons, 1)
	assert.Equal(t, "c-welcome", response.Coupons[0].ID)
	assert.Equal(t, domain.CouponAvailable, response.Coupons[0].Status)
	assert.Empty(t, response.AppliedID)
}

func TestRedeem_UnknownCode(t *testing.T) {
	_, handler := newCouponTestHandlers()

	body, _ := json.Marshal(RedeemCouponRequestDTO{Code: "NOPE"})
	recorder := httptest.NewRecorder()
	handler.Redeem(recorder, memberRequest("POST", "/api/v1/coupons/redeem", body))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRedeem_Duplicate(t *testing.T) {
	_, handler := newCouponTestHandlers()

	body, _ := json.Marshal(RedeemCouponRequestDTO{Code: "WELCOME10"})
	recorder := httptest.NewRecorder()
	handler.Redeem(recorder, memberRequest("POST", "/api/v1/coupons/redeem", body))
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.Redeem(recorder, memberRequest("POST", "/api/v1/coupons/redeem", body))
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestApply_UnknownCoupon(t *testing.T) {
	_, handler := newCouponTestHandlers()

	body, _ := json.Marshal(ApplyCouponRequestDTO{CouponID: "no-such"})
	recorder := httptest.NewRecorder()
	handler.Apply(recorder, memberRequest("POST", "/api/v1/coupons/apply", body))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestApply_AffectsCartTotals(t *testing.T) {
	cartHandler, couponHandler := newCouponTestHandlers()

	// Stage two chairs at the member price: 160,000.
	body, _ := json.Marshal(AddItemRequestDTO{ProductID: "P-100", Quantity: 2})
	recorder := httptest.NewRecorder()
	cartHandler.AddItem(recorder, memberRequest("POST", "/api/v1/cart/items", body))
	require.Equal(t, http.StatusCreated, recorder.Code)

	body, _ = json.Marshal(RedeemCouponRequestDTO{Code: "WELCOME10"})
	recorder = httptest.NewRecorder()
	couponHandler.Redeem(recorder, memberRequest("POST", "/api/v1/coupons/redeem", body))
	require.Equal(t, http.StatusCreated, recorder.Code)

	body, _ = json.Marshal(ApplyCouponRequestDTO{CouponID: "c-welcome"})
	recorder = httptest.NewRecorder()
	couponHandler.Apply(recorder, memberRequest("POST", "/api/v1/coupons/apply", body))
	require.Equal(t, http.StatusOK, recorder.Code)

	var wallet WalletResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&wallet))
	assert.Equal(t, "c-welcome", wallet.AppliedID)

	// 10% of 160,000 is 16,000, capped at 10,000.
	recorder = httptest.NewRecorder()
	cartHandler.GetCart(recorder, memberRequest("GET", "/api/v1/cart/", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var cart CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&cart))
	assert.Equal(t, int64(160000), cart.Total)
	assert.Equal(t, int64(10000), cart.Discount)
	assert.Equal(t, int64(150000), cart.Payable)
}

func TestApply_ClearsWithEmptyID(t *testing.T) {
	_, handler := newCouponTestHandlers()

	body, _ := json.Marshal(RedeemCouponRequestDTO{Code: "WELCOME10"})
	recorder := httptest.NewRecorder()
	handler.Redeem(recorder, memberRequest("POST", "/api/v1/coupons/redeem", body))
	require.Equal(t, http.StatusCreated, recorder.Code)

	body, _ = json.Marshal(ApplyCouponRequestDTO{CouponID: "c-welcome"})
	recorder = httptest.NewRecorder()
	handler.Apply(recorder, memberRequest("POST", "/api/v1/coupons/apply", body))
	require.Equal(t, http.StatusOK, recorder.Code)

	body, _ = json.Marshal(ApplyCouponRequestDTO{CouponID: ""})
	recorder = httptest.NewRecorder()
	handler.Apply(recorder, memberRequest("POST", "/api/v1/coupons/apply", body))
	require.Equal(t, http.StatusOK, recorder.Code)

	var wallet WalletResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&wallet))
	assert.Empty(t, wallet.AppliedID)
}

func TestRemove_ClearsAppliedSlot(t *testing.T) {
	_, handler := newCouponTestHandlers()

	body, _ := json.Marshal(RedeemCouponRequestDTO{Code: "WELCOME10"})
	recorder := httptest.NewRecorder()
	handler.Redeem(recorder, memberRequest("POST", "/api/v1/coupons/redeem", body))
	require.Equal(t, http.StatusCreated, recorder.Code)

	body, _ = json.Marshal(ApplyCouponRequestDTO{CouponID: "c-welcome"})
	recorder = httptest.NewRecorder()
	handler.Apply(recorder, memberRequest("POST", "/api/v1/coupons/apply", body))
	require.Equal(t, http.StatusOK, recorder.Code)

	request := memberRequest("DELETE", "/api/v1/coupons/c-welcome", nil)
	request = withURLParam(request, "coupon_id", "c-welcome")
	recorder = httptest.NewRecorder()
	handler.Remove(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var wallet WalletResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&wallet))
	assert.Empty(t, wallet.Coupons)
	assert.Empty(t, wallet.AppliedID)
}

// TestMemberSessionScenario drives the full storefront flow through the
// router the way a browser session would: stage the cart, redeem and apply a
// welcome coupon, and read back the discounted totals.
func TestMemberSessionScenario(t *testing.T) {
	cat := testCatalog()
	sessions := session.NewService(newMemStore(), cat)

	router := NewRouter(
		NewCartHandler(sessions, cat, 5*time.Second),
		NewQuoteHandler(sessions, cat, 5*time.Second),
		NewCouponHandler(sessions, 5*time.Second),
		nil, // checkout routes not exercised here
		nil, // product routes not exercised here
		10*time.Second,
	)
	server := httptest.NewServer(router)
	defer server.Close()

	do := func(method, path string, payload interface{}) *http.Response {
		t.Helper()
		var body *bytes.Reader
		if payload != nil {
			raw, err := json.Marshal(payload)
			require.NoError(t, err)
			body = bytes.NewReader(raw)
		} else {
			body = bytes.NewReader(nil)
		}
		request, err := http.NewRequest(method, server.URL+path, body)
		require.NoError(t, err)
		request.Header.Set("X-User-ID", "123")
		request.Header.Set("X-Member-Tier", "member")
		response, err := http.DefaultClient.Do(request)
		require.NoError(t, err)
		return response
	}

	response := do("POST", "/api/v1/cart/items", AddItemRequestDTO{ProductID: "P-100", Quantity: 2})
	require.Equal(t, http.StatusCreated, response.StatusCode)
	response.Body.Close()

	response = do("POST", "/api/v1/coupons/redeem", RedeemCouponRequestDTO{Code: "WELCOME10"})
	require.Equal(t, http.StatusCreated, response.StatusCode)
	response.Body.Close()

	response = do("POST", "/api/v1/coupons/apply", ApplyCouponRequestDTO{CouponID: "c-welcome"})
	require.Equal(t, http.StatusOK, response.StatusCode)
	response.Body.Close()

	response = do("GET", "/api/v1/cart/", nil)
	require.Equal(t, http.StatusOK, response.StatusCode)
	defer response.Body.Close()

	var cart CartResponseDTO
	require.NoError(t, json.NewDecoder(response.Body).Decode(&cart))
	assert.Equal(t, int64(160000), cart.Total)
	assert.Equal(t, int64(10000), cart.Discount)
	assert.Equal(t, int64(150000), cart.Payable)
}
