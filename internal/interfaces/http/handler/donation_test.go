package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	donationapp "github.com/givebridge/backend/internal/application/donation"
	"github.com/givebridge/backend/internal/domain/donation"
	"github.com/givebridge/backend/internal/domain/shared"
	"github.com/givebridge/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDonationRouter(repo *MockDonationRepository) *gin.Engine {
	h := NewDonationHandler(donationapp.NewService(repo))

	r := gin.New()
	r.POST("/donations", h.Create)
	r.GET("/donations", h.List)
	r.GET("/donations/:id", h.GetByID)
	r.POST("/donations/:id/confirm-payment", h.ConfirmPayment)
	r.POST("/donations/:id/transition", h.Transition)
	r.POST("/donations/:id/cancel", h.Cancel)
	return r
}

func newTestDonation(t *testing.T) *donation.Donation {
	t.Helper()
	d, err := donation.NewDonation(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(50000), "winter coat")
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func TestDonationHandler_Create(t *testing.T) {
	repo := new(MockDonationRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	router := newDonationRouter(repo)

	body, _ := json.Marshal(gin.H{
		"donor_id":            uuid.New().String(),
		"organization_id":     uuid.New().String(),
		"beneficiary_item_id": uuid.New().String(),
		"amount":              "50000",
		"message":             "winter coat",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "PENDING", data["status"])
	assert.NotEmpty(t, data["payment_code"])
	repo.AssertExpectations(t)
}

func TestDonationHandler_Create_MissingFields(t *testing.T) {
	repo := new(MockDonationRepository)
	router := newDonationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations", bytes.NewBufferString(`{"message":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestDonationHandler_GetByID(t *testing.T) {
	repo := new(MockDonationRepository)
	d := newTestDonation(t)
	repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	router := newDonationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/donations/"+d.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, d.ID.String(), data["id"])
}

func TestDonationHandler_GetByID_NotFound(t *testing.T) {
	repo := new(MockDonationRepository)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("Donation not found"))
	router := newDonationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/donations/"+id.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, shared.CodeNotFound, resp.Error.Code)
}

func TestDonationHandler_GetByID_InvalidUUID(t *testing.T) {
	repo := new(MockDonationRepository)
	router := newDonationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/donations/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDonationHandler_List_FiltersByStatus(t *testing.T) {
	repo := new(MockDonationRepository)
	d := newTestDonation(t)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "PENDING"
	})).Return(shared.NewPaginated([]*donation.Donation{d}, 1, 1, 20), nil)
	router := newDonationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/donations?status=PENDING", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestDonationHandler_List_RejectsUnknownStatus(t *testing.T) {
	repo := new(MockDonationRepository)
	router := newDonationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/donations?status=BOGUS", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestDonationHandler_ConfirmPayment(t *testing.T) {
	repo := new(MockDonationRepository)
	d := newTestDonation(t)
	repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	repo.On("ConfirmPayment", mock.Anything, d).Return(nil)
	router := newDonationRouter(repo)

	body := bytes.NewBufferString(`{"payment_reference":"TXN-1001"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations/"+d.ID.String()+"/confirm-payment", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "PAYMENT_CONFIRMED", data["status"])
}

func TestDonationHandler_Transition_InvalidTarget(t *testing.T) {
	repo := new(MockDonationRepository)
	d := newTestDonation(t)
	router := newDonationRouter(repo)

	body := bytes.NewBufferString(`{"status":"TELEPORTED"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations/"+d.ID.String()+"/transition", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestDonationHandler_Cancel_ConfirmedDonation(t *testing.T) {
	repo := new(MockDonationRepository)
	d := newTestDonation(t)
	require.NoError(t, d.ConfirmPayment("TXN-1"))
	d.ClearDomainEvents()
	repo.On("FindByID", mock.Anything, d.ID).Return(d, nil)
	router := newDonationRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/donations/"+d.ID.String()+"/cancel", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}
