package donor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(repo *stubRepo) (*Handler, *echo.Echo) {
	return NewHandler(newTestService(repo)), echo.New()
}

func TestRegisterEndpointCreatesDonor(t *testing.T) {
	repo := &stubRepo{}
	handler, e := newTestHandler(repo)

	body := `{"name":"A","phone":"1","city":"Pune","bloodGroup":"O+"}`
	req := httptest.NewRequest(http.MethodPost, "/api/donors", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created Donor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, StatusUnverified, created.VerificationStatus)
	assert.True(t, created.Availability)
}

func TestRegisterEndpointRejectsMissingFields(t *testing.T) {
	repo := &stubRepo{}
	handler, e := newTestHandler(repo)

	body := `{"name":"A","city":"Pune"}`
	req := httptest.NewRequest(http.MethodPost, "/api/donors", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.Register(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Missing required fields", resp["message"])
	assert.Empty(t, repo.inserted)
}

func TestSearchEndpointReadsQueryParams(t *testing.T) {
	repo := &stubRepo{searchResult: []*Donor{}}
	handler, e := newTestHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/donors?bloodGroup=O%2B&city=Pune&onlyVerified=true", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, handler.Search(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SearchFilter{BloodGroup: "O+", City: "Pune", OnlyVerified: true}, repo.lastFilter)
}

func TestVerifyEndpointWithBadIDIs404(t *testing.T) {
	handler, e := newTestHandler(&stubRepo{})

	req := httptest.NewRequest(http.MethodPatch, "/api/donors/not-an-id/verify", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-an-id")

	require.NoError(t, handler.Verify(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
