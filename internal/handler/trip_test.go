package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-graph/backend/internal/domain"
)

func commonTripFixture() domain.CommonTrip {
	hour := 8
	return domain.CommonTrip{
		ID:             "ct1",
		StartPlace:     "p1",
		EndPlace:       "p2",
		Trips:          []domain.ObjectID{"t1", "t2"},
		StartLoc:       domain.NewPoint(-122.26, 37.87),
		EndLoc:         domain.NewPoint(-122.41, 37.77),
		CommonHour:     &hour,
		CommonDuration: 1200,
	}
}

// ---- GET /trips/{tripId}/common --------------------------------------------

func TestGetTripCommon_200(t *testing.T) {
	svc := &mockGraphServicer{tripToCommon: func(id domain.ObjectID) (domain.CommonTrip, error) {
		assert.Equal(t, domain.ObjectID("t2"), id)
		return commonTripFixture(), nil
	}}

	rec := serve(newHTTPHandler(svc), http.MethodGet, "/trips/t2/common", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.CommonTrip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, domain.ObjectID("ct1"), resp.ID)
	require.NotNil(t, resp.CommonHour)
	assert.Equal(t, 8, *resp.CommonHour)
	assert.Equal(t, 1200.0, resp.CommonDuration)
}

func TestGetTripCommon_ResponseUsesOIDWrappers(t *testing.T) {
	svc := &mockGraphServicer{tripToCommon: func(domain.ObjectID) (domain.CommonTrip, error) {
		return commonTripFixture(), nil
	}}

	rec := serve(newHTTPHandler(svc), http.MethodGet, "/trips/t1/common", nil)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, map[string]any{"$oid": "ct1"}, raw["_id"])
}

func TestGetTripCommon_404(t *testing.T) {
	svc := &mockGraphServicer{tripToCommon: func(domain.ObjectID) (domain.CommonTrip, error) {
		return domain.CommonTrip{}, domain.ErrNotFound
	}}

	rec := serve(newHTTPHandler(svc), http.MethodGet, "/trips/unknown/common", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "not_found", resp.Error.Code)
	assert.Equal(t, "common trip not found", resp.Error.Message)
}

// ---- GET /common-trips?start=&end= -----------------------------------------

func TestFindCommonTrip_200(t *testing.T) {
	svc := &mockGraphServicer{commonTripForStartEnd: func(start, end domain.ObjectID) (domain.CommonTrip, error) {
		assert.Equal(t, domain.ObjectID("p1"), start)
		assert.Equal(t, domain.ObjectID("p2"), end)
		return commonTripFixture(), nil
	}}

	rec := serve(newHTTPHandler(svc), http.MethodGet, "/common-trips?start=p1&end=p2", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.CommonTrip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, domain.ObjectID("ct1"), resp.ID)
}

func TestFindCommonTrip_404(t *testing.T) {
	svc := &mockGraphServicer{commonTripForStartEnd: func(_, _ domain.ObjectID) (domain.CommonTrip, error) {
		return domain.CommonTrip{}, fmt.Errorf("graph.CommonTripForStartEnd: %w", domain.ErrNotFound)
	}}

	rec := serve(newHTTPHandler(svc), http.MethodGet, "/common-trips?start=p1&end=p9", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no common trip between these places", decodeError(t, rec).Error.Message)
}

func TestFindCommonTrip_422_MissingParam(t *testing.T) {
	svc := &mockGraphServicer{commonTripForStartEnd: func(start, end domain.ObjectID) (domain.CommonTrip, error) {
		assert.Empty(t, end)
		return domain.CommonTrip{}, fmt.Errorf("%w: start and end are required", domain.ErrValidation)
	}}

	rec := serve(newHTTPHandler(svc), http.MethodGet, "/common-trips?start=p1", nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "start and end are required", decodeError(t, rec).Error.Message)
}

// ---- GET /common-trips/{id}/count ------------------------------------------

func TestGetCommonTripCount_200(t *testing.T) {
	svc := &mockGraphServicer{tripCount: func(id domain.ObjectID) (int, error) {
		assert.Equal(t, domain.ObjectID("ct1"), id)
		return 2, nil
	}}

	rec := serve(newHTTPHandler(svc), http.MethodGet, "/common-trips/ct1/count", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())
}

func TestGetCommonTripCount_404(t *testing.T) {
	svc := &mockGraphServicer{tripCount: func(domain.ObjectID) (int, error) {
		return 0, domain.ErrNotFound
	}}

	rec := serve(newHTTPHandler(svc), http.MethodGet, "/common-trips/nope/count", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
