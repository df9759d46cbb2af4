package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalendarStatus_Access(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "user-1")

	w := env.do(http.MethodGet, "/user/user-1/calendar-status", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/user/user-1/calendar-status", otherToken, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/user/user-1/calendar-status", userToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"connected":false,"email":""}`, w.Body.String())

	w = env.do(http.MethodGet, "/user/user-1/calendar-status", adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/user/ghost/calendar-status", adminToken, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"error":"user not found"}`, w.Body.String())
}

func TestCalendar_ConnectDisconnect(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "user-1")

	w := env.do(http.MethodPost, "/user/user-1/connect-calendar", userToken, `{"email":"cal@example.com"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/user/user-1/connect-calendar", userToken, `{"accessToken":"ya29.x","email":"cal@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/user/user-1/calendar-status", userToken, "")
	require.JSONEq(t, `{"connected":true,"email":"cal@example.com"}`, w.Body.String())
	require.NotContains(t, w.Body.String(), "ya29")

	for i := 0; i < 2; i++ {
		w = env.do(http.MethodPost, "/user/user-1/disconnect-calendar", userToken, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"success":true}`, w.Body.String())
	}
	w = env.do(http.MethodGet, "/user/user-1/calendar-status", userToken, "")
	require.JSONEq(t, `{"connected":false,"email":""}`, w.Body.String())

	w = env.do(http.MethodPost, "/user/user-1/disconnect-calendar", otherToken, "")
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/user/ghost/connect-calendar", adminToken, `{"accessToken":"t"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}
