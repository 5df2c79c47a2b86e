package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alcyxob/donation-share/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second)
}

func TestLoginAndAuthorizedRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if body["password"] != "secret123" {
				writeJSON(w, http.StatusUnauthorized, errorResp{Error: "authentication failed"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"token": "tok",
				"user":  map[string]string{"id": "u-1", "name": "Ada", "email": body["email"]},
			})
		case "/me":
			if r.Header.Get("Authorization") != "Bearer tok" {
				writeJSON(w, http.StatusUnauthorized, errorResp{Error: "missing token"})
				return
			}
			writeJSON(w, http.StatusOK, domain.CurrentUser{ID: "u-1", Name: "Ada", Email: "ada@example.com"})
		}
	})
	ctx := context.Background()

	_, _, err := c.Login(ctx, "ada@example.com", "wrong")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "authentication failed", statusErr.Message)

	_, err = c.Me(ctx)
	require.Error(t, err)

	token, user, err := c.Login(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "u-1", user.ID)

	c.SetToken(token)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)
}

func TestGetDonation_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/donations/d-1" {
			writeJSON(w, http.StatusOK, domain.Donation{ID: "d-1", Title: "Sofa"})
			return
		}
		writeJSON(w, http.StatusNotFound, errorResp{Error: "Donation not found"})
	})

	d, err := c.GetDonation(context.Background(), "d-1")
	require.NoError(t, err)
	assert.Equal(t, "Sofa", d.Title)

	_, err = c.GetDonation(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateDonationAndList(t *testing.T) {
	var got domain.DonationDraft
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			writeJSON(w, http.StatusCreated, domain.Donation{ID: "d-9", Title: got.Title, ImageURLs: got.ImageURLs})
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []domain.Donation{{ID: "d-9"}, {ID: "d-8"}})
		}
	})

	d, err := c.CreateDonation(context.Background(), domain.DonationDraft{
		Title:     "Sofa",
		ImageURLs: []string{"https://cdn.test/a.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "d-9", d.ID)
	assert.Equal(t, []string{"https://cdn.test/a.jpg"}, got.ImageURLs)

	list, err := c.ListDonations(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUploadRoundTrip(t *testing.T) {
	var (
		putAuth, putType, putBody string
		putLength                 int64
		deletedKey                string
	)
	var storageURL string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/uploads" && r.Method == http.MethodPost:
			var req domain.UploadRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(w, http.StatusOK, domain.UploadDescriptor{
				PresignedURL: storageURL + "/bucket/" + req.Filename + "?X-Amz-Signature=abc",
				Key:          "donations/u-1/" + req.Filename,
				PublicURL:    "https://cdn.test/" + req.Filename,
			})
		case r.URL.Path == "/uploads" && r.Method == http.MethodDelete:
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			deletedKey = body["key"]
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		}
	})
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		putAuth, putType, putBody, putLength = r.Header.Get("Authorization"), r.Header.Get("Content-Type"), string(b), r.ContentLength
		if strings.Contains(r.URL.Path, "denied") {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("SignatureDoesNotMatch"))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(storage.Close)
	storageURL = storage.URL
	c.SetToken("tok")
	ctx := context.Background()

	desc, err := c.RequestUpload(ctx, domain.UploadRequest{Filename: "a.jpg", ContentType: "image/jpeg", Size: 5})
	require.NoError(t, err)
	assert.Equal(t, "donations/u-1/a.jpg", desc.Key)

	require.NoError(t, c.PutObject(ctx, desc.PresignedURL, "image/jpeg", strings.NewReader("hello"), 5))
	assert.Empty(t, putAuth)
	assert.Equal(t, "image/jpeg", putType)
	assert.Equal(t, "hello", putBody)
	assert.EqualValues(t, 5, putLength)

	err = c.PutObject(ctx, storage.URL+"/bucket/denied.jpg", "image/jpeg", strings.NewReader("hello"), 5)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusForbidden, statusErr.HTTPStatus())

	require.NoError(t, c.DeleteUpload(ctx, desc.Key))
	assert.Equal(t, desc.Key, deletedKey)
}
