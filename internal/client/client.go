// Package client talks to the donation-share API and to presigned storage URLs.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alcyxob/donation-share/internal/domain"

	"github.com/go-resty/resty/v2"
)

var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// HTTPStatus exposes the response status to callers that only know the interface.
func (e *StatusError) HTTPStatus() int { return e.StatusCode }

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type errorResp struct {
	Error string `json:"error"`
}

// Client is safe for concurrent use once the token is set.
type Client struct {
	api     *resty.Client
	storage *resty.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	api := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	// Presigned URLs carry their own authorization; never send the API token there.
	storage := resty.New().SetTimeout(timeout)
	return &Client{api: api, storage: storage}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) request(ctx context.Context, method, path string, callback func(req *resty.Request), out interface{}) error {
	req := c.api.R().SetContext(ctx)
	if c.token != "" {
		req.SetAuthToken(c.token)
	}
	if callback != nil {
		callback(req)
	}
	if out != nil {
		req.SetResult(out)
	}
	var e errorResp
	req.SetError(&e)

	res, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if res.IsError() {
		return &StatusError{StatusCode: res.StatusCode(), Message: e.Error}
	}
	return nil
}

func (c *Client) Register(ctx context.Context, name, email, password, phone string) (*domain.User, error) {
	var user domain.User
	err := c.request(ctx, http.MethodPost, "/auth/register", func(req *resty.Request) {
		req.SetBody(map[string]string{"name": name, "email": email, "password": password, "phone": phone})
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login returns a bearer token. It does not call SetToken.
func (c *Client) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	var resp struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	err := c.request(ctx, http.MethodPost, "/auth/login", func(req *resty.Request) {
		req.SetBody(map[string]string{"email": email, "password": password})
	}, &resp)
	if err != nil {
		return "", nil, err
	}
	return resp.Token, &resp.User, nil
}

func (c *Client) Me(ctx context.Context) (domain.CurrentUser, error) {
	var me domain.CurrentUser
	err := c.request(ctx, http.MethodGet, "/me", nil, &me)
	return me, err
}

func (c *Client) ListDonations(ctx context.Context) ([]domain.Donation, error) {
	var donations []domain.Donation
	if err := c.request(ctx, http.MethodGet, "/donations", nil, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (c *Client) GetDonation(ctx context.Context, id string) (*domain.Donation, error) {
	var donation domain.Donation
	err := c.request(ctx, http.MethodGet, "/donations/{id}", func(req *resty.Request) {
		req.SetPathParam("id", id)
	}, &donation)
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (c *Client) CreateDonation(ctx context.Context, draft domain.DonationDraft) (*domain.Donation, error) {
	var donation domain.Donation
	err := c.request(ctx, http.MethodPost, "/donations", func(req *resty.Request) {
		req.SetBody(draft)
	}, &donation)
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

func (c *Client) RequestUpload(ctx context.Context, upload domain.UploadRequest) (*domain.UploadDescriptor, error) {
	var desc domain.UploadDescriptor
	err := c.request(ctx, http.MethodPost, "/uploads", func(req *resty.Request) {
		req.SetBody(upload)
	}, &desc)
	if err != nil {
		return nil, err
	}
	if desc.PresignedURL == "" || desc.PublicURL == "" {
		return nil, errors.New("upload descriptor is incomplete")
	}
	return &desc, nil
}

func (c *Client) DeleteUpload(ctx context.Context, key string) error {
	return c.request(ctx, http.MethodDelete, "/uploads", func(req *resty.Request) {
		req.SetBody(map[string]string{"key": key})
	}, nil)
}

// PutObject sends body to a presigned URL. The signature covers the content
// type and length, so both must match what was requested.
func (c *Client) PutObject(ctx context.Context, presignedURL, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("read %d bytes, expected %d", len(data), size)
	}

	res, err := c.storage.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(bytes.NewReader(data)).
		Put(presignedURL)
	if err != nil {
		return err
	}
	if res.IsError() {
		return &StatusError{StatusCode: res.StatusCode(), Message: strings.TrimSpace(res.String())}
	}
	return nil
}
