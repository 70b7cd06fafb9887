// Package api is the typed client for the remote job-portal REST API.
// Server marker strings are decoded here and nowhere else.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jobportal-workers/internal/common/config"
	"jobportal-workers/internal/common/errors"
	commonhttp "jobportal-workers/internal/common/http"
	"jobportal-workers/internal/common/logger"
	"jobportal-workers/internal/models"
	"jobportal-workers/internal/session"
)

const (
	pathProfileEdit     = "/api/employee/profile/edit"
	pathDashboard       = "/api/employee/dashboard"
	pathCompleteProfile = "/api/employee/profile/complete"
	pathApplyJob        = "/api/jobs/apply"
	pathSaveJob         = "/api/jobs/save"
	pathUploadDocument  = "/api/employee/documents"
	pathCountries       = "/api/master/countries"
	pathOccupations     = "/api/master/occupations"
	pathSkills          = "/api/master/skills"
	pathStates          = "/api/master/states"
	pathDistricts       = "/api/master/districts"
)

type Client struct {
	http      *commonhttp.Client
	lookups   session.KeyValueStore
	lookupTTL time.Duration
	logger    logger.Logger

	successMarker      string
	incompleteSentinel string
}

type Options struct {
	API     config.APIConfig
	Session *session.Session
	// Lookups caches list endpoints. Nil disables caching.
	Lookups   session.KeyValueStore
	LookupTTL time.Duration
	Logger    logger.Logger
}

func NewClient(opts Options) *Client {
	log := logger.Named(opts.Logger, "api")

	httpOpts := commonhttp.Options{
		BaseURL: opts.API.BaseURL,
		Timeout: config.GetDuration(opts.API.Timeout),
		Retry: commonhttp.RetryPolicy{
			ReadAttempts: opts.API.ReadRetries,
			BaseDelay:    config.GetDuration(opts.API.BackoffBase),
			MaxDelay:     config.GetDuration(opts.API.BackoffMax),
		},
		Logger: log,
	}
	if opts.Session != nil {
		sess := opts.Session
		httpOpts.Tokens = sess
		httpOpts.OnUnauthorized = func(ctx context.Context) {
			_ = sess.Clear(ctx)
		}
	}

	marker := opts.API.SuccessMarker
	if marker == "" {
		marker = config.DefaultSuccessMarker
	}
	sentinel := opts.API.IncompleteSentinel
	if sentinel == "" {
		sentinel = config.DefaultIncompleteSentinel
	}

	return &Client{
		http:               commonhttp.NewClient(httpOpts),
		lookups:            opts.Lookups,
		lookupTTL:          opts.LookupTTL,
		logger:             log,
		successMarker:      strings.ToLower(marker),
		incompleteSentinel: strings.ToLower(sentinel),
	}
}

// ==========================
// Profile
// ==========================

// FetchProfileForEdit returns the raw edit payload for the normalizer.
func (c *Client) FetchProfileForEdit(ctx context.Context) ([]byte, error) {
	resp, err := c.http.Get(ctx, pathProfileEdit, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// FetchDashboard returns the raw dashboard summary for the normalizer.
func (c *Client) FetchDashboard(ctx context.Context) ([]byte, error) {
	resp, err := c.http.Get(ctx, pathDashboard, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// CompleteProfile posts payload as multipart. Attachments go as file parts,
// every other key as a text field.
func (c *Client) CompleteProfile(ctx context.Context, payload *models.SubmissionPayload) error {
	form := commonhttp.NewMultipartForm()
	files := payload.Files()
	for _, key := range payload.Keys() {
		if f, ok := files[key]; ok {
			form.AddFile(commonhttp.FilePart{
				Field:       key,
				FileName:    f.FileName,
				ContentType: f.ContentType,
				Data:        f.Data,
			})
			continue
		}
		v, _ := payload.Value(key)
		form.AddField(key, v)
	}

	resp, err := c.http.PostMultipart(ctx, pathCompleteProfile, form)
	if err != nil {
		return err
	}
	return checkStatusFlag(resp)
}

// UploadDocument sends a single document outside the wizard.
func (c *Client) UploadDocument(ctx context.Context, docType string, doc models.Attachment) error {
	if doc.Size() == 0 {
		return errors.NewFieldValidationError(0, map[string]string{"document": "file is empty"})
	}
	form := commonhttp.NewMultipartForm()
	form.AddField("documentType", docType)
	form.AddFile(commonhttp.FilePart{
		Field:       "document",
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Data:        doc.Data,
	})
	resp, err := c.http.PostMultipart(ctx, pathUploadDocument, form)
	if err != nil {
		return err
	}
	return checkStatusFlag(resp)
}

// ==========================
// Jobs
// ==========================

// ApplyJob submits an application. It returns the server's confirmation on
// success and *errors.ProfileIncompleteError when the server reports missing
// mandatory profile fields.
func (c *Client) ApplyJob(ctx context.Context, jobID string) (string, error) {
	resp, err := c.http.PostJSON(ctx, pathApplyJob, map[string]string{"jobId": jobID})
	if err != nil {
		if stdErr, ok := errors.AsStandard(err); ok &&
			stdErr.Code == errors.ErrCodeServerValidationFailed && c.isIncomplete(stdErr.Message) {
			return "", &errors.ProfileIncompleteError{JobID: jobID, Message: stdErr.Message}
		}
		return "", err
	}

	msg := resp.Message()
	switch {
	case c.isIncomplete(msg):
		return "", &errors.ProfileIncompleteError{JobID: jobID, Message: msg}
	case strings.Contains(strings.ToLower(msg), c.successMarker):
		return msg, nil
	default:
		c.logger.Warn("apply response without success marker", map[string]interface{}{
			"jobId":   jobID,
			"status":  resp.StatusCode,
			"message": msg,
		})
		return "", errors.NewServerValidationError(resp.StatusCode, msg)
	}
}

func (c *Client) SaveJob(ctx context.Context, jobID string) error {
	resp, err := c.http.PostJSON(ctx, pathSaveJob, map[string]string{"jobId": jobID})
	if err != nil {
		return err
	}
	return checkStatusFlag(resp)
}

func (c *Client) isIncomplete(msg string) bool {
	return msg != "" && strings.Contains(strings.ToLower(msg), c.incompleteSentinel)
}

// checkStatusFlag turns a 2xx body of {"status": false, ...} into a server
// validation error.
func checkStatusFlag(resp *commonhttp.Response) error {
	var body struct {
		Status  *bool `json:"status"`
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil
	}
	if (body.Status != nil && !*body.Status) || (body.Success != nil && !*body.Success) {
		return errors.NewServerValidationError(resp.StatusCode, resp.Message())
	}
	return nil
}

// ==========================
// Lookup lists
// ==========================

func (c *Client) ListCountries(ctx context.Context) ([]models.Option, error) {
	return c.listOptions(ctx, "countries", pathCountries, nil)
}

func (c *Client) ListOccupations(ctx context.Context) ([]models.Option, error) {
	return c.listOptions(ctx, "occupations", pathOccupations, nil)
}

func (c *Client) ListSkills(ctx context.Context) ([]models.Option, error) {
	return c.listOptions(ctx, "skills", pathSkills, nil)
}

func (c *Client) ListStates(ctx context.Context) ([]models.Option, error) {
	return c.listOptions(ctx, "states", pathStates, nil)
}

func (c *Client) ListDistricts(ctx context.Context, stateID string) ([]models.Option, error) {
	if strings.TrimSpace(stateID) == "" {
		return nil, errors.NewFieldValidationError(3, map[string]string{models.FieldState: "select a state first"})
	}
	return c.listOptions(ctx, "districts:"+stateID, pathDistricts, url.Values{"stateId": {stateID}})
}

func (c *Client) listOptions(ctx context.Context, name, path string, query url.Values) ([]models.Option, error) {
	key := "jobportal:lookup:" + name

	if opts, ok := c.cachedOptions(ctx, key, name); ok {
		return opts, nil
	}

	resp, err := c.http.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	opts, err := DecodeOptions(resp.Body)
	if err != nil {
		return nil, errors.NewUnexpectedResponseError(resp.StatusCode, fmt.Sprintf("%s: %v", name, err))
	}

	if c.lookups != nil {
		if data, err := json.Marshal(opts); err == nil {
			if err := c.lookups.Set(ctx, key, string(data), c.lookupTTL); err != nil {
				c.logger.Warn("lookup cache write failed", map[string]interface{}{"list": name, "error": err})
			}
		}
	}
	return opts, nil
}
