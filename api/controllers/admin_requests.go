package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/memberhub/backend/api/middleware"
	"github.com/memberhub/backend/api/responses"
	"github.com/memberhub/backend/api/validators"
	"github.com/memberhub/backend/internal/requests"
	"github.com/memberhub/backend/internal/review"
	"github.com/memberhub/backend/pkg/enums"
	pkgerrors "github.com/memberhub/backend/pkg/errors"
	"github.com/memberhub/backend/pkg/logger"
)

// SubmitAdminRequest accepts a new admin access request. The endpoint is
// public; user_id is optional at submission time.
func SubmitAdminRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin request service unavailable"))
			return
		}

		var payload requests.SubmitAdminRequestInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Submit(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ListAdminRequests returns paginated admin requests for reviewers.
func ListAdminRequests(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin request service unavailable"))
			return
		}

		params := requests.ListParams{
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}

		resp, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// GetAdminRequest returns a single admin request by id.
func GetAdminRequest(svc requests.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin request service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		resp, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

type reviewRequestPayload struct {
	Decision string `json:"decision" validate:"required"`
}

// ReviewAdminRequest applies an approve or reject decision and, on
// approval, provisions the requested roles. The reviewer identity comes
// from the authenticated token, never from the body.
func ReviewAdminRequest(svc review.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "review service unavailable"))
			return
		}

		requestID, err := uuid.Parse(chi.URLParam(r, "requestId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}

		reviewerRaw := middleware.UserIDFromContext(r.Context())
		if reviewerRaw == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "reviewer identity missing"))
			return
		}
		reviewerID, err := uuid.Parse(reviewerRaw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid reviewer identity"))
			return
		}

		var payload reviewRequestPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decision, err := enums.ParseReviewDecision(strings.TrimSpace(payload.Decision))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid decision"))
			return
		}

		outcome, err := svc.Review(r.Context(), review.ReviewInput{
			RequestID:  requestID,
			Decision:   decision,
			ReviewerID: reviewerID,
		})
		if err != nil {
			// A fatal provisioning failure still carries the partial
			// outcome; remediation needs to see which grants landed.
			if outcome != nil {
				if typed := pkgerrors.As(err); typed != nil {
					err = typed.WithDetails(map[string]any{"outcome": outcome})
				}
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}
