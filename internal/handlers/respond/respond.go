package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"restoapi/internal/models"
	serviceerrors "restoapi/internal/service"
	"restoapi/pkg/lib/logger/sl"

	"github.com/go-playground/validator/v10"
)

const StatusClientClosedRequest = 499

const (
	maxBodySize   = 1 << 20
	maxUploadSize = 5 << 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type clientIdKey struct{}

func WithClientId(ctx context.Context, clientId string) context.Context {
	return context.WithValue(ctx, clientIdKey{}, clientId)
}

// ClientId returns the id the client middleware put on the request.
func ClientId(r *http.Request) string {
	id, _ := r.Context().Value(clientIdKey{}).(string)
	return id
}

// Decode reads a JSON body into dst and validates it. Failures come back as
// *serviceerrors.ValidationError.
func Decode(r *http.Request, dst any) error {
	requestBody, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("cannot read request body: %w", err)
	}
	defer r.Body.Close()

	if len(requestBody) == 0 {
		return &serviceerrors.ValidationError{Missing: []string{"body"}}
	}
	if err := json.Unmarshal(requestBody, dst); err != nil {
		return &serviceerrors.ValidationError{Invalid: []string{"body"}}
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		verr := &serviceerrors.ValidationError{}
		for _, fe := range fieldErrs {
			if fe.Tag() == "required" {
				verr.Missing = append(verr.Missing, fe.Field())
			} else {
				verr.Invalid = append(verr.Invalid, fe.Field())
			}
		}
		return verr
	}
	return nil
}

// File reads one uploaded file from a multipart form.
func File(r *http.Request, field string) (models.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return models.Upload{}, &serviceerrors.ValidationError{Invalid: []string{field}}
	}

	f, header, err := r.FormFile(field)
	if err != nil {
		return models.Upload{}, &serviceerrors.ValidationError{Missing: []string{field}}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		return models.Upload{}, fmt.Errorf("cannot read %s: %w", field, err)
	}

	return models.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func JSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to respond user", sl.Err(err))
	}
}

type errorBody struct {
	Error    string   `json:"error"`
	Missing  []string `json:"missing,omitempty"`
	Invalid  []string `json:"invalid,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
}

// Error writes the status matching err. msg is used for unexpected failures.
func Error(w http.ResponseWriter, log *slog.Logger, err error, msg string) {
	var (
		validation *serviceerrors.ValidationError
		conflict   *serviceerrors.ConflictError
	)

	if errors.Is(err, serviceerrors.ErrContextCanceled) {
		log.Warn("Context canceled", sl.Err(err))
		http.Error(w, "Context canceled", StatusClientClosedRequest)
	} else if errors.Is(err, serviceerrors.ErrDeadlineExceeded) {
		log.Warn("Deadline exceeded", sl.Err(err))
		http.Error(w, "Deadline exceeded", http.StatusGatewayTimeout)
	} else if errors.As(err, &validation) {
		log.Debug("Validation failed", sl.Err(err))
		JSON(w, log, http.StatusBadRequest, errorBody{
			Error:   "validation failed",
			Missing: validation.Missing,
			Invalid: validation.Invalid,
		})
	} else if errors.Is(err, serviceerrors.ErrInvalidVoucher) {
		log.Debug("Invalid voucher", sl.Err(err))
		JSON(w, log, http.StatusBadRequest, errorBody{Error: serviceerrors.ErrInvalidVoucher.Error()})
	} else if errors.Is(err, serviceerrors.ErrUnauthenticated) {
		log.Info("Unauthenticated", sl.Err(err))
		JSON(w, log, http.StatusUnauthorized, errorBody{Error: "unauthenticated", Redirect: "/login"})
	} else if errors.Is(err, serviceerrors.ErrForbidden) {
		log.Warn("Forbidden", sl.Err(err))
		http.Error(w, "Forbidden", http.StatusForbidden)
	} else if errors.As(err, &conflict) {
		log.Info("Conflict", sl.Err(err))
		JSON(w, log, http.StatusConflict, errorBody{Error: conflict.Message})
	} else if errors.Is(err, serviceerrors.ErrNotFound) {
		log.Warn("Not found", sl.Err(err))
		http.Error(w, "Not found", http.StatusNotFound)
	} else if errors.Is(err, serviceerrors.ErrUnavailable) {
		log.Error("Backend unavailable", sl.Err(err))
		http.Error(w, serviceerrors.ErrUnavailable.Error(), http.StatusServiceUnavailable)
	} else {
		log.Error(msg, sl.Err(err))
		http.Error(w, msg, http.StatusInternalServerError)
	}
}
