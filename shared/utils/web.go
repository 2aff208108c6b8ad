package utils

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/qmail-dev/qmail/shared/api"
	"github.com/qmail-dev/qmail/shared/errors"
	"github.com/qmail-dev/qmail/shared/logger"
)

const internalErrorDetail = "Internal Server Error"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so the detail matches what the client sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate runs struct tag validation and converts failures into a 422.
func Validate(body any) error {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Unprocessable(err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	sort.Strings(fields)
	return errors.Unprocessable("Invalid or missing fields: " + strings.Join(fields, ", "))
}

func DecodeValidate(r io.ReadCloser, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := Validate(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return err
	}
	return nil
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request body decode failed", "error", err)
		return errors.BadRequest("Body is invalid json")
	}
	return nil
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Error("failed to encode response", "error", err)
		writeDetail(w, http.StatusInternalServerError, internalErrorDetail)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// WriteErrorAndStatusCode renders err as {"detail": "..."}.
// Errors without a status are logged and hidden behind a generic 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *errors.ErrorWithStatusCode
	if stderrors.As(err, &e) {
		writeDetail(w, e.StatusCode, e.Message)
		return
	}
	logger.Log.Error("unhandled error", "error", err)
	writeDetail(w, http.StatusInternalServerError, internalErrorDetail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	data, _ := json.Marshal(api.ErrorResponse{Detail: detail})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// GetIP returns the peer address of the connection. X-Real-IP and
// X-Forwarded-For are client controlled and ignored.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) != nil {
		return ip, nil
	}
	return "", fmt.Errorf("no valid ip in remote address %q", r.RemoteAddr)
}
