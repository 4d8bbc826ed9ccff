// Package httpx provides HTTP middleware and response helpers shared by the
// JSON API.
package httpx

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	apperrors "github.com/therili1/buckshot-roulette-bot/internal/platform/errors"
	"github.com/therili1/buckshot-roulette-bot/internal/platform/i18n/catalog"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// RequestID reuses the caller's request id or mints one, and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(RequestIDHeader, requestID)
		}
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

// RecoverPanic converts panics into HTTP 500 responses.
func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Printf(
					"panic recovered method=%s path=%s request_id=%s panic=%v stack=%s",
					r.Method,
					r.URL.Path,
					r.Header.Get(RequestIDHeader),
					recovered,
					strings.TrimSpace(string(debug.Stack())),
				)
				_ = WriteJSONError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Logger logs every request with its status and duration through logf.
func Logger(logf func(format string, args ...any)) func(http.Handler) http.Handler {
	if logf == nil {
		logf = log.Printf
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logf("http %s %s status=%d request=%s duration=%s",
				r.Method, r.URL.Path, sw.status, r.Header.Get(RequestIDHeader), time.Since(start))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Hijack lets websocket upgrades take over the connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// WriteJSON writes a JSON response with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return fmt.Errorf("response writer is required")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteJSONError writes {"error": message} with statusCode.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]any{"error": message})
}

// ErrorBody is the JSON shape of a failed request.
type ErrorBody struct {
	Error    string            `json:"error"`
	Code     string            `json:"code"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// WriteError maps err to its HTTP status and writes a localized message.
func WriteError(w http.ResponseWriter, err error, locale string) {
	if w == nil || err == nil {
		return
	}
	code := apperrors.GetCode(err)
	body := ErrorBody{Error: apperrors.UserMessage(err, locale), Code: string(code)}
	var domainErr *apperrors.Error
	if errors.As(err, &domainErr) {
		body.Metadata = domainErr.Metadata
	}
	_ = WriteJSON(w, code.HTTPStatus(), body)
}

// DecodeJSON decodes a bounded JSON body into v, rejecting unknown fields.
// An empty body leaves v untouched.
func DecodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err)
	}
	return nil
}

// Locale picks the response locale: the "locale" query parameter, then the
// best Accept-Language match among the loaded catalogs.
func Locale(r *http.Request) string {
	bundle := catalog.Default()
	if requested := strings.TrimSpace(r.URL.Query().Get("locale")); requested != "" {
		return bundle.Resolve(requested)
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return catalog.BaseLocale
	}
	supported := make([]language.Tag, 0, len(bundle.Locales()))
	for _, locale := range bundle.Locales() {
		supported = append(supported, language.MustParse(locale))
	}
	_, index, confidence := language.NewMatcher(supported).Match(tags...)
	if confidence == language.No {
		return catalog.BaseLocale
	}
	return bundle.Locales()[index]
}
