package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/JonMunkholm/roster/internal/csvcodec"
	"github.com/JonMunkholm/roster/internal/logging"
)

// maxSubmissionSize caps a registration or attendance body. Attendance
// carries the captured image, so this is far above what a form needs.
const maxSubmissionSize = 8 << 20

// submission is a registration or attendance form, sent as JSON or as a
// URL-encoded / multipart form.
type submission struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// decodeSubmission reads the name, email and image fields from the body.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var sub submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			return submission{}, bodyError(err)
		}
		return sub, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxSubmissionSize); err != nil {
			return submission{}, bodyError(err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return submission{}, bodyError(err)
		}
	}

	return submission{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Image: r.PostFormValue("image"),
	}, nil
}

// readImport returns the CSV text of an import request: the "file" part of a
// multipart form, or the raw body otherwise. The content must sniff as text;
// a byte order mark is dropped and invalid UTF-8 replaced.
func readImport(w http.ResponseWriter, r *http.Request, maxSize int64) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	var (
		src      io.Reader = r.Body
		filename string
	)
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			return "", bodyError(err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", errNoFile
		}
		defer file.Close()
		src, filename = file, header.Filename
	}

	counter := csvcodec.NewCountingReader(src)
	data, err := io.ReadAll(counter)
	if err != nil {
		return "", bodyError(err)
	}
	if counter.BytesRead > maxSize {
		return "", errFileTooLarge
	}
	if filename == "" && len(data) == 0 {
		return "", errNoFile
	}

	if len(data) > 0 {
		detected := mimetype.Detect(data)
		if !isText(detected) {
			return "", fmt.Errorf("%w: detected %s", errNotText, detected.String())
		}
		logging.FromContext(r.Context()).Debug("import received",
			"filename", filename,
			"bytes", counter.BytesRead,
			"mime", detected.String(),
		)
	}

	text, err := io.ReadAll(csvcodec.Sanitize(bytes.NewReader(data)))
	if err != nil {
		return "", bodyError(err)
	}
	return string(text), nil
}

// isText reports whether m is text/plain or one of its descendants
// (text/csv, text/tab-separated-values, ...).
func isText(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// bodyError classifies a body read failure.
func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", errFileTooLarge, tooLarge.Limit)
	}
	// mime/multipart does not always wrap the reader error.
	if strings.Contains(err.Error(), "request body too large") {
		return fmt.Errorf("%w: %v", errFileTooLarge, err)
	}
	return fmt.Errorf("%w: %v", errInvalidBody, err)
}

// confirmed reports whether a destructive request carries confirm=true.
func confirmed(r *http.Request) bool {
	ok, err := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return err == nil && ok
}
