package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sort"

	"github.com/vyrodovalexey/sprout/internal/params"
	"github.com/vyrodovalexey/sprout/internal/util"
)

// Body content types.
const (
	ContentTypeJSON           = "application/json"
	ContentTypeFormURLEncoded = "application/x-www-form-urlencoded"
	ContentTypeMultipartForm  = "multipart/form-data"
)

// DefaultMaxMemory is the multipart memory limit; larger parts spill to
// temporary files.
const DefaultMaxMemory = 32 << 20

// File describes an uploaded multipart file.
type File struct {
	Field       string `json:"field"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// decodeBody reads the request body into parameters. URL-encoded and
// multipart forms are read field by field; JSON bodies must be an object
// whose values are scalars or arrays of scalars. Other content types and
// empty bodies yield no data.
func decodeBody(r *http.Request, maxMemory int64) (params.Params, []File, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return params.New(), nil, nil
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return params.New(), nil, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: content type %q: %w", util.ErrInvalidInput, contentType, err)
	}

	switch mediaType {
	case ContentTypeFormURLEncoded:
		if err := r.ParseForm(); err != nil {
			return nil, nil, fmt.Errorf("%w: form body: %w", util.ErrInvalidInput, err)
		}
		return params.FromValues(r.PostForm), nil, nil

	case ContentTypeMultipartForm:
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, nil, fmt.Errorf("%w: multipart body: %w", util.ErrInvalidInput, err)
		}
		return params.FromValues(r.MultipartForm.Value), multipartFiles(r), nil

	case ContentTypeJSON:
		data, err := decodeJSON(r.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: json body: %w", util.ErrInvalidInput, err)
		}
		return data, nil, nil

	default:
		return params.New(), nil, nil
	}
}

func decodeJSON(body io.Reader) (params.Params, error) {
	var fields map[string]params.Value
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return params.New(), nil
		}
		return nil, err
	}

	out := params.New()
	for k, v := range fields {
		out.Set(k, v)
	}
	return out, nil
}

func multipartFiles(r *http.Request) []File {
	if r.MultipartForm == nil {
		return nil
	}

	var files []File
	for field, headers := range r.MultipartForm.File {
		for _, h := range headers {
			files = append(files, File{
				Field:       field,
				Filename:    h.Filename,
				Size:        h.Size,
				ContentType: h.Header.Get("Content-Type"),
			})
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Field < files[j].Field
	})
	return files
}
