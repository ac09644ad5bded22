package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicedesk/internal/config"
	"invoicedesk/internal/port"
	s3store "invoicedesk/internal/storage/s3"
)

// fakeBucket is a minimal path-style S3 endpoint keeping objects in memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(r.Header.Get("Content-Encoding"), "aws-chunked") {
			body = decodeChunked(body)
		}
		f.objects[r.URL.Path] = body
		w.Header().Set("ETag", `"etag-1"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		obj, ok := f.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<Error><Code>NoSuchKey</Code></Error>`))
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(obj)))
		w.Header().Set("Content-Range", "bytes 0-"+strconv.Itoa(len(obj)-1)+"/"+strconv.Itoa(len(obj)))
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write(obj)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// decodeChunked strips aws-chunked framing: "<hex size>[;ext]\r\n<data>\r\n" repeated.
func decodeChunked(body []byte) []byte {
	var out bytes.Buffer
	for len(body) > 0 {
		idx := bytes.Index(body, []byte("\r\n"))
		if idx < 0 {
			break
		}
		header := string(body[:idx])
		if semi := strings.Index(header, ";"); semi >= 0 {
			header = header[:semi]
		}
		size, err := strconv.ParseInt(header, 16, 64)
		if err != nil || size == 0 {
			break
		}
		body = body[idx+2:]
		out.Write(body[:size])
		body = body[size:]
		body = bytes.TrimPrefix(body, []byte("\r\n"))
	}
	return out.Bytes()
}

func newStore(t *testing.T, endpoint string) port.ObjectStorage {
	t.Helper()
	store, err := s3store.NewS3Client(&config.S3Config{
		Region:    "eu-west-1",
		Endpoint:  endpoint,
		AccessKey: "test",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	return store
}

func TestS3Client_RoundTrip(t *testing.T) {
	fake := &fakeBucket{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	store := newStore(t, srv.URL)
	ctx := context.Background()
	data := []byte("%PDF-1.4 invoice")

	out, err := store.Upload(ctx, port.UploadInput{
		Bucket:      "invoices",
		Key:         "documents/1/a.pdf",
		Body:        bytes.NewReader(data),
		ContentType: "application/pdf",
		Size:        int64(len(data)),
	})
	require.NoError(t, err)
	assert.Equal(t, `"etag-1"`, out.ETag)
	assert.Contains(t, fake.objects, "/invoices/documents/1/a.pdf")

	got, err := store.Download(ctx, "invoices", "documents/1/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, "invoices", "documents/1/a.pdf"))
	assert.Empty(t, fake.objects)
}

func TestS3Client_PresignedURL(t *testing.T) {
	store := newStore(t, "http://localhost:9000")

	url, err := store.PresignedURL(context.Background(), "invoices", "documents/1/a.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/invoices/documents/1/a.pdf?"))
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}
