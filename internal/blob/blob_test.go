package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/danieljhkim/smokeplan/internal/config"
)

func TestFSStore_PutAndList(t *testing.T) {
	root := filepath.Join(t.TempDir(), "archives")
	store, err := NewFSStore(root)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	ctx := context.Background()

	info, err := store.Put(ctx, "plans/2025-09-08/rev1.json.zst", strings.NewReader("archive"), "application/zstd")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if info.Size != int64(len("archive")) || info.Location != filepath.Join(root, "plans", "2025-09-08", "rev1.json.zst") {
		t.Errorf("Put() info = %+v", info)
	}

	if _, err := store.Put(ctx, "plans/2025-09-08/rev1.json.zst", strings.NewReader("again"), ""); !errors.Is(err, ErrExists) {
		t.Errorf("second Put() error = %v, want ErrExists", err)
	}
	if _, err := store.Put(ctx, "plans/2025-09-15/rev2.json.zst", strings.NewReader("b"), ""); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	list, err := store.List(ctx, "plans/2025-09-08/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Key != "plans/2025-09-08/rev1.json.zst" {
		t.Errorf("List() = %+v", list)
	}
	all, err := store.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Errorf("List(all) = %+v, %v", all, err)
	}
}

func TestFSStore_RejectsBadKeys(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	for _, key := range []string{"", "  ", "../escape", "/abs"} {
		if _, err := store.Put(context.Background(), key, strings.NewReader("x"), ""); err == nil {
			t.Errorf("Put(%q) expected error", key)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.BlobConfig{}, t.TempDir())
	if err != nil || s != nil {
		t.Errorf("Open(none) = %v, %v; want nil, nil", s, err)
	}

	s, err = Open(ctx, config.BlobConfig{Driver: config.BlobFS}, t.TempDir())
	if err != nil || s == nil || s.Driver() != "fs" {
		t.Errorf("Open(fs) = %v, %v", s, err)
	}

	if _, err := Open(ctx, config.BlobConfig{Driver: "ftp"}, ""); err == nil {
		t.Error("Open(ftp) expected error")
	}
}

// fakeS3 serves the subset of the S3 API the store uses.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]int
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	empty := func(code int, h http.Header) *http.Response {
		return &http.Response{StatusCode: code, Body: io.NopCloser(bytes.NewReader(nil)), Header: h}
	}

	switch {
	case req.Method == http.MethodGet && strings.Contains(req.URL.RawQuery, "list-type=2"):
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2025-09-01T00:00:00Z</LastModified></Contents>", k, f.objects[k])
		}
		b.WriteString("</ListBucketResult>")
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(b.String())), Header: http.Header{"Content-Type": {"application/xml"}}}, nil
	case req.Method == http.MethodHead:
		size, ok := f.objects[key]
		if !ok {
			return empty(404, http.Header{}), nil
		}
		return empty(200, http.Header{
			"Content-Length": {fmt.Sprintf("%d", size)},
			"Content-Type":   {"application/zstd"},
			"Last-Modified":  {time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC).Format(http.TimeFormat)},
		}), nil
	case req.Method == http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if _, ok := f.objects[key]; !ok {
			f.objects[key] = len(body)
		}
		return empty(200, http.Header{"ETag": {`"etag"`}}), nil
	}
	return empty(501, http.Header{}), nil
}

func newFakeS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	fake := &fakeS3{objects: map[string]int{}}
	store, err := NewS3Store(context.Background(), S3Config{
		Bucket:    "smokeplan",
		Region:    "eu-central-1",
		Endpoint:  "https://mock.s3.local",
		PathStyle: true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
	})
	if err != nil {
		t.Fatalf("NewS3Store() error = %v", err)
	}
	return store, fake
}

func TestS3Store_PutAndList(t *testing.T) {
	store, fake := newFakeS3Store(t)
	ctx := context.Background()

	info, err := store.Put(ctx, "plans/2025-09-08/rev1.json.zst", bytes.NewReader([]byte("archive")), "application/zstd")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if info.Location != "s3://smokeplan/plans/2025-09-08/rev1.json.zst" {
		t.Errorf("Location = %q", info.Location)
	}
	if _, ok := fake.objects["plans/2025-09-08/rev1.json.zst"]; !ok {
		t.Errorf("object not stored: %v", fake.objects)
	}

	if _, err := store.Put(ctx, "plans/2025-09-08/rev1.json.zst", bytes.NewReader([]byte("x")), ""); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate Put() error = %v, want ErrExists", err)
	}

	list, err := store.List(ctx, "plans/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Key != "plans/2025-09-08/rev1.json.zst" {
		t.Errorf("List() = %+v", list)
	}
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{}); err == nil {
		t.Error("expected error for missing bucket")
	}
}
