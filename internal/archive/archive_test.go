package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func TestLocalArchiver_PutGetDelete(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a, err := NewLocalArchiver(root)
	if err != nil {
		t.Fatalf("new archiver: %v", err)
	}
	a.now = func() time.Time { return time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	p, err := a.Put(ctx, "../../evil/bookings.xlsx", []byte("xlsx-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	wantDir := filepath.Join(root, "2025", "03")
	if filepath.Dir(p) != wantDir {
		t.Fatalf("archive dir mismatch: want=%s got=%s", wantDir, filepath.Dir(p))
	}
	if !strings.HasSuffix(p, "_bookings.xlsx") {
		t.Fatalf("archive name mismatch: %s", p)
	}

	data, err := a.Get(ctx, p)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "xlsx-bytes" {
		t.Fatalf("content mismatch: %q", data)
	}

	if err := a.Delete(ctx, p); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := a.Get(ctx, p); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: want ErrNotFound, got %v", err)
	}
	if err := a.Delete(ctx, p); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
}

func TestLocalArchiver_RejectsOutsidePaths(t *testing.T) {
	t.Parallel()

	a, err := NewLocalArchiver(t.TempDir())
	if err != nil {
		t.Fatalf("new archiver: %v", err)
	}
	if _, err := a.Get(context.Background(), "/etc/passwd"); err == nil {
		t.Fatalf("want error for path outside archive")
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Options{Backend: "ftp"}); err == nil {
		t.Fatalf("want error for unknown backend")
	}
	a, err := New(context.Background(), Options{LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	if _, ok := a.(*LocalArchiver); !ok {
		t.Fatalf("default backend should be local, got %T", a)
	}
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Archiver_PutGetDelete(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{objects: map[string][]byte{}}
	a := newS3Archiver(fake, S3Config{Bucket: "orbi", Prefix: "uploads/"})
	a.now = func() time.Time { return time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	loc, err := a.Put(ctx, "ledger.xlsx", []byte("payload"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(loc, "s3://orbi/uploads/2025/11/") || !strings.HasSuffix(loc, "_ledger.xlsx") {
		t.Fatalf("unexpected location: %s", loc)
	}

	data, err := a.Get(ctx, loc)
	if err != nil || string(data) != "payload" {
		t.Fatalf("get: data=%q err=%v", data, err)
	}

	if err := a.Delete(ctx, loc); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := a.Get(ctx, loc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: want ErrNotFound, got %v", err)
	}
	if _, err := a.Get(ctx, "/local/path.xlsx"); err == nil {
		t.Fatalf("want error for non-s3 location")
	}
}
