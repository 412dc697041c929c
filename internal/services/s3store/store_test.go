package s3store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

type fakeAPI struct {
	objects  map[string][]byte
	types    map[string]string
	metadata map[string]map[string]string
	headErr  error
	pageSize int
}

func (f *fakeAPI) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	key := aws.ToString(in.Key)
	if _, ok := f.objects[key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{Metadata: f.metadata[key]}, nil
}

// ListObjectsV2 pages through keys in sorted order, pageSize at a time.
func (f *fakeAPI) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	start := 0
	if token := aws.ToString(in.ContinuationToken); token != "" {
		start, _ = strconv.Atoi(token)
	}
	end := min(start+max(f.pageSize, 1), len(keys))
	out := &s3.ListObjectsV2Output{}
	for _, key := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(strconv.Itoa(end))
	}
	return out, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
		f.types = make(map[string]string)
		f.metadata = make(map[string]map[string]string)
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	f.metadata[aws.ToString(in.Key)] = in.Metadata
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func TestUploadAndChecksum(t *testing.T) {
	api := &fakeAPI{}
	store := NewWithClient(api, "dataset")
	ctx := context.Background()
	const key = "teasers/clip/segment_1.wav"

	if _, found, err := store.Checksum(ctx, key); err != nil || found {
		t.Fatalf("Checksum before upload = %v, %v", found, err)
	}

	path := filepath.Join(t.TempDir(), "segment_1.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Upload(ctx, key, path, "audio/wav", "abc123"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if string(api.objects[key]) != "RIFF" || api.types[key] != "audio/wav" {
		t.Fatalf("unexpected stored object %#v", api.objects)
	}
	sum, found, err := store.Checksum(ctx, key)
	if err != nil || !found || sum != "abc123" {
		t.Fatalf("Checksum after upload = %q, %v, %v", sum, found, err)
	}
	if err := store.CheckBucket(ctx); err != nil {
		t.Fatalf("CheckBucket: %v", err)
	}
	if store.Bucket() != "dataset" {
		t.Fatalf("bucket = %q", store.Bucket())
	}
}

func TestListPagesAndDelete(t *testing.T) {
	api := &fakeAPI{pageSize: 2, objects: map[string][]byte{
		"p/clip/a.wav": nil, "p/clip/b.wav": nil, "p/clip/c.wav": nil, "p/clip2/a.wav": nil,
	}}
	store := NewWithClient(api, "dataset")
	ctx := context.Background()

	keys, err := store.List(ctx, "p/clip/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"p/clip/a.wav", "p/clip/b.wav", "p/clip/c.wav"}; !slices.Equal(keys, want) {
		t.Fatalf("List = %v, want %v", keys, want)
	}
	if err := store.Delete(ctx, "p/clip/b.wav"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := api.objects["p/clip/b.wav"]; ok {
		t.Fatal("object should be deleted")
	}
}

func TestChecksumPropagatesOtherErrors(t *testing.T) {
	api := &fakeAPI{headErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}}
	store := NewWithClient(api, "dataset")
	if _, _, err := store.Checksum(context.Background(), "k"); err == nil {
		t.Fatal("expected access error to propagate")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{&types.NotFound{}, true},
		{&smithy.GenericAPIError{Code: "NoSuchKey"}, true},
		{&smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{errors.New("operation error S3: HeadObject, NotFound: Not Found"), true},
		{errors.New("timeout"), false},
	}
	for _, tc := range tests {
		if got := isNotFound(tc.err); got != tc.want {
			t.Fatalf("isNotFound(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestUploadMissingFile(t *testing.T) {
	store := NewWithClient(&fakeAPI{}, "dataset")
	if err := store.Upload(context.Background(), "k", filepath.Join(t.TempDir(), "nope"), "", ""); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}
