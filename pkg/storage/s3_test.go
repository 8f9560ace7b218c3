package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/emailkit/pkg/storage"
)

// fakeS3 is an in-memory bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: make(map[string][]byte)} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(v))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range in.Delete.Objects {
		delete(f.objects, aws.ToString(o.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) HeadBucket(context.Context, *s3.HeadBucketInput, ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, nil
}

func TestS3Adapter(t *testing.T) {
	t.Parallel()
	runAdapterContract(t, func(t *testing.T) storage.Adapter {
		a, err := storage.NewS3Adapter(context.Background(),
			storage.S3Config{Bucket: "bucket", Region: "us-east-1"},
			"emailkit",
			storage.WithS3Client(newFakeS3()),
		)
		require.NoError(t, err)
		return a
	})
}

func TestS3Adapter_ClearScopedToPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeS3()
	fake.objects["other/keep"] = []byte("1")

	a, err := storage.NewS3Adapter(ctx, storage.S3Config{Bucket: "b"}, "/emailkit/", storage.WithS3Client(fake))
	require.NoError(t, err)
	require.NoError(t, a.Set(ctx, "themes", []byte("x")))
	_, ok := fake.objects["emailkit/themes"]
	require.True(t, ok)

	require.NoError(t, a.Clear(ctx))
	assert.Len(t, fake.objects, 1)
	assert.Contains(t, fake.objects, "other/keep")
	assert.NoError(t, a.Healthcheck(ctx))
}

func TestNewS3Adapter_RequiresBucket(t *testing.T) {
	t.Parallel()
	_, err := storage.NewS3Adapter(context.Background(), storage.S3Config{}, "", storage.WithS3Client(newFakeS3()))
	assert.ErrorIs(t, err, storage.ErrMissingConfig)
}

type mockS3 struct {
	mock.Mock
	*fakeS3
}

func (m *mockS3) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *mockS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*s3.HeadBucketOutput)
	return out, args.Error(1)
}

func TestS3Adapter_ErrorMapping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := &mockS3{fakeS3: newFakeS3()}
	m.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "gone"
	})).Return(nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"})
	m.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "denied"
	})).Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"})
	m.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, errors.New("unreachable"))

	a, err := storage.NewS3Adapter(ctx, storage.S3Config{Bucket: "b"}, "", storage.WithS3Client(m))
	require.NoError(t, err)

	_, err = a.Get(ctx, "gone")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = a.Get(ctx, "denied")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, a.Healthcheck(ctx), storage.ErrHealthcheckFailed)
	m.AssertExpectations(t)
}
