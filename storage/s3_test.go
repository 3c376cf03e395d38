package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string]string
	types   map[string]string
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]string{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = string(body)
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_PutDelete(t *testing.T) {
	fake := newFakeS3()
	store := newS3StoreWithClient(fake, "blog-media", "https://cdn.example.com")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "media/a.gif", strings.NewReader("GIF89a"), 6, "image/gif"))
	assert.Equal(t, "GIF89a", fake.objects["blog-media/media/a.gif"])
	assert.Equal(t, "image/gif", fake.types["blog-media/media/a.gif"])
	assert.Equal(t, "https://cdn.example.com/media/a.gif", store.URL("media/a.gif"))

	require.NoError(t, store.Delete(ctx, "media/a.gif"))
	assert.Empty(t, fake.objects)
}

func TestS3Store_PutError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	store := newS3StoreWithClient(fake, "blog-media", "https://cdn.example.com")

	err := store.Put(context.Background(), "media/a.gif", strings.NewReader("x"), 1, "image/gif")
	assert.ErrorContains(t, err, "access denied")
}
