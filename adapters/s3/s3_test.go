package s3_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodiary/adapters/s3"
)

type fakeObjectAPI struct {
	puts      []*awss3.PutObjectInput
	bodies    [][]byte
	deletes   []*awss3.DeleteObjectsInput
	putErr    error
	deleteOut *awss3.DeleteObjectsOutput
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *awss3.PutObjectInput, _ ...func(*awss3.Options)) (*awss3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, body)
	return &awss3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObjects(_ context.Context, in *awss3.DeleteObjectsInput, _ ...func(*awss3.Options)) (*awss3.DeleteObjectsOutput, error) {
	f.deletes = append(f.deletes, in)
	if f.deleteOut != nil {
		return f.deleteOut, nil
	}
	return &awss3.DeleteObjectsOutput{}, nil
}

func TestImageStore_UploadImage(t *testing.T) {
	api := &fakeObjectAPI{}
	store, err := s3.NewImageStore(api, "moodiary-bucket", "https://cdn.moodiary.test", 16)
	require.NoError(t, err)

	url, err := store.UploadImage(context.Background(), "profile", 42, "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	require.Len(t, api.puts, 1)
	put := api.puts[0]
	assert.Equal(t, "moodiary-bucket", aws.ToString(put.Bucket))
	assert.Equal(t, "image/png", aws.ToString(put.ContentType))
	assert.Regexp(t, regexp.MustCompile(`^profile/42/[0-9a-f-]{36}\.png$`), aws.ToString(put.Key))
	assert.Equal(t, []byte("png-bytes"), api.bodies[0])
	assert.Equal(t, "https://cdn.moodiary.test/"+aws.ToString(put.Key), url)

	key, ok := store.KeyFromURL(url)
	assert.True(t, ok)
	assert.Equal(t, aws.ToString(put.Key), key)
}

func TestImageStore_UploadImageRejected(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		api         *fakeObjectAPI
		check       func(t *testing.T, err error)
	}{
		{
			name:        "unsupported type",
			contentType: "image/gif",
			body:        []byte("gif"),
			api:         &fakeObjectAPI{},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, s3.ErrUnsupportedImageType)
			},
		},
		{
			name:        "too large",
			contentType: "image/jpeg",
			body:        bytes.Repeat([]byte("x"), 17),
			api:         &fakeObjectAPI{},
			check: func(t *testing.T, err error) {
				assert.True(t, s3.IsReachLimit(err))
			},
		},
		{
			name:        "s3 error",
			contentType: "image/jpeg",
			body:        []byte("jpg"),
			api:         &fakeObjectAPI{putErr: errors.New("access denied")},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "access denied")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := s3.NewImageStore(tt.api, "bucket", "https://cdn.moodiary.test", 16)
			require.NoError(t, err)
			url, err := store.UploadImage(context.Background(), "profile", 1, tt.contentType, bytes.NewReader(tt.body))
			assert.Empty(t, url)
			tt.check(t, err)
			assert.Empty(t, tt.api.puts)
		})
	}
}

func TestImageStore_KeyFromURL(t *testing.T) {
	store, err := s3.NewImageStore(&fakeObjectAPI{}, "bucket", "https://cdn.moodiary.test/media", 16)
	require.NoError(t, err)

	key, ok := store.KeyFromURL("https://cdn.moodiary.test/media/profile/1/a.png")
	assert.True(t, ok)
	assert.Equal(t, "profile/1/a.png", key)

	_, ok = store.KeyFromURL("https://elsewhere.test/media/profile/1/a.png")
	assert.False(t, ok)
	_, ok = store.KeyFromURL("https://cdn.moodiary.test/other/a.png")
	assert.False(t, ok)
}

func TestImageStore_DeleteObjects(t *testing.T) {
	api := &fakeObjectAPI{}
	store, err := s3.NewImageStore(api, "bucket", "https://cdn.moodiary.test", 16)
	require.NoError(t, err)

	require.NoError(t, store.DeleteObjects(context.Background(), nil))
	assert.Empty(t, api.deletes)

	require.NoError(t, store.DeleteObjects(context.Background(), []string{"a", "", "b", "a"}))
	require.Len(t, api.deletes, 1)
	objects := api.deletes[0].Delete.Objects
	require.Len(t, objects, 2)
	assert.Equal(t, "a", aws.ToString(objects[0].Key))
	assert.Equal(t, "b", aws.ToString(objects[1].Key))

	api.deleteOut = &awss3.DeleteObjectsOutput{Errors: []types.Error{{Key: aws.String("a"), Code: aws.String("AccessDenied")}}}
	assert.ErrorContains(t, store.DeleteObjects(context.Background(), []string{"a"}), "AccessDenied")
}
