package filedeps_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/activecode/internal/filedeps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, key)
	b, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String(key)}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func TestS3StoreOpen(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	packed := enc.EncodeAll([]byte("196674008\n"), nil)
	require.NoError(t, enc.Close())

	client := &fakeS3{objects: map[string][]byte{
		"exercises/a.txt":     []byte("raw"),
		"exercises/b.txt.zst": packed,
	}}
	s := filedeps.NewS3Store(client, "bucket", "exercises")
	ctx := context.Background()

	b, err := s.Open(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "raw", string(b))

	b, err = s.Open(ctx, "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "196674008\n", string(b))
	assert.Equal(t, []string{"exercises/a.txt", "exercises/b.txt", "exercises/b.txt.zst"}, client.keys)

	_, err = s.Open(ctx, "c.txt")
	assert.ErrorIs(t, err, filedeps.ErrNotFound)
}
