package artifact

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockObjectAPI struct {
	mock.Mock
}

func (m *mockObjectAPI) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockObjectAPI) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	_ ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func TestS3Backend_Put(t *testing.T) {
	client := new(mockObjectAPI)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		r, ok := in.Body.(*bytes.Reader)
		if !ok {
			return false
		}
		body := make([]byte, r.Size())
		_, _ = r.ReadAt(body, 0)
		return aws.ToString(in.Bucket) == "reports" &&
			aws.ToString(in.Key) == "atlas/metrics/q1.json" &&
			string(body) == `{"a":1}`
	})).Return(&s3.PutObjectOutput{}, nil)

	b, err := NewS3Backend(client, "reports", "atlas")
	require.NoError(t, err)

	location, err := b.Put(context.Background(), MetricsKey("q1"), []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/atlas/metrics/q1.json", location)
	client.AssertExpectations(t)
}

func TestS3Backend_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := new(mockObjectAPI)
		client.On("GetObject", mock.Anything, &s3.GetObjectInput{
			Bucket: aws.String("reports"),
			Key:    aws.String("extracted/q1.json"),
		}).Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(`[]`)))}, nil)

		b, err := NewS3Backend(client, "reports", "")
		require.NoError(t, err)

		data, err := b.Get(context.Background(), PagesKey("q1"))
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(data))
	})

	t.Run("missing key", func(t *testing.T) {
		client := new(mockObjectAPI)
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

		b, err := NewS3Backend(client, "reports", "")
		require.NoError(t, err)

		_, err = b.Get(context.Background(), PagesKey("q1"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other failure", func(t *testing.T) {
		client := new(mockObjectAPI)
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

		b, err := NewS3Backend(client, "reports", "")
		require.NoError(t, err)

		_, err = b.Get(context.Background(), PagesKey("q1"))
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestNewS3Backend_Validation(t *testing.T) {
	_, err := NewS3Backend(nil, "bucket", "")
	assert.Error(t, err)

	_, err = NewS3Backend(new(mockObjectAPI), "", "")
	assert.Error(t, err)
}
