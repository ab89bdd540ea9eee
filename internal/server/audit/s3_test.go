package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAWS(t *testing.T) *s3.Options {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var captured s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&captured)
		}
		return &s3.Client{}
	}
	return &captured
}

func testConfig() S3Config {
	return S3Config{
		Region:    "us-east-1",
		Endpoint:  "http://127.0.0.1:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "safevault-audit",
	}
}

func TestNewS3Recorder_AppliesEndpointAndDefaults(t *testing.T) {
	opts := stubAWS(t)

	r, err := NewS3Recorder(context.Background(), testConfig())
	require.NoError(t, err)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "audit", r.prefix)
}

func TestNewS3Recorder_RequiresBucket(t *testing.T) {
	stubAWS(t)
	c := testConfig()
	c.Bucket = ""
	_, err := NewS3Recorder(context.Background(), c)
	require.Error(t, err)
}

func TestNewS3Recorder_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no creds")
	}

	_, err := NewS3Recorder(context.Background(), testConfig())
	require.ErrorContains(t, err, "no creds")
}

func TestS3Recorder_RecordPutsJSONObject(t *testing.T) {
	stubAWS(t)
	r, err := NewS3Recorder(context.Background(), testConfig())
	require.NoError(t, err)

	origPut := putObject
	t.Cleanup(func() { putObject = origPut })

	var gotKey, gotBucket, gotType string
	var body []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		gotBucket = aws.ToString(in.Bucket)
		gotKey = aws.ToString(in.Key)
		gotType = aws.ToString(in.ContentType)
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		body = b
		return &s3.PutObjectOutput{}, nil
	}

	end := time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC)
	err = r.Record(context.Background(), Event{
		Type:       EventLockedOut,
		Username:   "alice",
		Attempts:   5,
		LockoutEnd: &end,
		At:         time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "safevault-audit", gotBucket)
	assert.Equal(t, "application/json", gotType)
	assert.True(t, strings.HasPrefix(gotKey, "audit/2024/05/01/"), gotKey)
	assert.True(t, strings.HasSuffix(gotKey, ".json"), gotKey)

	var e Event
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, EventLockedOut, e.Type)
	assert.Equal(t, "alice", e.Username)
	assert.NotEmpty(t, e.ID)
	assert.Contains(t, gotKey, e.ID)
}

func TestS3Recorder_RecordPutError(t *testing.T) {
	stubAWS(t)
	r, err := NewS3Recorder(context.Background(), testConfig())
	require.NoError(t, err)

	origPut := putObject
	t.Cleanup(func() { putObject = origPut })
	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket gone")
	}

	err = r.Record(context.Background(), Event{Type: EventRegistered, Username: "bob", At: time.Now()})
	require.ErrorContains(t, err, "bucket gone")
}

func TestNop_Record(t *testing.T) {
	var r Recorder = Nop{}
	require.NoError(t, r.Record(context.Background(), Event{}))
}
