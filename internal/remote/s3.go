package remote

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"hermes/internal/config"
)

// S3 lists exports under a bucket prefix. A custom endpoint switches to
// path-style addressing for MinIO and similar servers.
type S3 struct {
	client  *s3.Client
	bucket  string
	prefix  string
	timeout time.Duration
}

// NewS3 builds an S3 source from cfg. Static credentials are used when set;
// otherwise the default AWS credential chain applies.
func NewS3(ctx context.Context, cfg config.S3, timeout time.Duration) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, transient("init", "load aws config", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		timeout: timeout,
	}, nil
}

// List returns recognized objects under the prefix.
func (s *S3) List(ctx context.Context) ([]File, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	input := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if s.prefix != "" {
		input.Prefix = aws.String(s.prefix)
	}

	var files []File
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, transient("list", "list objects", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			name := path.Base(key)
			if !Recognized(name) {
				continue
			}
			files = append(files, File{
				Href:       key,
				URL:        "s3://" + s.bucket + "/" + key,
				ChangeTag:  unquoteTag(aws.ToString(obj.ETag)),
				ModifiedAt: aws.ToTime(obj.LastModified).UTC(),
				Name:       name,
				Size:       aws.ToInt64(obj.Size),
			})
		}
	}
	return files, nil
}

// Fetch downloads the object named by file.Href.
func (s *S3) Fetch(ctx context.Context, file File) ([]byte, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(file.Href),
	})
	if err != nil {
		return nil, transient("fetch", "get object "+file.Href, err)
	}
	defer out.Body.Close()

	data, err := readBounded(out.Body)
	if err != nil {
		return nil, transient("fetch", "read object "+file.Href, err)
	}
	return data, nil
}
