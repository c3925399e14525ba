// Package storage hands out presigned S3 upload URLs for gig samples,
// thumbnails and project attachments. Clients PUT the file directly to S3
// and store the resulting object URL on the gig or project.
package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/errs"
)

const maxFilenameLength = 255

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Presigner is the part of *s3.PresignClient the uploader needs.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// UploadRequest describes the file a client is about to upload.
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Upload is a presigned PUT the client must send within ExpiresAt.
type Upload struct {
	Method    string            `json:"method"`
	URL       string            `json:"upload_url"`
	Headers   map[string]string `json:"headers"`
	Key       string            `json:"key"`
	ObjectURL string            `json:"object_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type Uploader struct {
	presigner     Presigner
	bucket        string
	region        string
	expires       time.Duration
	maxVideoBytes int64
	maxImageBytes int64
	now           func() time.Time
}

func NewUploader(presigner Presigner, bucket, region string, expires time.Duration, maxVideoMB, maxImageMB int) *Uploader {
	return &Uploader{
		presigner:     presigner,
		bucket:        bucket,
		region:        region,
		expires:       expires,
		maxVideoBytes: int64(maxVideoMB) << 20,
		maxImageBytes: int64(maxImageMB) << 20,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// NewS3Uploader builds an Uploader on the default AWS credential chain.
func NewS3Uploader(ctx context.Context, bucket, region string, expires time.Duration, maxVideoMB, maxImageMB int) (*Uploader, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	presigner := s3.NewPresignClient(s3.NewFromConfig(cfg))
	return NewUploader(presigner, bucket, cfg.Region, expires, maxVideoMB, maxImageMB), nil
}

// Presign validates req and returns a presigned PUT under
// uploads/<owner>/<random>-<filename>.
func (u *Uploader) Presign(ctx context.Context, owner uuid.UUID, req UploadRequest) (*Upload, error) {
	contentType, err := u.validate(req)
	if err != nil {
		return nil, err
	}

	key := ObjectKey(owner, uuid.New(), req.Filename)
	signed, err := u.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(req.SizeBytes),
	}, s3.WithPresignExpires(u.expires))
	if err != nil {
		return nil, errs.NewUpstreamError("s3", err)
	}

	headers := make(map[string]string, len(signed.SignedHeader))
	for name := range signed.SignedHeader {
		if strings.EqualFold(name, "host") {
			continue
		}
		headers[name] = signed.SignedHeader.Get(name)
	}

	return &Upload{
		Method:    signed.Method,
		URL:       signed.URL,
		Headers:   headers,
		Key:       key,
		ObjectURL: u.objectURL(key),
		ExpiresAt: u.now().Add(u.expires),
	}, nil
}

// validate returns the normalised media type.
func (u *Uploader) validate(req UploadRequest) (string, error) {
	name := strings.TrimSpace(req.Filename)
	if name == "" {
		return "", errs.NewMissingRequiredFieldError("filename")
	}
	if len(name) > maxFilenameLength {
		return "", errs.NewInvalidFieldError("filename", fmt.Sprintf("must be at most %d characters", maxFilenameLength))
	}

	mediaType, _, err := mime.ParseMediaType(req.ContentType)
	if err != nil {
		return "", errs.NewUnsupportedMediaTypeError(req.ContentType, []string{"video/*", "image/*"})
	}

	var limit int64
	switch {
	case strings.HasPrefix(mediaType, "video/"):
		limit = u.maxVideoBytes
	case strings.HasPrefix(mediaType, "image/"):
		limit = u.maxImageBytes
	default:
		return "", errs.NewUnsupportedMediaTypeError(req.ContentType, []string{"video/*", "image/*"})
	}

	if req.SizeBytes < 1 {
		return "", errs.NewInvalidFieldError("size_bytes", "must be at least 1")
	}
	if req.SizeBytes > limit {
		return "", errs.NewMaxBodySizeExceededError("size_bytes", limit)
	}
	return mediaType, nil
}

func (u *Uploader) objectURL(key string) string {
	if u.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

// ObjectKey places an upload under its owner with a random prefix so two
// uploads of the same file never collide.
func ObjectKey(owner, id uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/"))
	name = strings.Trim(unsafeNameChars.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		name = "file"
	}
	return fmt.Sprintf("uploads/%s/%s-%s", owner, id, name)
}
