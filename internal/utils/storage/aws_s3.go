package storage

import (
	"Receipt-Tracker/internal/utils"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/webp", "image/heic", "image/heif"}

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrStorageNotReady    = errors.New("object storage is not configured")
)

const uploadTimeout = 30 * time.Second

type (
	AwsS3 interface {
		UploadFile(fileName string, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error)
		UpdateFile(objectKey string, file *multipart.FileHeader, allowedTypes ...string) (string, error)
		DeleteFile(objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if accessKey := utils.GetConfig("AWS_ACCESS_KEY"); accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Errorf("error loading aws config: %v", err)
		return &awsS3{bucket: bucket, region: region}
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}
}

func (a *awsS3) ready() error {
	if a.client == nil || a.bucket == "" {
		return ErrStorageNotReady
	}
	return nil
}

// readAllowed reads the upload and checks its sniffed content type.
func readAllowed(file *multipart.FileHeader, allowedTypes []string) ([]byte, string, error) {
	f, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}

	mtype := mimetype.Detect(data)
	if len(allowedTypes) > 0 && !mimetype.EqualsAny(mtype.String(), allowedTypes...) {
		return nil, "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mtype.String())
	}
	return data, mtype.String(), nil
}

func (a *awsS3) put(objectKey string, data []byte, contentType string) error {
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

// prepare reads and checks the upload and converts HEIC photos to JPEG. It returns
// the bytes to store, their content type and the matching file extension.
func (a *awsS3) prepare(file *multipart.FileHeader, allowedTypes []string) ([]byte, string, string, error) {
	if err := a.ready(); err != nil {
		return nil, "", "", err
	}
	data, contentType, err := readAllowed(file, allowedTypes)
	if err != nil {
		return nil, "", "", err
	}
	data, contentType, err = normalizeImage(data, contentType)
	if err != nil {
		return nil, "", "", err
	}
	return data, contentType, extensionFor(contentType, file.Filename), nil
}

func (a *awsS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error) {
	data, contentType, ext, err := a.prepare(file, allowedTypes)
	if err != nil {
		return "", err
	}
	objectKey := path.Join(folder, fileName+ext)
	if err := a.put(objectKey, data, contentType); err != nil {
		return "", err
	}
	return objectKey, nil
}

// UpdateFile overwrites objectKey in place, so a converted upload keeps the
// existing key.
func (a *awsS3) UpdateFile(objectKey string, file *multipart.FileHeader, allowedTypes ...string) (string, error) {
	data, contentType, _, err := a.prepare(file, allowedTypes)
	if err != nil {
		return "", err
	}
	if err := a.put(objectKey, data, contentType); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (a *awsS3) DeleteFile(objectKey string) error {
	if err := a.ready(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if !strings.HasPrefix(u.Host, a.bucket+".") {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
