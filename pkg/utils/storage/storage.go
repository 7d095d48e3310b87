// Package storage uploads branding assets to an R2-compatible S3 bucket.
package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	imageutil "devkraft_backend/pkg/utils/image"
)

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

func bucket() string {
	if b := os.Getenv("R2_BUCKET"); b != "" {
		return b
	}
	return "devkraft-assets"
}

type UploadAssetConfig struct {
	File     *multipart.FileHeader
	Category string // e.g. "branding", "case-studies"
}

// UploadAsset processes the image and stores it under
// <category>/<uuid>.<ext>, returning the public URL.
func UploadAsset(cfg UploadAssetConfig) (string, error) {
	buf, contentType, err := imageutil.ProcessImage(cfg.File)
	if err != nil {
		return "", err
	}

	category := slug.Make(cfg.Category)
	if category == "" {
		category = "uploads"
	}

	ext := strings.ToLower(filepath.Ext(cfg.File.Filename))
	objectKey := filepath.Join(category, uuid.New().String()+ext)

	client, err := getS3Client()
	if err != nil {
		return "", err
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket()),
		Key:         aws.String(objectKey),
		Body:        buf,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload to storage: %v", err)
	}

	publicBase := os.Getenv("R2_PUBLIC_URL")
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s", os.Getenv("R2_ACCOUNT_ID"), bucket())
	}

	return fmt.Sprintf("%s/%s", strings.TrimRight(publicBase, "/"), objectKey), nil
}

// DeleteAsset removes a previously uploaded object by its public URL.
func DeleteAsset(assetURL string) error {
	parts := strings.SplitN(assetURL, bucket()+"/", 2)
	var key string
	if len(parts) == 2 {
		key = parts[1]
	} else {
		// Custom public domains map the bucket at the root.
		segments := strings.SplitN(assetURL, "://", 2)
		if len(segments) != 2 {
			return fmt.Errorf("invalid asset URL: %s", assetURL)
		}
		slashIdx := strings.Index(segments[1], "/")
		if slashIdx < 0 {
			return fmt.Errorf("invalid asset URL: %s", assetURL)
		}
		key = segments[1][slashIdx+1:]
	}

	client, err := getS3Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucket()),
		Key:    aws.String(key),
	})

	return err
}
