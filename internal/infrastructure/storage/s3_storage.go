// Package storage adaptadores de almacenamiento de objetos para archivos de las tiendas.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/internal/domain"
	"github.com/jhoicas/storefront-api/pkg/config"
	"github.com/jhoicas/storefront-api/pkg/logger"
)

var (
	_ ports.ObjectStorage = (*S3Storage)(nil)
	_ ports.ObjectStorage = Disabled{}
)

// S3Storage implementa ObjectStorage sobre cualquier servicio compatible con S3 (AWS, MinIO, R2).
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
	log       *logger.Logger
}

// NewS3Storage crea el cliente con credenciales estáticas. Con Endpoint se usa direccionamiento por path.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage: bucket requerido")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage: access key y secret key requeridos")
	}
	if log == nil {
		log = logger.Nop()
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: configuración AWS: %w", err)
	}

	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicBase(cfg, endpoint, region),
		log:       log.Component("storage"),
	}, nil
}

// Upload sube el objeto con lectura pública y devuelve su URL.
func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: key vacía", domain.ErrInvalidInput)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: subir %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int64("size", size).Msg("objeto subido")
	return s.URL(key), nil
}

// Delete elimina el objeto; S3 no falla si la key no existe.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: borrar %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Msg("objeto eliminado")
	return nil
}

// URL construye la URL pública de una key.
func (s *S3Storage) URL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}

// Disabled se usa cuando no hay bucket configurado: las subidas fallan con ErrStorageDisabled.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string, io.Reader, int64) (string, error) {
	return "", domain.ErrStorageDisabled
}

func (Disabled) Delete(context.Context, string) error { return nil }

func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" {
		return ""
	}
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return strings.TrimRight(endpoint, "/")
	}
	if useSSL {
		return "https://" + strings.TrimRight(endpoint, "/")
	}
	return "http://" + strings.TrimRight(endpoint, "/")
}

// publicBase PublicURL explícita, o endpoint/bucket (path style), o el host virtual de AWS.
func publicBase(cfg config.StorageConfig, endpoint, region string) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/")
	}
	if endpoint != "" {
		return endpoint + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}
