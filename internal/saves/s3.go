package saves

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/napolitain/hamlet/internal/models"
)

const (
	defaultS3Prefix = "saves/"
	s3Ext           = ".json"
	revisionMetaKey = "revision"
	jsonContentType = "application/json"
)

// S3Config configures an S3 or S3-compatible (MinIO, R2) save bucket
type S3Config struct {
	Bucket    string `env:"BUCKET"`
	Prefix    string `env:"PREFIX"` // Key prefix, defaults to "saves/"
	Region    string `env:"REGION"`
	Endpoint  string `env:"ENDPOINT"` // Optional custom endpoint
	PathStyle bool   `env:"PATH_STYLE"`
}

// S3Store keeps one JSON object per slot under a key prefix
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Store loads AWS credentials from the environment and connects
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket required")
	}
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	return newS3Store(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Store(client *s3.Client, bucket, prefix string) *S3Store {
	if prefix == "" {
		prefix = defaultS3Prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(slot string) string {
	return path.Join(s.prefix, slot+s3Ext)
}

func (s *S3Store) Save(ctx context.Context, slot string, state *models.GameState) (Snapshot, error) {
	snap, err := newSnapshot(slot, state, time.Now())
	if err != nil {
		return Snapshot{}, err
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode %s: %w", slot, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(slot)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(jsonContentType),
		Metadata:    map[string]string{revisionMetaKey: snap.Revision},
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("save %s: %w", slot, err)
	}
	return snap, nil
}

func (s *S3Store) Load(ctx context.Context, slot string) (Snapshot, error) {
	if err := ValidateSlot(slot); err != nil {
		return Snapshot{}, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(slot)),
	})
	if err != nil {
		if isNotFound(err) {
			return Snapshot{}, notFound(slot)
		}
		return Snapshot{}, fmt.Errorf("load %s: %w", slot, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", slot, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", slot, err)
	}
	if snap.State == nil {
		return Snapshot{}, fmt.Errorf("decode %s: missing state", slot)
	}
	return snap, nil
}

func (s *S3Store) List(ctx context.Context) ([]string, error) {
	var out []string
	var token *string
	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), s.prefix)
			if !strings.HasSuffix(name, s3Ext) {
				continue
			}
			slot := strings.TrimSuffix(name, s3Ext)
			if ValidateSlot(slot) == nil {
				out = append(out, slot)
			}
		}
		if aws.ToBool(page.IsTruncated) && page.NextContinuationToken != nil {
			token = page.NextContinuationToken
			continue
		}
		break
	}
	sort.Strings(out)
	return out, nil
}

func (s *S3Store) Close() error { return nil }

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var re interface{ HTTPStatusCode() int }
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
