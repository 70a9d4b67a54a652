// Package spaces keeps one JSON record per player in an S3 compatible bucket
// (DigitalOcean Spaces by default), at <root>/<user>.json.
package spaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/wordlestats/wordlebot/wordlebot/logger"
	"github.com/wordlestats/wordlebot/wordlebot/storage"
	"github.com/wordlestats/wordlebot/wordlebot/wordle"
)

type Config struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Root     string `toml:"root"`
	Endpoint string `toml:"endpoint"`
}

// API is the subset of the S3 client the store uses.
type API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

type Store struct {
	client API
	bucket string
	root   string

	// serialises read-modify-write cycles of this process
	mu sync.Mutex
}

var _ storage.Store = (*Store)(nil)

func Open(ctx context.Context, cfg Config) (*Store, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.Region)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	logger.LogSystem("Spaces storage ready",
		slog.String("bucket", cfg.Bucket),
		slog.String("endpoint", endpoint))
	return New(client, cfg.Bucket, cfg.Root), nil
}

func New(client API, bucket, root string) *Store {
	return &Store{client: client, bucket: bucket, root: strings.Trim(root, "/")}
}

func (s *Store) key(user string) string {
	if s.root == "" {
		return user + ".json"
	}
	return s.root + "/" + user + ".json"
}

func (s *Store) prefix() string {
	if s.root == "" {
		return ""
	}
	return s.root + "/"
}

// load returns nil, nil when the player has no object.
func (s *Store) load(ctx context.Context, user string) (*storage.Record, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(user)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, storage.Wrap("get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, storage.Wrap("read object", err)
	}

	var rec storage.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key(user), err)
	}
	return rec.Normalize(), nil
}

func (s *Store) save(ctx context.Context, user string, rec *storage.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(user)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return storage.Wrap("put object", err)
	}
	return nil
}

func (s *Store) GetUserStats(ctx context.Context, user string) (*wordle.Stats, error) {
	rec, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return wordle.NewStats(), nil
	}
	return rec.Stats, nil
}

func (s *Store) GetGameResult(ctx context.Context, game int, user string) (*wordle.Result, error) {
	rec, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return wordle.EmptyResult(game), nil
	}
	return rec.Result(game), nil
}

func (s *Store) GetWeeklyResults(ctx context.Context, user string, now time.Time) ([]*wordle.Result, error) {
	rec, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return []*wordle.Result{}, nil
	}
	return rec.Weekly(now), nil
}

func (s *Store) LogResult(ctx context.Context, user string, result *wordle.Result) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	rec, err := s.load(ctx, user)
	if err != nil {
		return false, err
	}
	if rec == nil {
		rec = storage.NewRecord()
	}
	if !rec.Log(result) {
		return false, nil
	}

	err = s.save(ctx, user, rec)
	logger.LogQuery("LogResult", time.Since(start), err,
		slog.String("user_id", user),
		slog.Int("game", result.Game))
	return err == nil, err
}

func (s *Store) ReplaceUser(ctx context.Context, user string, results []*wordle.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(storage.Dedupe(results)) == 0 {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key(user)),
		})
		return storage.Wrap("delete object", err)
	}

	rec := storage.NewRecord()
	rec.Replace(results)
	return s.save(ctx, user, rec)
}

func (s *Store) Users(ctx context.Context) ([]string, error) {
	prefix := s.prefix()
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	users := []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storage.Wrap("list objects", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, ".json") {
				continue
			}
			users = append(users, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(users)
	return users, nil
}

func (s *Store) Results(ctx context.Context, user string) ([]*wordle.Result, error) {
	rec, err := s.load(ctx, user)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return []*wordle.Result{}, nil
	}
	return rec.All(), nil
}

func (s *Store) Close() error { return nil }
