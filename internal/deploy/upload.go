package deploy

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"
)

// PutObjectAPI is the part of the S3 client the uploader uses.
type PutObjectAPI interface {
	PutObject(
		ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
}

type UploaderOptions struct {
	Logger      *slog.Logger
	Bucket      string
	Prefix      string
	Concurrency int
}

// Uploader publishes a built site to a bucket.
type Uploader struct {
	client PutObjectAPI
	opts   UploaderOptions
}

func NewUploader(client PutObjectAPI, opts UploaderOptions) (*Uploader, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("no deploy bucket configured")
	}

	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Uploader{client: client, opts: opts}, nil
}

// Upload puts every file under dir into the bucket and returns the object
// keys that were written.
func (u *Uploader) Upload(ctx context.Context, dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			files = append(files, p)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files in %s: %w", dir, err)
	}

	keys := make([]string, len(files))

	for i, name := range files {
		rel, err := filepath.Rel(dir, name)
		if err != nil {
			return nil, fmt.Errorf("relative path for %s: %w", name, err)
		}

		keys[i] = ObjectKey(u.opts.Prefix, rel)
	}

	grp, gCtx := errgroup.WithContext(ctx)
	grp.SetLimit(u.opts.Concurrency)

	for i, name := range files {
		key := keys[i]

		grp.Go(func() error {
			return u.put(gCtx, name, key)
		})
	}

	err = grp.Wait()
	if err != nil {
		return nil, err
	}

	return keys, nil
}

func (u *Uploader) put(ctx context.Context, name, key string) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}

	defer f.Close()

	input := s3.PutObjectInput{
		Bucket:      aws.String(u.opts.Bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentType(name)),
	}

	if strings.HasSuffix(key, ".html") {
		input.CacheControl = aws.String("public, max-age=0, must-revalidate")
	}

	_, err = u.client.PutObject(ctx, &input)
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s/%s: %w", name, u.opts.Bucket, key, err)
	}

	u.opts.Logger.Debug("uploaded", "key", key)

	return nil
}

// ObjectKey joins prefix and a relative file path with forward slashes.
func ObjectKey(prefix, rel string) string {
	return strings.TrimPrefix(path.Join(prefix, filepath.ToSlash(rel)), "/")
}

// ContentType guesses the MIME type from the file extension.
func ContentType(name string) string {
	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		return "application/octet-stream"
	}

	return ct
}
