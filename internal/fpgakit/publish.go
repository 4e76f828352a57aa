package fpgakit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MirrorClient wraps the S3 client for the release bucket behind the
// package mirror. Maintainer-side only; regular installs never touch
// the bucket directly.
type MirrorClient struct {
	Client     *s3.Client
	BucketName string
}

// NewMirrorClient initializes an S3 client from configuration values.
func NewMirrorClient(cfg *Config) (*MirrorClient, error) {
	endpoint := cfg.Values["MIRROR_S3_ENDPOINT"]
	accessKey := cfg.Values["MIRROR_S3_ACCESS_KEY_ID"]
	secretKey := cfg.Values["MIRROR_S3_SECRET_ACCESS_KEY"]
	bucketName := cfg.Values["MIRROR_S3_BUCKET"]

	if endpoint == "" || accessKey == "" || secretKey == "" || bucketName == "" {
		return nil, fmt.Errorf("mirror credentials missing in configuration " +
			"(MIRROR_S3_ENDPOINT, MIRROR_S3_ACCESS_KEY_ID, MIRROR_S3_SECRET_ACCESS_KEY, MIRROR_S3_BUCKET)")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{URL: endpoint}, nil
	})

	options := []func(*config.LoadOptions) error{
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion("auto"),
	}

	if Debug {
		options = append(options, config.WithClientLogMode(aws.LogSigning|aws.LogRetries|aws.LogRequest|aws.LogResponse))
	}

	awsCfg, err := config.LoadDefaultConfig(context.TODO(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load mirror config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &MirrorClient{Client: client, BucketName: bucketName}, nil
}

// DownloadFile fetches an object from the bucket.
func (m *MirrorClient) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	output, err := m.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer output.Body.Close()

	return io.ReadAll(output.Body)
}

// UploadFile uploads an in-memory object to the bucket.
func (m *MirrorClient) UploadFile(ctx context.Context, key string, body []byte) error {
	contentType := "application/octet-stream"
	if strings.HasSuffix(key, ".json") {
		contentType = "application/json"
	}

	_, err := m.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	return err
}

// UploadLocalFile uploads a file from disk to the bucket.
func (m *MirrorClient) UploadLocalFile(ctx context.Context, key, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	_, err = m.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.BucketName),
		Key:           aws.String(key),
		Body:          file,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String("application/octet-stream"),
	})
	return err
}

// publishPackage uploads a release archive for one package and
// refreshes the mirror index: archive under <name>/<file>, digest and
// version recorded in index.json.
func publishPackage(ctx context.Context, cfg *Config, name, pkgVersion, platform, archivePath string) error {
	if _, ok := packageTable[name]; !ok {
		return fmt.Errorf("unknown package: %s", name)
	}

	client, err := NewMirrorClient(cfg)
	if err != nil {
		return err
	}

	digest, err := blake3SumFile(archivePath)
	if err != nil {
		return err
	}

	file := filepath.Base(archivePath)
	key := path.Join(name, file)

	colArrow.Print("-> ")
	colSuccess.Printf("Uploading %s to %s\n", file, key)
	if err := client.UploadLocalFile(ctx, key, archivePath); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	// Refresh the index. A missing index means a fresh bucket.
	index := &mirrorIndex{Packages: make(map[string]mirrorPackage)}
	if data, err := client.DownloadFile(ctx, mirrorIndexFile); err == nil {
		if err := json.Unmarshal(data, index); err != nil {
			return fmt.Errorf("failed to parse remote index: %w", err)
		}
		if index.Packages == nil {
			index.Packages = make(map[string]mirrorPackage)
		}
	} else {
		debugf("No remote index yet, starting a new one: %v\n", err)
	}

	entry := index.Packages[name]
	if entry.Files == nil {
		entry.Files = make(map[string]string)
	}
	if entry.Checksums == nil {
		entry.Checksums = make(map[string]string)
	}
	entry.Version = pkgVersion
	entry.Files[platform] = file
	entry.Checksums[file] = digest
	index.Packages[name] = entry

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	if err := client.UploadFile(ctx, mirrorIndexFile, data); err != nil {
		return fmt.Errorf("failed to upload index: %w", err)
	}

	colSuccess.Printf("Published %s %s for %s\n", name, pkgVersion, platform)
	return nil
}
