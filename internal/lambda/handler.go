package lambda

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stahnma/repolist/internal/commands"
)

// Event is the Lambda invocation payload. Args are repolist command-line
// arguments; when empty the authenticated user's repositories are exported
// as a JSON array.
type Event struct {
	Args []string `json:"args"`
}

// DefaultArgs are used when an event carries no arguments.
var DefaultArgs = []string{"--array"}

// Uploader stores the listing. It is satisfied by *s3.Client.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewHandler returns a Lambda handler function that runs a listing and
// uploads its output to S3. newUploader is called once per invocation; nil
// means an S3 client built from the default AWS configuration.
func NewHandler(app *commands.App, newUploader func(ctx context.Context) (Uploader, error)) func(context.Context, Event) (string, error) {
	if newUploader == nil {
		newUploader = defaultUploader
	}
	return func(ctx context.Context, event Event) (string, error) {
		s3Bucket := os.Getenv("S3_BUCKET_NAME")
		s3ObjectKey := os.Getenv("S3_OBJECT_KEY")
		if s3Bucket == "" || s3ObjectKey == "" {
			return "", fmt.Errorf("S3_BUCKET_NAME and S3_OBJECT_KEY environment variables must be set")
		}

		args := event.Args
		if len(args) == 0 {
			args = DefaultArgs
		}

		var buf bytes.Buffer
		cmd := app.NewRootCommand()
		cmd.SetArgs(args)
		cmd.SetOut(&buf)
		cmd.SetErr(io.Discard)
		if err := cmd.ExecuteContext(ctx); err != nil {
			// Partial output is never uploaded.
			return "", fmt.Errorf("listing: %w", err)
		}

		date := time.Now().Format("2006-Jan-02")
		key := strings.ReplaceAll(s3ObjectKey, "%s", date)

		uploader, err := newUploader(ctx)
		if err != nil {
			return "", err
		}
		_, err = uploader.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s3Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(buf.Bytes()),
			ContentType: aws.String(contentType(args)),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload listing to S3: %w", err)
		}

		return fmt.Sprintf("uploaded %d bytes to s3://%s/%s", buf.Len(), s3Bucket, key), nil
	}
}

func defaultUploader(ctx context.Context) (Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func contentType(args []string) string {
	for _, a := range args {
		switch a {
		case "--array", "-J", "--json":
			return "application/json"
		}
	}
	return "text/plain"
}
