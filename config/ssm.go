package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// NewSSMClient builds a Parameter Store client from the default AWS credential chain.
func NewSSMClient(ctx context.Context, region string) (*ssm.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(cfg), nil
}

// LoadParameters reads every parameter below prefix (recursively, decrypted)
// and keys it by the last path segment, e.g. /reelbyte/prod/JWT_SECRET -> JWT_SECRET.
func LoadParameters(ctx context.Context, client ssm.GetParametersByPathAPIClient, prefix string) (map[string]string, error) {
	out := make(map[string]string)

	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("get parameters by path %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			name := path.Base(aws.ToString(p.Name))
			out[name] = aws.ToString(p.Value)
		}
	}

	return out, nil
}
