package transcode

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/mediaconvert"
)

// ClientConfig selects the MediaConvert region and, for accounts that still
// require it, the account-specific endpoint.
type ClientConfig struct {
	Region   string
	Endpoint string
}

// NewClient builds a MediaConvert client from the default credential chain.
func NewClient(ctx context.Context, cfg ClientConfig) (*mediaconvert.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return mediaconvert.NewFromConfig(awsCfg, func(o *mediaconvert.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
