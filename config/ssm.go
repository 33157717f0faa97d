package config

import (
	"context"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

const ssmTimeout = 5 * time.Second

// GetParameter reads a single (optionally encrypted) value from AWS SSM Parameter Store.
func GetParameter(ctx context.Context, name string, decrypt bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ssmTimeout)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	result, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: &decrypt,
	})
	if err != nil {
		return "", fmt.Errorf("get parameter %s: %w", name, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %s has no value", name)
	}

	return *result.Parameter.Value, nil
}

func getParameterStoreValue(name string, decrypt bool) string {
	if name == "" {
		return ""
	}
	value, err := GetParameter(context.Background(), name, decrypt)
	if err != nil {
		return ""
	}
	return value
}

// ResolveSecrets fills values that production keeps in Parameter Store.
// Outside prod it is a no-op.
func (c *Config) ResolveSecrets(ctx context.Context) error {
	if c.Log.Environment != "prod" {
		return nil
	}

	if c.Notify.Discord.WebhookSSMParam != "" {
		url, err := GetParameter(ctx, c.Notify.Discord.WebhookSSMParam, true)
		if err != nil {
			return fmt.Errorf("resolve discord webhook: %w", err)
		}
		c.Notify.Discord.WebhookURL = url
	}

	return nil
}
