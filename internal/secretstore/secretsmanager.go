package secretstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
)

// SecretsManagerStore implements Store on AWS Secrets Manager.
type SecretsManagerStore struct {
	client *secretsmanager.Client
}

var _ Store = (*SecretsManagerStore)(nil)

func NewSecretsManagerStore(client *secretsmanager.Client) *SecretsManagerStore {
	return &SecretsManagerStore{client: client}
}

func (s *SecretsManagerStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.DescribeSecret(ctx, &secretsmanager.DescribeSecretInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		var nf *types.ResourceNotFoundException
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, fmt.Errorf("describing secret %s: %w", name, err)
	}
	return true, nil
}

func (s *SecretsManagerStore) Create(ctx context.Context, name, value string) error {
	_, err := s.client.CreateSecret(ctx, &secretsmanager.CreateSecretInput{
		Name:         aws.String(name),
		SecretString: aws.String(value),
	})
	if err != nil {
		return fmt.Errorf("creating secret %s: %w", name, err)
	}
	return nil
}

func (s *SecretsManagerStore) Update(ctx context.Context, name, value string) error {
	_, err := s.client.UpdateSecret(ctx, &secretsmanager.UpdateSecretInput{
		SecretId:     aws.String(name),
		SecretString: aws.String(value),
	})
	if err != nil {
		return fmt.Errorf("updating secret %s: %w", name, err)
	}
	return nil
}
